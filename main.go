package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"todaysartists/artists"
	appConfig "todaysartists/config"
	"todaysartists/database"
	"todaysartists/handlers"
	"todaysartists/itunes"
	"todaysartists/logging"
	"todaysartists/middleware"
	"todaysartists/sentry"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warnf("Error loading .env file: %v", err)
	}
	appConfig.NewConfig()
	logging.Setup(appConfig.Config.Options.LogLevel)

	if err := appConfig.Config.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	cfg := appConfig.Config

	if err := sentry.Init(cfg.Sentry.DSN, cfg.Sentry.Release); err != nil {
		log.Errorf("sentry.Init: %v", err)
	}
	defer sentry.Flush()

	db, err := database.New(cfg.Cache.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	if cfg.Cache.Enabled() {
		go db.RunPurger(ctx, ttl)
	}

	service := artists.NewService(itunes.NewClient(cfg.Itunes.BaseURL))
	manager := handlers.NewManager(service)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(sentry.GetSentryGin())
	router.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.Options.RateLimitPerMinute, time.Minute)))
	router.Use(middleware.Cache(db, ttl))
	manager.RegisterRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Options.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on :%s", cfg.Options.Port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
