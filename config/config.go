package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type ConfigStruct struct {
	Itunes  ItunesConfig
	Options Options
	Sentry  SentryConfig
	Cache   CacheConfig
}

type ItunesConfig struct {
	BaseURL string
}

type SentryConfig struct {
	DSN     string
	Release string
}

type CacheConfig struct {
	TTLSeconds int    // 0 disables response caching
	DBPath     string // sqlite path backing the response cache
}

type Options struct {
	Port               string
	LogLevel           string
	RateLimitPerMinute int
}

var ErrMissingBaseURL = errors.New("ITUNES_BASE_URL must not be empty")

func (c *CacheConfig) Enabled() bool {
	return c.TTLSeconds > 0
}

// Validate checks the settings the service cannot start without.
func (c *ConfigStruct) Validate() error {
	if c.Itunes.BaseURL == "" {
		return ErrMissingBaseURL
	}
	return nil
}

var Config *ConfigStruct

func NewConfig() {
	config := &ConfigStruct{
		Itunes: ItunesConfig{
			BaseURL: strings.TrimSpace(os.Getenv("ITUNES_BASE_URL")),
		},
		Options: Options{
			Port:               getPort(),
			LogLevel:           getLogLevel(),
			RateLimitPerMinute: getRateLimit(),
		},
		Sentry: SentryConfig{
			DSN:     os.Getenv("SENTRY_DSN"),
			Release: os.Getenv("RELEASE"),
		},
		Cache: CacheConfig{
			TTLSeconds: getCacheTTL(),
			DBPath:     getDBPath(),
		},
	}

	Config = config
}

func getPort() string {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		return "8080"
	}
	return port
}

func getLogLevel() string {
	level := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if level == "" {
		return "info"
	}
	return level
}

func getRateLimit() int {
	limitStr := os.Getenv("RATE_LIMIT_PER_MINUTE")
	if limitStr == "" {
		return 10
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		return 10
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}

func getCacheTTL() int {
	ttlStr := os.Getenv("CACHE_TTL_SECONDS")
	if ttlStr == "" {
		return 60
	}
	ttl, err := strconv.Atoi(ttlStr)
	if err != nil || ttl < 0 {
		return 60
	}
	if ttl > 3600 {
		return 3600 // an hour is already stale for a daily list
	}
	return ttl
}

func getDBPath() string {
	path := strings.TrimSpace(os.Getenv("DB_PATH"))
	if path == "" {
		return ":memory:"
	}
	return path
}
