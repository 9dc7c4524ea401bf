// Package handlers turns HTTP requests into artist selections and maps
// selection failures onto status codes.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"todaysartists/artists"
	"todaysartists/itunes"
	"todaysartists/pages"
)

const unavailableMessage = "catalog service is unavailable right now"

// ArtistService is the selection pipeline as seen by the HTTP layer.
type ArtistService interface {
	GetItems(ctx context.Context, query artists.Query) (*artists.Result, error)
}

type Manager struct {
	Service ArtistService
}

func NewManager(service ArtistService) *Manager {
	return &Manager{Service: service}
}

func (manager *Manager) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", manager.Health)
	router.GET("/artists/today", manager.GetTodaysArtists)
	router.GET("/artists/today/page", manager.GetTodaysArtistsPage)
}

func (manager *Manager) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetTodaysArtists serves GET /artists/today.
func (manager *Manager) GetTodaysArtists(c *gin.Context) {
	result, ok := manager.selectArtists(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetTodaysArtistsPage serves the same selection as an HTML page, headed by
// the day the selection was made for.
func (manager *Manager) GetTodaysArtistsPage(c *gin.Context) {
	result, ok := manager.selectArtists(c)
	if !ok {
		return
	}

	html, err := pages.RenderArtists(result)
	if err != nil {
		manager.handleError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (manager *Manager) selectArtists(c *gin.Context) (*artists.Result, bool) {
	query, problems := parseTodayQuery(c)
	if len(problems) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"statusCode": http.StatusBadRequest,
			"message":    problems,
			"error":      "Bad Request",
		})
		return nil, false
	}

	result, err := manager.Service.GetItems(c.Request.Context(), query)
	if err != nil {
		manager.handleError(c, err)
		return nil, false
	}
	return result, true
}

func (manager *Manager) handleError(c *gin.Context, err error) {
	logger := log.WithFields(log.Fields{"module": "handlers", "path": c.FullPath()})

	if errors.Is(err, itunes.ErrServiceUnavailable) {
		logger.WithField("reason", itunes.ReasonOf(err)).Warnf("Catalog unavailable: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"statusCode": http.StatusServiceUnavailable,
			"message":    unavailableMessage,
			"error":      "Service Unavailable",
		})
		return
	}

	logger.Errorf("Failed to select artists: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"statusCode": http.StatusInternalServerError,
		"message":    "Internal server error",
	})
}
