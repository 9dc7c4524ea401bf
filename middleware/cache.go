package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"todaysartists/database"
)

// ResponseStore persists serialized responses. *database.Database implements it.
type ResponseStore interface {
	GetResponse(ctx context.Context, key string, now time.Time) (*database.CachedResponse, bool, error)
	PutResponse(ctx context.Context, r database.CachedResponse) error
}

const cacheHeader = "X-Cache"

// Cache replays successful GET responses for ttl, keyed by request URI.
// A ttl <= 0 turns the middleware into a pass-through.
func Cache(store ResponseStore, ttl time.Duration) gin.HandlerFunc {
	logger := log.WithFields(log.Fields{"module": "middleware", "function": "Cache"})

	return func(c *gin.Context) {
		if ttl <= 0 || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := c.Request.URL.RequestURI()

		cached, ok, err := store.GetResponse(ctx, key, time.Now())
		if err != nil {
			logger.Warnf("Cache lookup failed for %s: %v", key, err)
		}
		if ok {
			c.Header(cacheHeader, "HIT")
			c.Data(cached.Status, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder
		c.Header(cacheHeader, "MISS")

		c.Next()

		if recorder.Status() != http.StatusOK {
			return
		}
		err = store.PutResponse(ctx, database.CachedResponse{
			Key:         key,
			Status:      recorder.Status(),
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        recorder.body.Bytes(),
			ExpiresAt:   time.Now().Add(ttl),
		})
		if err != nil {
			logger.Warnf("Failed to cache response for %s: %v", key, err)
		}
	}
}

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
