package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiterAllow(t *testing.T) {
	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(3, time.Minute)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if ok, _ := limiter.Allow("1.2.3.4"); !ok {
			t.Fatalf("Allow() call %d = false; want true", i+1)
		}
		now = now.Add(10 * time.Second)
	}

	ok, retryAfter := limiter.Allow("1.2.3.4")
	if ok {
		t.Fatal("Allow() over limit = true; want false")
	}
	if retryAfter != 30*time.Second {
		t.Errorf("retryAfter = %v; want 30s", retryAfter)
	}

	if ok, _ := limiter.Allow("5.6.7.8"); !ok {
		t.Error("Allow() for another client = false; want true")
	}

	// first request leaves the window
	now = now.Add(31 * time.Second)
	if ok, _ := limiter.Allow("1.2.3.4"); !ok {
		t.Error("Allow() after window slid = false; want true")
	}
}

func TestRateLimiterSweep(t *testing.T) {
	now := time.Now()
	limiter := NewRateLimiter(1, time.Second)
	limiter.now = func() time.Time { return now }

	limiter.Allow("stale")
	now = now.Add(2 * time.Second)
	for i := 0; i < 1000; i++ {
		limiter.Allow("active")
	}

	if _, ok := limiter.requests["stale"]; ok {
		t.Error("stale key survived sweep")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(NewRateLimiter(2, time.Minute)))
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		last = httptest.NewRecorder()
		router.ServeHTTP(last, req)
		codes = append(codes, last.Code)
	}

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("request %d status = %d; want %d", i+1, codes[i], want[i])
		}
	}
	if last.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing on 429")
	}
	if body := last.Body.String(); body != `{"message":"ThrottlerException: Too Many Requests","statusCode":429}` {
		t.Errorf("429 body = %s", body)
	}
}
