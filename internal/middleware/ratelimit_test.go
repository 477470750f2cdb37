package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func limitedRouter(wl *WriteLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(wl.Middleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusCreated) })
	return r
}

func do(r http.Handler, method, ip string) int {
	req := httptest.NewRequest(method, "/x", nil)
	req.RemoteAddr = ip + ":1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestWriteLimiter_LimitsWritesPerClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	wl := NewWriteLimiter(ctx, 2, time.Minute)
	wl.now = func() time.Time { return clock }
	r := limitedRouter(wl)

	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "10.0.0.1"))
	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "10.0.0.1"))

	// reads and other clients are unaffected
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "10.0.0.1"))
	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "10.0.0.2"))

	clock = clock.Add(time.Minute)
	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "10.0.0.1"))
}

func TestWriteLimiter_SweepDropsIdleClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	wl := NewWriteLimiter(ctx, 1, time.Minute)
	wl.now = func() time.Time { return clock }

	assert.True(t, wl.allow("a"))
	clock = clock.Add(idleAfter + time.Second)
	assert.True(t, wl.allow("b"))
	wl.sweep()

	assert.NotContains(t, wl.clients, "a")
	assert.Contains(t, wl.clients, "b")
}
