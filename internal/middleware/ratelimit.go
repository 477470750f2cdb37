package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/lexis/internal/response"
)

// idleAfter is how long a client may stay silent before its bucket is dropped.
const idleAfter = 3 * time.Minute

// WriteLimiter is a per-IP token bucket applied to mutating requests.
// Reads always pass through.
type WriteLimiter struct {
	mu      sync.Mutex
	clients map[string]*bucket
	rate    int
	every   time.Duration
	now     func() time.Time
}

type bucket struct {
	tokens   int
	lastFill time.Time
	lastSeen time.Time
}

// NewWriteLimiter allows rate writes per client every interval. Idle clients
// are swept once a minute until ctx is done.
func NewWriteLimiter(ctx context.Context, rate int, every time.Duration) *WriteLimiter {
	wl := &WriteLimiter{
		clients: make(map[string]*bucket),
		rate:    rate,
		every:   every,
		now:     time.Now,
	}

	go func() {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				wl.sweep()
			}
		}
	}()

	return wl
}

// Middleware rejects a client's writes with 429 once its bucket is empty.
func (wl *WriteLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isWrite(c.Request.Method) {
			c.Next()
			return
		}
		if !wl.allow(c.ClientIP()) {
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimited)
			return
		}
		c.Next()
	}
}

func (wl *WriteLimiter) allow(ip string) bool {
	wl.mu.Lock()
	defer wl.mu.Unlock()

	now := wl.now()
	b, ok := wl.clients[ip]
	if !ok {
		b = &bucket{tokens: wl.rate, lastFill: now}
		wl.clients[ip] = b
	}
	b.lastSeen = now

	if periods := int(now.Sub(b.lastFill) / wl.every); periods > 0 {
		b.tokens = min(wl.rate, b.tokens+periods*wl.rate)
		b.lastFill = b.lastFill.Add(time.Duration(periods) * wl.every)
	}
	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

func (wl *WriteLimiter) sweep() {
	wl.mu.Lock()
	defer wl.mu.Unlock()
	now := wl.now()
	for ip, b := range wl.clients {
		if now.Sub(b.lastSeen) > idleAfter {
			delete(wl.clients, ip)
		}
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
