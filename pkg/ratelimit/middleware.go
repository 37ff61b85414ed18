package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"kassa/pkg/errors"
	"kassa/pkg/metrics"
)

type Config struct {
	RPS             float64
	Burst           int
	CleanupInterval time.Duration
	MaxAge          time.Duration
}

// DefaultConfig is tuned for webhook deliveries: providers send from a small
// set of IPs and retry rejected deliveries, so the burst is generous.
func DefaultConfig() Config {
	return Config{
		RPS:             10.0,
		Burst:           30,
		CleanupInterval: 5 * time.Minute,
		MaxAge:          10 * time.Minute,
	}
}

type clientLimiter struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// store tracks one token bucket per client IP and evicts idle entries.
type store struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	cfg     Config
}

func newStore(cfg Config) *store {
	s := &store{
		clients: make(map[string]*clientLimiter),
		cfg:     cfg,
	}
	go s.evictLoop()
	return s
}

func (s *store) allow(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, ok := s.clients[ip]
	if !ok {
		client = &clientLimiter{
			bucket: rate.NewLimiter(rate.Limit(s.cfg.RPS), s.cfg.Burst),
		}
		s.clients[ip] = client
	}
	client.lastSeen = time.Now()
	return client.bucket.Allow()
}

func (s *store) evictLoop() {
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-s.cfg.MaxAge)
		s.mu.Lock()
		for ip, client := range s.clients {
			if client.lastSeen.Before(cutoff) {
				delete(s.clients, ip)
			}
		}
		s.mu.Unlock()
	}
}

// Middleware enforces a per-client-IP token bucket. Rejected deliveries get
// 429 with Retry-After so the sender redelivers instead of dropping.
func Middleware(cfg Config) gin.HandlerFunc {
	if cfg.RPS <= 0 {
		cfg = DefaultConfig()
	}
	limiters := newStore(cfg)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = c.RemoteIP()
		}

		if !limiters.allow(ip) {
			metrics.RateLimitRequestsTotal.WithLabelValues("limited").Inc()
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				errors.ToErrorResponse(errors.ErrRateLimited))
			return
		}

		metrics.RateLimitRequestsTotal.WithLabelValues("allowed").Inc()
		c.Next()
	}
}
