package gateway

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type ConnectLimiterConfig struct {
	PerMinute int
	Burst     int
	IdleTTL   time.Duration
}

func DefaultConnectLimiterConfig() ConnectLimiterConfig {
	return ConnectLimiterConfig{
		PerMinute: 5,
		Burst:     5,
		IdleTTL:   10 * time.Minute,
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// connectLimiter rate-limits websocket upgrades per client IP. Entries for
// IPs that stopped connecting are evicted so the map stays bounded.
type connectLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     rate.Limit
	burst    int
	idleTTL  time.Duration
}

func newConnectLimiter(cfg ConnectLimiterConfig) *connectLimiter {
	if cfg.PerMinute <= 0 {
		cfg.PerMinute = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.PerMinute
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}

	l := &connectLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(float64(cfg.PerMinute) / 60.0),
		burst:    cfg.Burst,
		idleTTL:  cfg.IdleTTL,
	}
	go l.cleanupLoop()
	return l
}

func (l *connectLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

func (l *connectLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.idleTTL / 2)
	defer ticker.Stop()

	for range ticker.C {
		l.evictIdle(time.Now())
	}
}

func (l *connectLimiter) evictIdle(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idleTTL {
			delete(l.visitors, ip)
		}
	}
}
