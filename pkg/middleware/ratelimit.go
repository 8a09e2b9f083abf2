// pkg/middleware/ratelimit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"aamadmin/pkg/problems"
)

// Throttle limits requests per client IP over a fixed window. With a redis
// client the budget is shared across replicas (INCR + EXPIRE); without one
// it counts per process. Redis errors fail open so a cache outage cannot
// take the endpoint down with it.
func Throttle(limit int, window time.Duration, rdb *redis.Client, log *zap.SugaredLogger) func(http.Handler) http.Handler {
	var local *localWindow
	if rdb == nil {
		local = &localWindow{counts: map[string]*windowCount{}}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			var n int64
			if rdb != nil {
				key := "throttle:" + ip
				var err error
				n, err = rdb.Incr(r.Context(), key).Result()
				if err != nil {
					log.Warnw("throttle: redis incr failed, allowing", "err", err)
					next.ServeHTTP(w, r)
					return
				}
				if n == 1 {
					rdb.Expire(r.Context(), key, window)
				}
			} else {
				n = local.incr(ip, window)
			}
			if n > int64(limit) {
				problems.TooManyRequests(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type windowCount struct {
	n     int64
	reset time.Time
}

type localWindow struct {
	mu     sync.Mutex
	counts map[string]*windowCount
}

func (l *localWindow) incr(key string, window time.Duration) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	c, ok := l.counts[key]
	if !ok || now.After(c.reset) {
		c = &windowCount{reset: now.Add(window)}
		l.counts[key] = c
	}
	c.n++
	return c.n
}
