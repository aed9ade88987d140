package rate

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

// RedisLimiter cuenta hits por ventana fija con INCR + EXPIRE. Cada
// combinación limit/window usa su propio espacio de keys, así una misma IP
// puede tener políticas distintas por endpoint.
type RedisLimiter struct {
	client *rdb.Client
	prefix string
	now    func() time.Time
}

// NewRedisLimiter crea el limiter. prefix vacío = "rl:".
func NewRedisLimiter(client *rdb.Client, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	return &RedisLimiter{client: client, prefix: prefix, now: time.Now}
}

func (l *RedisLimiter) windowKey(key string, limit int, window time.Duration, start time.Time) string {
	var b strings.Builder
	b.WriteString(l.prefix)
	b.WriteString(strconv.Itoa(limit))
	b.WriteByte('/')
	b.WriteString(window.String())
	b.WriteByte(':')
	b.WriteString(strings.ReplaceAll(key, " ", "_"))
	b.WriteByte(':')
	b.WriteString(strconv.FormatInt(start.Unix(), 10))
	return b.String()
}

// AllowWithLimits implementa MultiLimiter.
func (l *RedisLimiter) AllowWithLimits(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	if limit <= 0 || window <= 0 {
		return Result{}, errors.New("rate: limit and window must be positive")
	}
	k := l.windowKey(key, limit, window, l.now().UTC().Truncate(window))

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	// sólo el primer hit de la ventana fija la expiración
	pipe.ExpireNX(ctx, k, window)
	ttl := pipe.TTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err
	}

	hits := incr.Val()
	res := Result{
		Allowed:     hits <= int64(limit),
		Remaining:   max(int64(limit)-hits, 0),
		CurrentHits: hits,
		WindowTTL:   ttl.Val(),
	}
	if !res.Allowed {
		res.RetryAfter = ttl.Val()
		if res.RetryAfter <= 0 {
			res.RetryAfter = window
		}
	}
	return res, nil
}
