// Package redis implementa el rate limiter fixed-window sobre Redis
// (INCR + PEXPIRE), compartido entre réplicas.
package redis

import (
	"context"
	"time"

	"github.com/gomodule/redigo/redis"

	"cardulary/internal/ports/ratelimit"
)

type Limiter struct {
	pool *redis.Pool
}

// NewPool arma el pool contra una URL redis:// y lo prueba con PING.
func NewPool(url string) (*redis.Pool, error) {
	pool := &redis.Pool{
		MaxIdle:     5,
		IdleTimeout: 4 * time.Minute,
		Dial: func() (redis.Conn, error) {
			return redis.DialURL(url)
		},
	}

	conn := pool.Get()
	defer conn.Close()
	if _, err := conn.Do("PING"); err != nil {
		_ = pool.Close()
		return nil, err
	}

	return pool, nil
}

func New(pool *redis.Pool) *Limiter {
	return &Limiter{pool: pool}
}

func (l *Limiter) Check(ctx context.Context, key string, q ratelimit.Quota) (ratelimit.Result, error) {
	conn, err := l.pool.GetContext(ctx)
	if err != nil {
		return ratelimit.Result{}, err
	}
	defer conn.Close()

	key = "ratelimit:" + key

	count, err := redis.Int(conn.Do("INCR", key))
	if err != nil {
		return ratelimit.Result{}, err
	}

	if count == 1 {
		// primer hit de la ventana: arranca el TTL
		if _, err := conn.Do("PEXPIRE", key, q.Window.Milliseconds()); err != nil {
			return ratelimit.Result{}, err
		}
	}

	ttl, err := redis.Int64(conn.Do("PTTL", key))
	if err != nil {
		return ratelimit.Result{}, err
	}
	if ttl < 0 {
		// sin TTL (caso raro: PEXPIRE se perdió); lo reponemos
		ttl = q.Window.Milliseconds()
		_, _ = conn.Do("PEXPIRE", key, ttl)
	}
	resetAt := time.Now().Add(time.Duration(ttl) * time.Millisecond)

	if count > q.MaxRequests {
		return ratelimit.Result{
			Allowed:   false,
			Limit:     q.MaxRequests,
			Remaining: 0,
			ResetAt:   resetAt,
		}, nil
	}

	return ratelimit.Result{
		Allowed:   true,
		Limit:     q.MaxRequests,
		Remaining: q.MaxRequests - count,
		ResetAt:   resetAt,
	}, nil
}
