package ratelimit

import (
	"context"
	"time"
)

// Quota define una ventana de rate limiting.
type Quota struct {
	MaxRequests int
	Window      time.Duration
}

type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter es una capability inyectada: el estado vive en el adapter
// (memoria para single-instance, redis para multi-instance), nunca
// en globals del proceso.
type Limiter interface {
	Check(ctx context.Context, key string, q Quota) (Result, error)
}
