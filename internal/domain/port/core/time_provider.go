package core

import (
	"context"
	"time"
)

// TimeProvider abstracts the clock so record timestamps and timeouts can be controlled in tests
type TimeProvider interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	Sleep(d time.Duration)
	WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc)
}
