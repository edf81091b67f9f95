package gateway

import (
	"context"
	"sync/atomic"

	"main/internal/chase"
	"main/pkg/exception"
)

// Counting wraps any gateway and counts place/cancel invocations without
// altering behavior, for offline measurement of chase efficiency
// (placements per chase, cancels per chase).
type Counting struct {
	inner   chase.OrderGateway
	places  atomic.Uint64
	cancels atomic.Uint64
}

// CountingStats is a point-in-time view of the call counters.
type CountingStats struct {
	Places  uint64
	Cancels uint64
}

// NewCounting decorates an inner gateway.
func NewCounting(inner chase.OrderGateway) (*Counting, error) {
	if inner == nil {
		return nil, exception.ErrChaseNilGateway
	}
	return &Counting{inner: inner}, nil
}

func (g *Counting) PlaceLimit(ctx context.Context, side chase.Side, price, size float64) (string, error) {
	g.places.Add(1)
	return g.inner.PlaceLimit(ctx, side, price, size)
}

func (g *Counting) Cancel(ctx context.Context, orderID string) error {
	g.cancels.Add(1)
	return g.inner.Cancel(ctx, orderID)
}

func (g *Counting) PollFill(ctx context.Context, orderID string) (bool, error) {
	return g.inner.PollFill(ctx, orderID)
}

// Stats returns the current call counts.
func (g *Counting) Stats() CountingStats {
	return CountingStats{
		Places:  g.places.Load(),
		Cancels: g.cancels.Load(),
	}
}
