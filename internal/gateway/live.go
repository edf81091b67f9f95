package gateway

import (
	"context"
	"strconv"
	"time"

	"github.com/yanun0323/errors"

	"main/internal/chase"
	"main/internal/executor"
	"main/internal/obs"
	"main/pkg/exception"
)

// Live adapts the venue execution client to the engine's gateway contract.
type Live struct {
	client   *executor.Client
	postOnly bool
	metrics  *obs.Metrics
}

// NewLive builds a live gateway. metrics may be nil.
func NewLive(client *executor.Client, postOnly bool, metrics *obs.Metrics) (*Live, error) {
	if client == nil {
		return nil, exception.ErrNilInstance
	}
	return &Live{client: client, postOnly: postOnly, metrics: metrics}, nil
}

// PlaceLimit submits a limit order. A venue-side per-order rejection comes
// back as an empty id, which the engine retries on the next quote.
func (g *Live) PlaceLimit(ctx context.Context, side chase.Side, price, size float64) (string, error) {
	isBuy, err := isBuySide(side)
	if err != nil {
		return "", err
	}

	start := time.Now()
	oid, err := g.client.PlaceLimit(ctx, isBuy, price, size, g.postOnly)
	g.metrics.ObservePlace(time.Since(start))
	if err != nil {
		return "", err
	}
	if oid == 0 {
		return "", nil
	}
	return strconv.FormatInt(oid, 10), nil
}

// Cancel removes a resting order by id.
func (g *Live) Cancel(ctx context.Context, orderID string) error {
	oid, err := strconv.ParseInt(orderID, 10, 64)
	if err != nil {
		return errors.Wrap(exception.ErrOrderEmptyID, orderID)
	}

	start := time.Now()
	err = g.client.CancelOrder(ctx, oid)
	g.metrics.ObserveCancel(time.Since(start))
	return err
}

// PollFill reports whether the venue knows the order as filled. Any unknown
// or ambiguous status counts as not filled.
func (g *Live) PollFill(ctx context.Context, orderID string) (bool, error) {
	oid, err := strconv.ParseInt(orderID, 10, 64)
	if err != nil {
		return false, errors.Wrap(exception.ErrOrderEmptyID, orderID)
	}

	start := time.Now()
	status, err := g.client.OrderStatus(ctx, oid)
	g.metrics.ObservePoll(time.Since(start))
	if err != nil {
		return false, err
	}
	return status == "filled", nil
}

func isBuySide(side chase.Side) (bool, error) {
	switch side {
	case chase.SideBuy:
		return true, nil
	case chase.SideSell:
		return false, nil
	default:
		return false, exception.ErrOrderUnknownSide
	}
}
