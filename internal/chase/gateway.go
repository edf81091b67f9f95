package chase

import "context"

// OrderGateway abstracts the venue order operations the engine needs. Each
// call is an independent remote operation that may block or fail.
type OrderGateway interface {
	// PlaceLimit submits a limit order and returns the venue order id.
	// An empty id with a nil error means the placement failed and may be
	// retried on the next quote.
	PlaceLimit(ctx context.Context, side Side, price, size float64) (string, error)

	// Cancel removes a resting order. Best effort, not retried.
	Cancel(ctx context.Context, orderID string) error

	// PollFill reports whether the order is known to be filled. Ambiguous
	// responses are reported as not filled.
	PollFill(ctx context.Context, orderID string) (bool, error)
}

// FillRecord describes a completed fill for best-effort persistence.
type FillRecord struct {
	OrderID string
	Side    Side
	Price   float64
	Size    float64
	TsMs    int64
}

// TradeSink receives fill notifications. Implementations must not let their
// own failures surface back into the chase path.
type TradeSink interface {
	Filled(ctx context.Context, f FillRecord)
}
