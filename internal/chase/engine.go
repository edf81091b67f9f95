package chase

import (
	"context"
	"errors"
	"math"

	"github.com/yanun0323/logs"

	"main/pkg/exception"
)

// Engine keeps one resting limit order aligned with the best price on its
// side of the book, re-pricing as the market moves and giving up when it
// runs too far away.
//
// The engine owns its order state exclusively. OnQuote must never be called
// concurrently; the run loop guarantees single-writer discipline.
type Engine struct {
	cfg   Config
	gw    OrderGateway
	sink  TradeSink
	state orderState
}

// orderState tracks the single resting order. An empty orderID means idle.
// All four fields are set together on placement and cleared together on
// fill, abort, or reset.
type orderState struct {
	orderID  string
	orderPx  float64
	startPx  float64
	placedTs int64
}

// NewEngine builds an engine. The sink may be nil.
func NewEngine(cfg Config, gw OrderGateway, sink TradeSink) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if gw == nil {
		return nil, exception.ErrChaseNilGateway
	}
	return &Engine{cfg: cfg, gw: gw, sink: sink}, nil
}

// Resting reports whether an order is currently tracked.
func (e *Engine) Resting() bool {
	return e != nil && e.state.orderID != ""
}

// Reset clears the tracked order state without touching the venue.
func (e *Engine) Reset() {
	if e == nil {
		return
	}
	e.state = orderState{}
}

// OnQuote runs one chase step: place when idle, otherwise poll the fill and
// decide between hold, refresh, and abort. Abort takes precedence over
// refresh. Returns OutcomeNone while the chase continues.
func (e *Engine) OnQuote(ctx context.Context, q Quote) (Outcome, error) {
	if e == nil {
		return OutcomeNone, exception.ErrChaseNilEngine
	}

	now := q.TsMs
	targetPx := q.BidPx
	if e.cfg.Side == SideSell {
		targetPx = q.AskPx
	}
	targetPx = RoundToTick(targetPx, e.cfg.TickSize)

	if e.state.orderID == "" {
		return e.place(ctx, targetPx, now)
	}

	filled, err := e.gw.PollFill(ctx, e.state.orderID)
	if err != nil {
		// Unknown status counts as not filled; the venue remains the
		// source of truth on the next poll.
		logs.Errorf("poll fill %s, err: %+v", e.state.orderID, err)
		filled = false
	}
	if filled {
		logs.Infof("[filled] order_id=%s at ~%.2f", e.state.orderID, e.state.orderPx)
		e.notifyFill(ctx, now)
		e.state = orderState{}
		return OutcomeFilled, nil
	}

	driftTicks := math.Abs(targetPx-e.state.orderPx) / e.cfg.TickSize
	ageMs := now - e.state.placedTs
	totalChaseTicks := math.Abs(targetPx-e.state.startPx) / e.cfg.TickSize

	if totalChaseTicks > e.cfg.MaxChaseTicks {
		logs.Infof("[abort] price moved %.1f ticks from start, giving up", totalChaseTicks)
		e.cancel(ctx)
		e.state = orderState{}
		return OutcomeAborted, nil
	}

	if driftTicks >= e.cfg.ToleranceTicks || ageMs >= e.cfg.MaxAgeMs {
		if driftTicks >= e.cfg.ToleranceTicks {
			logs.Infof("[refresh] price drifted %.1f ticks, chasing to %.2f", driftTicks, targetPx)
		} else {
			logs.Infof("[refresh] order stale (%dms), refreshing", ageMs)
		}
		return e.refresh(ctx, targetPx, now)
	}

	return OutcomeNone, nil
}

// place submits the first order of a chase. The state is written only after
// the venue hands back an id, so a failed placement leaves the engine idle.
func (e *Engine) place(ctx context.Context, targetPx float64, now int64) (Outcome, error) {
	orderID, err := e.gw.PlaceLimit(ctx, e.cfg.Side, targetPx, e.cfg.OrderSize)
	if err != nil {
		if errors.Is(err, exception.ErrAccountNotInitialized) {
			return OutcomeNone, err
		}
		logs.Errorf("place limit, err: %+v", err)
		return OutcomeNone, nil
	}
	if orderID == "" {
		return OutcomeNone, nil
	}
	e.state = orderState{
		orderID:  orderID,
		orderPx:  targetPx,
		startPx:  targetPx,
		placedTs: now,
	}
	logs.Infof("[placed] %s %v@%.2f -> order_id=%s", e.cfg.Side, e.cfg.OrderSize, targetPx, orderID)
	return OutcomeNone, nil
}

// refresh cancels the resting order and re-prices it at the target. The
// start price stays anchored to the original entry so the abort distance
// bounds total adverse movement, not movement since the last re-price.
func (e *Engine) refresh(ctx context.Context, targetPx float64, now int64) (Outcome, error) {
	e.cancel(ctx)
	startPx := e.state.startPx
	e.state = orderState{}

	orderID, err := e.gw.PlaceLimit(ctx, e.cfg.Side, targetPx, e.cfg.OrderSize)
	if err != nil {
		if errors.Is(err, exception.ErrAccountNotInitialized) {
			return OutcomeNone, err
		}
		logs.Errorf("re-place limit, err: %+v", err)
		return OutcomeNone, nil
	}
	if orderID == "" {
		return OutcomeNone, nil
	}
	e.state = orderState{
		orderID:  orderID,
		orderPx:  targetPx,
		startPx:  startPx,
		placedTs: now,
	}
	return OutcomeNone, nil
}

// cancel is best effort. The reset proceeds regardless of the result.
func (e *Engine) cancel(ctx context.Context) {
	if err := e.gw.Cancel(ctx, e.state.orderID); err != nil {
		logs.Errorf("cancel %s, err: %+v", e.state.orderID, err)
	}
}

func (e *Engine) notifyFill(ctx context.Context, now int64) {
	if e.sink == nil {
		return
	}
	e.sink.Filled(ctx, FillRecord{
		OrderID: e.state.orderID,
		Side:    e.cfg.Side,
		Price:   e.state.orderPx,
		Size:    e.cfg.OrderSize,
		TsMs:    now,
	})
}
