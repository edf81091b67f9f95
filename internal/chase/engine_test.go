package chase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/pkg/exception"
)

type gatewayCall struct {
	op      string
	orderID string
	price   float64
}

// stubGateway scripts venue behavior and records every call in order.
type stubGateway struct {
	nextID      int
	placeErr    error
	rejectPlace bool
	cancelErr   error
	pollErr     error
	filled      bool
	calls       []gatewayCall
}

func (g *stubGateway) PlaceLimit(_ context.Context, _ Side, price, _ float64) (string, error) {
	g.calls = append(g.calls, gatewayCall{op: "place", price: price})
	if g.placeErr != nil {
		return "", g.placeErr
	}
	if g.rejectPlace {
		return "", nil
	}
	g.nextID++
	return fmt.Sprintf("%d", g.nextID), nil
}

func (g *stubGateway) Cancel(_ context.Context, orderID string) error {
	g.calls = append(g.calls, gatewayCall{op: "cancel", orderID: orderID})
	return g.cancelErr
}

func (g *stubGateway) PollFill(_ context.Context, orderID string) (bool, error) {
	g.calls = append(g.calls, gatewayCall{op: "poll", orderID: orderID})
	if g.pollErr != nil {
		return false, g.pollErr
	}
	return g.filled, nil
}

type recordingSink struct {
	fills []FillRecord
}

func (s *recordingSink) Filled(_ context.Context, f FillRecord) {
	s.fills = append(s.fills, f)
}

func buyConfig() Config {
	return Config{
		TickSize:       0.5,
		Side:           SideBuy,
		OrderSize:      1,
		ToleranceTicks: 1,
		MaxAgeMs:       5000,
		MaxChaseTicks:  10,
	}
}

func quoteAt(ts int64, bid, ask float64) Quote {
	return Quote{TsMs: ts, BidPx: bid, BidSz: 1, AskPx: ask, AskSz: 1}
}

func TestEngineChaseScenario(t *testing.T) {
	gw := &stubGateway{}
	e, err := NewEngine(buyConfig(), gw, nil)
	require.NoError(t, err)

	// Best bid 100.3 floors to 100.0; engine is idle so it places there.
	out, err := e.OnQuote(t.Context(), quoteAt(1000, 100.3, 100.8))
	require.NoError(t, err)
	assert.Equal(t, OutcomeNone, out)
	require.True(t, e.Resting())
	require.Len(t, gw.calls, 1)
	assert.Equal(t, gatewayCall{op: "place", price: 100.0}, gw.calls[0])

	// Bid moves to 100.7 -> target 100.5, one tick of drift, refresh.
	out, err = e.OnQuote(t.Context(), quoteAt(1200, 100.7, 101.2))
	require.NoError(t, err)
	assert.Equal(t, OutcomeNone, out)
	require.True(t, e.Resting())
	require.Len(t, gw.calls, 4)
	assert.Equal(t, gatewayCall{op: "poll", orderID: "1"}, gw.calls[1])
	assert.Equal(t, gatewayCall{op: "cancel", orderID: "1"}, gw.calls[2])
	assert.Equal(t, gatewayCall{op: "place", price: 100.5}, gw.calls[3])

	// Bid jumps to 106.0: 12 ticks from the 100.0 start, beyond 10, abort.
	out, err = e.OnQuote(t.Context(), quoteAt(1400, 106.0, 106.5))
	require.NoError(t, err)
	assert.Equal(t, OutcomeAborted, out)
	assert.False(t, e.Resting())
	require.Len(t, gw.calls, 6)
	assert.Equal(t, gatewayCall{op: "poll", orderID: "2"}, gw.calls[4])
	assert.Equal(t, gatewayCall{op: "cancel", orderID: "2"}, gw.calls[5])
}

func TestEngineAbortTakesPrecedenceOverRefresh(t *testing.T) {
	cfg := buyConfig()
	cfg.ToleranceTicks = 0 // every drift would qualify for a refresh
	cfg.MaxChaseTicks = 2

	gw := &stubGateway{}
	e, err := NewEngine(cfg, gw, nil)
	require.NoError(t, err)

	_, err = e.OnQuote(t.Context(), quoteAt(0, 100.0, 100.5))
	require.NoError(t, err)

	out, err := e.OnQuote(t.Context(), quoteAt(100, 102.0, 102.5))
	require.NoError(t, err)
	assert.Equal(t, OutcomeAborted, out)

	// No re-place after the abort cancel.
	require.NotEmpty(t, gw.calls)
	assert.Equal(t, "cancel", gw.calls[len(gw.calls)-1].op)
	assert.False(t, e.Resting())
}

func TestEngineFillResetsAndReuses(t *testing.T) {
	gw := &stubGateway{}
	sink := &recordingSink{}
	e, err := NewEngine(buyConfig(), gw, sink)
	require.NoError(t, err)

	_, err = e.OnQuote(t.Context(), quoteAt(1000, 100.3, 100.8))
	require.NoError(t, err)

	gw.filled = true
	out, err := e.OnQuote(t.Context(), quoteAt(1100, 100.3, 100.8))
	require.NoError(t, err)
	assert.Equal(t, OutcomeFilled, out)
	assert.False(t, e.Resting())

	require.Len(t, sink.fills, 1)
	assert.Equal(t, "1", sink.fills[0].OrderID)
	assert.Equal(t, 100.0, sink.fills[0].Price)
	assert.Equal(t, SideBuy, sink.fills[0].Side)

	// The engine is reusable: the next quote starts a fresh chase.
	gw.filled = false
	out, err = e.OnQuote(t.Context(), quoteAt(2000, 101.3, 101.8))
	require.NoError(t, err)
	assert.Equal(t, OutcomeNone, out)
	assert.True(t, e.Resting())
	assert.Equal(t, gatewayCall{op: "place", price: 101.0}, gw.calls[len(gw.calls)-1])
}

func TestEngineStaleOrderRefreshes(t *testing.T) {
	cfg := buyConfig()
	cfg.ToleranceTicks = 5
	cfg.MaxAgeMs = 1000

	gw := &stubGateway{}
	e, err := NewEngine(cfg, gw, nil)
	require.NoError(t, err)

	_, err = e.OnQuote(t.Context(), quoteAt(0, 100.0, 100.5))
	require.NoError(t, err)

	// Same price, inside max age: hold.
	out, err := e.OnQuote(t.Context(), quoteAt(500, 100.0, 100.5))
	require.NoError(t, err)
	assert.Equal(t, OutcomeNone, out)
	require.Len(t, gw.calls, 2)

	// Same price but past max age: cancel and re-place.
	out, err = e.OnQuote(t.Context(), quoteAt(1500, 100.0, 100.5))
	require.NoError(t, err)
	assert.Equal(t, OutcomeNone, out)
	require.Len(t, gw.calls, 5)
	assert.Equal(t, "cancel", gw.calls[3].op)
	assert.Equal(t, gatewayCall{op: "place", price: 100.0}, gw.calls[4])
}

func TestEngineSellSideFloorsAsk(t *testing.T) {
	cfg := buyConfig()
	cfg.Side = SideSell

	gw := &stubGateway{}
	e, err := NewEngine(cfg, gw, nil)
	require.NoError(t, err)

	_, err = e.OnQuote(t.Context(), quoteAt(0, 100.2, 100.7))
	require.NoError(t, err)
	require.Len(t, gw.calls, 1)
	assert.Equal(t, 100.5, gw.calls[0].price)
}

func TestEnginePlacementFailureStaysIdle(t *testing.T) {
	gw := &stubGateway{placeErr: errors.New("venue down")}
	e, err := NewEngine(buyConfig(), gw, nil)
	require.NoError(t, err)

	out, err := e.OnQuote(t.Context(), quoteAt(0, 100.0, 100.5))
	require.NoError(t, err)
	assert.Equal(t, OutcomeNone, out)
	assert.False(t, e.Resting())

	// Recovery: the next quote retries the placement.
	gw.placeErr = nil
	out, err = e.OnQuote(t.Context(), quoteAt(500, 100.0, 100.5))
	require.NoError(t, err)
	assert.Equal(t, OutcomeNone, out)
	assert.True(t, e.Resting())
}

func TestEngineRejectedPlacementStaysIdle(t *testing.T) {
	gw := &stubGateway{rejectPlace: true}
	e, err := NewEngine(buyConfig(), gw, nil)
	require.NoError(t, err)

	out, err := e.OnQuote(t.Context(), quoteAt(0, 100.0, 100.5))
	require.NoError(t, err)
	assert.Equal(t, OutcomeNone, out)
	assert.False(t, e.Resting())
}

func TestEngineAccountErrorPropagates(t *testing.T) {
	gw := &stubGateway{placeErr: exception.ErrAccountNotInitialized}
	e, err := NewEngine(buyConfig(), gw, nil)
	require.NoError(t, err)

	_, err = e.OnQuote(t.Context(), quoteAt(0, 100.0, 100.5))
	require.Error(t, err)
	assert.ErrorIs(t, err, exception.ErrAccountNotInitialized)
	assert.False(t, e.Resting())
}

func TestEngineCancelFailureStillResets(t *testing.T) {
	cfg := buyConfig()
	cfg.MaxChaseTicks = 1

	gw := &stubGateway{cancelErr: errors.New("already gone")}
	e, err := NewEngine(cfg, gw, nil)
	require.NoError(t, err)

	_, err = e.OnQuote(t.Context(), quoteAt(0, 100.0, 100.5))
	require.NoError(t, err)

	out, err := e.OnQuote(t.Context(), quoteAt(100, 105.0, 105.5))
	require.NoError(t, err)
	assert.Equal(t, OutcomeAborted, out)
	assert.False(t, e.Resting())
}

func TestEnginePollErrorCountsAsNotFilled(t *testing.T) {
	gw := &stubGateway{}
	e, err := NewEngine(buyConfig(), gw, nil)
	require.NoError(t, err)

	_, err = e.OnQuote(t.Context(), quoteAt(0, 100.0, 100.5))
	require.NoError(t, err)

	gw.pollErr = errors.New("status lookup failed")
	out, err := e.OnQuote(t.Context(), quoteAt(100, 100.0, 100.5))
	require.NoError(t, err)
	assert.Equal(t, OutcomeNone, out)
	assert.True(t, e.Resting())
}

func TestEngineRefreshFailureResetsFully(t *testing.T) {
	gw := &stubGateway{}
	e, err := NewEngine(buyConfig(), gw, nil)
	require.NoError(t, err)

	_, err = e.OnQuote(t.Context(), quoteAt(0, 100.0, 100.5))
	require.NoError(t, err)

	// Cancel succeeds but the re-place fails: the chase resets and the
	// next placement anchors a fresh start price.
	gw.placeErr = errors.New("venue down")
	out, err := e.OnQuote(t.Context(), quoteAt(100, 101.0, 101.5))
	require.NoError(t, err)
	assert.Equal(t, OutcomeNone, out)
	assert.False(t, e.Resting())

	gw.placeErr = nil
	_, err = e.OnQuote(t.Context(), quoteAt(200, 101.0, 101.5))
	require.NoError(t, err)
	require.True(t, e.Resting())
	assert.Equal(t, 101.0, e.state.startPx)
}

func TestNewEngineValidation(t *testing.T) {
	gw := &stubGateway{}

	_, err := NewEngine(buyConfig(), nil, nil)
	assert.ErrorIs(t, err, exception.ErrChaseNilGateway)

	bad := buyConfig()
	bad.TickSize = 0
	_, err = NewEngine(bad, gw, nil)
	assert.ErrorIs(t, err, exception.ErrChaseInvalidTickSize)
}
