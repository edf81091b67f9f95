package chase

// Dispatcher bounds the rate at which the engine sees quotes, independent of
// the market-data message rate. Quotes arriving inside the refresh window are
// discarded, so the engine reacts to the first qualifying quote per window
// rather than the most recent one.
type Dispatcher struct {
	refreshIntervalMs int64
	lastDispatchMs    int64
	primed            bool
}

// NewDispatcher builds a dispatcher with the given minimum inter-dispatch
// interval in milliseconds.
func NewDispatcher(refreshIntervalMs int64) *Dispatcher {
	return &Dispatcher{refreshIntervalMs: refreshIntervalMs}
}

// Admit reports whether a quote with timestamp tsMs should be dispatched,
// advancing the window when it is. The first quote always passes.
func (d *Dispatcher) Admit(tsMs int64) bool {
	if d == nil {
		return false
	}
	if d.primed && tsMs-d.lastDispatchMs < d.refreshIntervalMs {
		return false
	}
	d.primed = true
	d.lastDispatchMs = tsMs
	return true
}
