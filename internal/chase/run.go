package chase

import (
	"context"

	"github.com/yanun0323/errors"

	"main/internal/obs"
	"main/pkg/exception"
)

// QuoteStream produces quotes into a bounded channel. Close must tear the
// session down and wait for the producer to stop; the quotes channel closes
// when the session ends.
type QuoteStream interface {
	Start(ctx context.Context) error
	Quotes() <-chan Quote
	Close()
}

// Run wires stream -> dispatcher -> engine and blocks until the chase
// reaches a terminal outcome or fails. The stream is cancelled and joined
// before Run returns, so no quote is published after this call completes.
// A stream that ends before any terminal outcome surfaces as
// exception.ErrStreamEnded.
func Run(ctx context.Context, stream QuoteStream, dispatcher *Dispatcher, engine *Engine, metrics *obs.Metrics) (Outcome, error) {
	if stream == nil {
		return OutcomeNone, exception.ErrChaseNilStream
	}
	if engine == nil {
		return OutcomeNone, exception.ErrChaseNilEngine
	}
	if dispatcher == nil {
		dispatcher = NewDispatcher(0)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := stream.Start(ctx); err != nil {
		return OutcomeNone, errors.Wrap(err, "start quote stream")
	}
	defer stream.Close()

	for {
		select {
		case <-ctx.Done():
			return OutcomeNone, ctx.Err()
		case q, ok := <-stream.Quotes():
			if !ok {
				return OutcomeNone, exception.ErrStreamEnded
			}
			metrics.IncQuoteReceived()
			if !dispatcher.Admit(q.TsMs) {
				metrics.IncQuoteThrottled()
				continue
			}
			metrics.IncQuoteDispatched()
			out, err := engine.OnQuote(ctx, q)
			if err != nil {
				return OutcomeNone, err
			}
			if out.Terminal() {
				return out, nil
			}
		}
	}
}
