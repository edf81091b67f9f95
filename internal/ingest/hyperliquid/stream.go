package hyperliquid

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"
	"github.com/yanun0323/pkg/ws"

	"main/internal/chase"
	"main/pkg/exception"
)

const (
	_defaultPingInterval = 20 * time.Second
	_defaultQueueSize    = 1000
)

// Config describes one book stream session.
type Config struct {
	URL          string
	Coin         string
	PingInterval time.Duration
	QueueSize    int
}

// BookStream holds one persistent connection to the venue market-data
// endpoint, subscribed to the top-of-book of a single coin. Quotes are
// published into a bounded channel; when the channel is full the publish
// blocks, pushing backpressure into the read loop instead of growing memory.
//
// The ws client redials on connection loss and replays the registered
// subscription, so the stream survives venue disconnects. The quotes channel
// closes only when the session itself ends.
type BookStream struct {
	cfg     Config
	wss     *ws.WebSocket
	quotes  chan chase.Quote
	started atomic.Bool
	done    chan struct{}
}

// New builds a stream for the given coin. Defaults: 20s ping, queue 1000.
func New(ctx context.Context, cfg Config) (*BookStream, error) {
	if cfg.Coin == "" {
		return nil, exception.ErrEmptyStreamSymbol
	}
	if cfg.URL == "" {
		cfg.URL = Endpoint(false)
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = _defaultPingInterval
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = _defaultQueueSize
	}
	return &BookStream{
		cfg:    cfg,
		wss:    ws.New(ctx, cfg.URL),
		quotes: make(chan chase.Quote, cfg.QueueSize),
		done:   make(chan struct{}),
	}, nil
}

// Quotes returns the bounded quote channel. It closes when the session ends.
func (s *BookStream) Quotes() <-chan chase.Quote {
	return s.quotes
}

// Start connects, performs the l2Book subscribe handshake, and launches the
// keepalive and read tasks.
func (s *BookStream) Start(ctx context.Context) error {
	if s == nil {
		return exception.ErrNilInstance
	}
	if s.started.Swap(true) {
		return exception.ErrStreamAlreadyRun
	}

	if err := s.wss.Start(ctx); err != nil {
		s.started.Store(false)
		return errors.Wrap(err, "start wss")
	}

	if err := s.subscribeBook(ctx); err != nil {
		s.wss.Close()
		s.started.Store(false)
		return errors.Wrap(err, "subscribe l2 book")
	}
	logs.Infof("subscribed to l2 book for %s", s.cfg.Coin)

	go s.keepalive(ctx)
	go s.observe(ctx)

	return nil
}

// Close tears the session down and waits for the read task to stop. After
// Close returns no further quote is published. Close after a failed Start
// is a no-op.
func (s *BookStream) Close() {
	if s == nil || !s.started.Load() {
		return
	}
	s.wss.Close()
	<-s.done
}

func (s *BookStream) subscribeBook(ctx context.Context) error {
	// Registered so the ws client replays the subscription after a redial;
	// without it a reconnected socket stays unsubscribed and goes silent.
	appendIntoRegister := true
	if err := s.wss.SendAndWait(ctx, ws.Sidecar{
		Sender: func(ctx context.Context, client *ws.WebSocket) error {
			payload := SubscribeRequest{
				Method: "subscribe",
				Subscription: Subscription{
					Type: _channelBook,
					Coin: s.cfg.Coin,
				},
			}
			if err := client.WriteJSON(payload); err != nil {
				return errors.Wrap(err, "write subscribe payload")
			}
			return nil
		},
		Waiter: func(ctx context.Context, m ws.Message) (bool, error) {
			// The venue acks with a subscriptionResponse frame, but the
			// first book snapshot is just as good a confirmation.
			resp, ok := ws.ReadMessage[BookMessage](m)
			if !ok {
				return false, nil
			}
			switch resp.Channel {
			case "subscriptionResponse":
				return true, nil
			case _channelBook:
				return resp.Data.Coin == s.cfg.Coin, nil
			default:
				return false, nil
			}
		},
	}, appendIntoRegister); err != nil {
		return errors.Wrap(err, "send and wait")
	}

	return nil
}

// keepalive pings the venue for the lifetime of the connection.
func (s *BookStream) keepalive(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sys.Shutdown():
			return
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			if err := s.wss.WriteJSON(PingRequest{Method: "ping"}); err != nil {
				logs.Errorf("write ping, err: %+v", err)
				return
			}
		}
	}
}

// observe decodes inbound frames into quotes. Quotes carry the consumer's
// wall clock, not the venue event time.
func (s *BookStream) observe(ctx context.Context) {
	defer func() {
		close(s.quotes)
		close(s.done)
	}()

	ch, cancel := s.wss.Subscribe()
	defer cancel()

	for {
		select {
		case <-sys.Shutdown():
			return
		case <-ctx.Done():
			return
		case m, ok := <-ch:
			if !ok {
				return
			}

			resp, ok := ws.ReadMessage[BookMessage](m)
			if !ok {
				continue
			}
			q, ok := ParseQuote(resp, time.Now().UnixMilli())
			if !ok {
				continue
			}

			select {
			case s.quotes <- q:
			case <-ctx.Done():
				return
			}
		}
	}
}
