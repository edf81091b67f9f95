package exception

import "github.com/yanun0323/errors"

var (
	ErrStreamAlreadyRun   = errors.New("market data: stream already running")
	ErrStreamEnded        = errors.New("market data: stream ended")
	ErrEmptyStreamSymbol  = errors.New("market data: empty symbol")
	ErrInvalidStreamQueue = errors.New("market data: queue size must be > 0")
)
