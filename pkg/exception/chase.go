package exception

import "github.com/yanun0323/errors"

var (
	ErrChaseInvalidTickSize  = errors.New("chase: tick size must be > 0")
	ErrChaseInvalidOrderSize = errors.New("chase: order size must be > 0")
	ErrChaseInvalidTolerance = errors.New("chase: tolerance ticks must be >= 0")
	ErrChaseInvalidMaxAge    = errors.New("chase: max age must be >= 0")
	ErrChaseInvalidMaxChase  = errors.New("chase: max chase ticks must be >= 0")
	ErrChaseInvalidRefresh   = errors.New("chase: refresh interval must be >= 0")
	ErrChaseNilGateway       = errors.New("chase: nil order gateway")
	ErrChaseNilEngine        = errors.New("chase: nil engine")
	ErrChaseNilStream        = errors.New("chase: nil quote stream")
)
