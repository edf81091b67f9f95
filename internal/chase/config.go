package chase

import "main/pkg/exception"

// Config holds the chase parameters. Immutable for the engine's lifetime.
type Config struct {
	TickSize       float64
	Side           Side
	OrderSize      float64
	PostOnly       bool
	ToleranceTicks float64
	MaxAgeMs       int64
	MaxChaseTicks  float64
}

// Validate checks the config ranges.
func (c Config) Validate() error {
	if c.TickSize <= 0 {
		return exception.ErrChaseInvalidTickSize
	}
	if c.Side != SideBuy && c.Side != SideSell {
		return exception.ErrOrderUnknownSide
	}
	if c.OrderSize <= 0 {
		return exception.ErrChaseInvalidOrderSize
	}
	if c.ToleranceTicks < 0 {
		return exception.ErrChaseInvalidTolerance
	}
	if c.MaxAgeMs < 0 {
		return exception.ErrChaseInvalidMaxAge
	}
	if c.MaxChaseTicks < 0 {
		return exception.ErrChaseInvalidMaxChase
	}
	return nil
}
