package chase

import (
	"strings"

	"main/pkg/exception"
)

// Quote is one best-bid/best-ask snapshot. Immutable once produced.
type Quote struct {
	TsMs  int64
	BidPx float64
	BidSz float64
	AskPx float64
	AskSz float64
}

// Side is the side of the book the chase works.
type Side uint8

const (
	SideUnknown Side = iota
	SideBuy
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return "unknown"
	}
}

// ParseSide converts a config string into a Side.
func ParseSide(value string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "buy":
		return SideBuy, nil
	case "sell":
		return SideSell, nil
	default:
		return SideUnknown, exception.ErrOrderUnknownSide
	}
}

// Outcome is the terminal result of one processing step.
type Outcome uint8

const (
	// OutcomeNone means still chasing, no terminal event yet.
	OutcomeNone Outcome = iota
	OutcomeFilled
	OutcomeAborted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFilled:
		return "filled"
	case OutcomeAborted:
		return "aborted"
	default:
		return "none"
	}
}

// Terminal reports whether the outcome ends a chase run.
func (o Outcome) Terminal() bool {
	return o == OutcomeFilled || o == OutcomeAborted
}
