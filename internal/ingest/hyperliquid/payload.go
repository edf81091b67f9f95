package hyperliquid

import (
	"github.com/shopspring/decimal"

	"main/internal/chase"
)

const (
	_mainnetWsUrl = "wss://api.hyperliquid.xyz/ws"
	_testnetWsUrl = "wss://api.hyperliquid-testnet.xyz/ws"

	_channelBook = "l2Book"
)

// Endpoint returns the venue websocket URI for the selected network.
func Endpoint(testnet bool) string {
	if testnet {
		return _testnetWsUrl
	}
	return _mainnetWsUrl
}

type SubscribeRequest struct {
	Method       string       `json:"method"`
	Subscription Subscription `json:"subscription"`
}

type Subscription struct {
	Type string `json:"type"`
	Coin string `json:"coin"`
}

type PingRequest struct {
	Method string `json:"method"`
}

// BookMessage is one inbound l2Book frame. Levels hold bids at index 0 and
// asks at index 1, best level first.
type BookMessage struct {
	Channel string   `json:"channel"`
	Data    BookData `json:"data"`
}

type BookData struct {
	Coin   string        `json:"coin"`
	Time   int64         `json:"time"`
	Levels [][]BookLevel `json:"levels"`
}

// BookLevel decodes px/sz whether the venue sends them as strings or numbers.
type BookLevel struct {
	Px decimal.Decimal `json:"px"`
	Sz decimal.Decimal `json:"sz"`
	N  int             `json:"n"`
}

// ParseQuote extracts the best level of each side. Messages with fewer than
// two non-empty sides are incomplete snapshots and reported as not ok.
func ParseQuote(msg BookMessage, nowMs int64) (chase.Quote, bool) {
	if msg.Channel != _channelBook {
		return chase.Quote{}, false
	}
	if len(msg.Data.Levels) < 2 {
		return chase.Quote{}, false
	}
	bids, asks := msg.Data.Levels[0], msg.Data.Levels[1]
	if len(bids) == 0 || len(asks) == 0 {
		return chase.Quote{}, false
	}
	return chase.Quote{
		TsMs:  nowMs,
		BidPx: bids[0].Px.InexactFloat64(),
		BidSz: bids[0].Sz.InexactFloat64(),
		AskPx: asks[0].Px.InexactFloat64(),
		AskSz: asks[0].Sz.InexactFloat64(),
	}, true
}
