package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"main/internal/chase"
	"main/pkg/exception"
)

func TestTradeLoggerNilIsNoOp(t *testing.T) {
	var l *TradeLogger
	// Must never panic; persistence is optional in the chase path.
	l.Filled(t.Context(), chase.FillRecord{OrderID: "1", Side: chase.SideBuy, Price: 100, Size: 1})
	l.LogEntry(t.Context(), "buy", 1, 100, "1", 0)
}

func TestNewTradeLoggerNilClient(t *testing.T) {
	_, err := NewTradeLogger(nil, "BTC")
	assert.ErrorIs(t, err, exception.ErrNilInstance)
}

func TestTradeRecordTableName(t *testing.T) {
	assert.Equal(t, "trade_records", TradeRecord{}.TableName())
}
