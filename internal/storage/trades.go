package storage

import (
	"context"
	"time"

	"github.com/yanun0323/logs"
	"gorm.io/gorm"

	"main/internal/chase"
	"main/pkg/conn"
	"main/pkg/exception"
)

// TradeRecord is one persisted fill event.
type TradeRecord struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	Kind      string `gorm:"size:8"`
	Symbol    string `gorm:"size:32"`
	Side      string `gorm:"size:8"`
	Size      float64
	Price     float64
	OrderID   string `gorm:"size:32"`
	TsMs      int64
}

func (TradeRecord) TableName() string {
	return "trade_records"
}

// TradeLogger persists fill records, best effort. Failures are logged and
// never surface into the chase path; a nil logger is a valid no-op.
type TradeLogger struct {
	db     *gorm.DB
	symbol string
}

// NewTradeLogger migrates the trades table and returns a logger.
func NewTradeLogger(client *conn.Client, symbol string) (*TradeLogger, error) {
	if client == nil || client.DB() == nil {
		return nil, exception.ErrNilInstance
	}
	if err := client.DB().AutoMigrate(&TradeRecord{}); err != nil {
		return nil, err
	}
	return &TradeLogger{db: client.DB(), symbol: symbol}, nil
}

// Filled implements chase.TradeSink. The fill is recorded as an entry row.
func (t *TradeLogger) Filled(ctx context.Context, f chase.FillRecord) {
	t.LogEntry(ctx, f.Side.String(), f.Size, f.Price, f.OrderID, f.TsMs)
}

// LogEntry records a position entry.
func (t *TradeLogger) LogEntry(ctx context.Context, side string, size, price float64, orderID string, tsMs int64) {
	if t == nil || t.db == nil {
		return
	}
	rec := TradeRecord{
		Kind:    "entry",
		Symbol:  t.symbol,
		Side:    side,
		Size:    size,
		Price:   price,
		OrderID: orderID,
		TsMs:    tsMs,
	}
	if err := t.db.WithContext(ctx).Create(&rec).Error; err != nil {
		logs.Errorf("log entry trade, err: %+v", err)
	}
}
