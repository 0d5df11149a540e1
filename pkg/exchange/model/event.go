package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementEvent is one matched order applied to a trader, as journaled by
// the exchange and shipped over the settlement feed.
type SettlementEvent struct {
	EventID   string          `json:"event_id" gorm:"primaryKey;column:event_id"`
	Cycle     int64           `json:"cycle" gorm:"column:cycle"`
	Trader    string          `json:"trader" gorm:"column:trader"`
	Symbol    string          `json:"symbol" gorm:"column:symbol"`
	Side      string          `json:"side" gorm:"column:side"`
	Quantity  decimal.Decimal `json:"quantity" gorm:"column:quantity;type:numeric"`
	Price     decimal.Decimal `json:"price" gorm:"column:price;type:numeric"`
	CashDelta decimal.Decimal `json:"cash_delta" gorm:"column:cash_delta;type:numeric"`
	Timestamp time.Time       `json:"timestamp" gorm:"column:ts"`
}

func (SettlementEvent) TableName() string {
	return "settlement_events"
}

const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// NewSettlementEvent builds the journal record for a settlement. CashDelta
// is signed from the trader's point of view: positive for a sell.
func NewSettlementEvent(cycle int64, trader, symbol, side string, qty int64, price float64, ts time.Time) *SettlementEvent {
	quantity := decimal.NewFromInt(qty)
	matchPrice := decimal.NewFromFloat(price)
	cashDelta := quantity.Mul(matchPrice)
	if side == SideBuy {
		cashDelta = cashDelta.Neg()
	}
	return &SettlementEvent{
		EventID:   uuid.New().String(),
		Cycle:     cycle,
		Trader:    trader,
		Symbol:    symbol,
		Side:      side,
		Quantity:  quantity,
		Price:     matchPrice,
		CashDelta: cashDelta,
		Timestamp: ts,
	}
}
