package eventstore

import "github.com/joripage/stockmarket-dev/pkg/exchange/model"

// EventStore journals settlement events as clearing cycles run.
type EventStore interface {
	AddEvent(ev *model.SettlementEvent)
	EventsForTrader(trader string) []*model.SettlementEvent
	EventsForSymbol(symbol string) []*model.SettlementEvent
	EventsForCycle(cycle int64) []*model.SettlementEvent
	Len() int
}
