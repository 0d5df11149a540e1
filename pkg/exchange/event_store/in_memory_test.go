package eventstore

import (
	"testing"
	"time"

	"github.com/joripage/stockmarket-dev/pkg/exchange/model"
)

func TestInMemoryEventStore(t *testing.T) {
	store := NewInMemoryEventStore()
	now := time.Now()

	store.AddEvent(model.NewSettlementEvent(1, "alice", "ABC", model.SideBuy, 10, 40.0, now))
	store.AddEvent(model.NewSettlementEvent(1, "bob", "ABC", model.SideSell, 10, 40.0, now))
	store.AddEvent(model.NewSettlementEvent(2, "alice", "XYZ", model.SideBuy, 5, 70.0, now))

	if got := store.Len(); got != 3 {
		t.Fatalf("expected 3 events, got %d", got)
	}
	if got := len(store.EventsForTrader("alice")); got != 2 {
		t.Errorf("expected 2 alice events, got %d", got)
	}
	if got := len(store.EventsForSymbol("ABC")); got != 2 {
		t.Errorf("expected 2 ABC events, got %d", got)
	}
	if got := len(store.EventsForCycle(2)); got != 1 {
		t.Errorf("expected 1 event in cycle 2, got %d", got)
	}
	if got := len(store.EventsForTrader("carol")); got != 0 {
		t.Errorf("expected no carol events, got %d", got)
	}
}

func TestSettlementEventCashDelta(t *testing.T) {
	now := time.Now()

	buy := model.NewSettlementEvent(1, "alice", "ABC", model.SideBuy, 10, 40.0, now)
	if buy.CashDelta.String() != "-400" {
		t.Errorf("expected buy cash delta -400, got %s", buy.CashDelta)
	}

	sell := model.NewSettlementEvent(1, "bob", "ABC", model.SideSell, 10, 40.0, now)
	if sell.CashDelta.String() != "400" {
		t.Errorf("expected sell cash delta 400, got %s", sell.CashDelta)
	}
	if buy.EventID == sell.EventID {
		t.Errorf("expected distinct event ids")
	}
}
