package eventstore

import (
	"sync"

	"github.com/joripage/stockmarket-dev/pkg/exchange/model"
)

type InMemoryEventStore struct {
	mu       sync.RWMutex
	events   []*model.SettlementEvent
	byTrader map[string][]*model.SettlementEvent
	bySymbol map[string][]*model.SettlementEvent
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		byTrader: make(map[string][]*model.SettlementEvent),
		bySymbol: make(map[string][]*model.SettlementEvent),
	}
}

func (s *InMemoryEventStore) AddEvent(ev *model.SettlementEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, ev)
	s.byTrader[ev.Trader] = append(s.byTrader[ev.Trader], ev)
	s.bySymbol[ev.Symbol] = append(s.bySymbol[ev.Symbol], ev)
}

func (s *InMemoryEventStore) EventsForTrader(trader string) []*model.SettlementEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyEvents(s.byTrader[trader])
}

func (s *InMemoryEventStore) EventsForSymbol(symbol string) []*model.SettlementEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyEvents(s.bySymbol[symbol])
}

func (s *InMemoryEventStore) EventsForCycle(cycle int64) []*model.SettlementEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var events []*model.SettlementEvent
	for _, ev := range s.events {
		if ev.Cycle == cycle {
			events = append(events, ev)
		}
	}
	return events
}

func (s *InMemoryEventStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.events)
}

func copyEvents(events []*model.SettlementEvent) []*model.SettlementEvent {
	out := make([]*model.SettlementEvent, len(events))
	copy(out, events)
	return out
}
