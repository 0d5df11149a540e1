package market

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Stock is a symbol resident in the market registry with its current price.
type Stock struct {
	Symbol string
	Name   string
	Price  float64
}

// PriceSink receives the clearing price of a symbol once per clearing cycle.
type PriceSink interface {
	SetPrice(ctx context.Context, symbol string, price float64) error
}

// Market is the registry of listed stocks. It implements PriceSink itself:
// a price update lands in the registry first and is then fanned out to every
// attached sink (history, caches, feeds).
type Market struct {
	mu     sync.RWMutex
	stocks map[string]*Stock
	sinks  []PriceSink
}

func NewMarket() *Market {
	return &Market{
		stocks: make(map[string]*Stock),
	}
}

// AddStock lists a stock. Re-listing a symbol overwrites its entry.
func (m *Market) AddStock(symbol, name string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stocks[symbol] = &Stock{Symbol: symbol, Name: name, Price: price}
}

// AttachSink registers a collaborator interested in price updates.
func (m *Market) AttachSink(sink PriceSink) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sinks = append(m.sinks, sink)
}

func (m *Market) GetStockForSymbol(symbol string) (*Stock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stock, ok := m.stocks[symbol]
	if !ok {
		return nil, ErrUnknownSymbol
	}
	return stock, nil
}

func (m *Market) GetPriceForSymbol(symbol string) (float64, error) {
	stock, err := m.GetStockForSymbol(symbol)
	if err != nil {
		return 0, err
	}
	return stock.Price, nil
}

// Symbols returns every listed symbol in sorted order so that callers
// iterating the registry behave the same from cycle to cycle.
func (m *Market) Symbols() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	symbols := make([]string, 0, len(m.stocks))
	for sym := range m.stocks {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols
}

// StockList returns a snapshot of the registry.
func (m *Market) StockList() map[string]Stock {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make(map[string]Stock, len(m.stocks))
	for sym, stock := range m.stocks {
		list[sym] = *stock
	}
	return list
}

// SetPrice updates the registry price and notifies attached sinks. A failing
// sink does not block the others.
func (m *Market) SetPrice(ctx context.Context, symbol string, price float64) error {
	m.mu.Lock()
	stock, ok := m.stocks[symbol]
	if !ok {
		m.mu.Unlock()
		return ErrUnknownSymbol
	}
	stock.Price = price
	sinks := make([]PriceSink, len(m.sinks))
	copy(sinks, m.sinks)
	m.mu.Unlock()

	for _, sink := range sinks {
		if err := sink.SetPrice(ctx, symbol, price); err != nil {
			zap.S().Errorf("price sink update fail symbol=%s: %v", symbol, err)
		}
	}
	return nil
}
