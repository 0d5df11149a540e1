package market

import (
	"context"
	"sync"
	"time"
)

// PricePoint is one recorded price update.
type PricePoint struct {
	Price float64
	At    time.Time
}

// PriceHistory records every price update per symbol. It is the in-process
// history collaborator: attach it to a Market to build a per-symbol tape.
type PriceHistory struct {
	mu     sync.RWMutex
	points map[string][]PricePoint
	now    func() time.Time
}

func NewPriceHistory() *PriceHistory {
	return &PriceHistory{
		points: make(map[string][]PricePoint),
		now:    time.Now,
	}
}

func (h *PriceHistory) SetPrice(_ context.Context, symbol string, price float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.points[symbol] = append(h.points[symbol], PricePoint{Price: price, At: h.now()})
	return nil
}

// PointsForSymbol returns the recorded updates for a symbol, oldest first.
func (h *PriceHistory) PointsForSymbol(symbol string) []PricePoint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	points := make([]PricePoint, len(h.points[symbol]))
	copy(points, h.points[symbol])
	return points
}

// LastPrice returns the most recent update for a symbol.
func (h *PriceHistory) LastPrice(symbol string) (float64, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	points := h.points[symbol]
	if len(points) == 0 {
		return 0, false
	}
	return points[len(points)-1].Price, true
}
