package exchange

import (
	"sync"

	"github.com/joripage/stockmarket-dev/pkg/market"
	"github.com/joripage/stockmarket-dev/pkg/orderbook"
)

// Trader owns cash and a set of position lots, places orders against those
// constraints, and applies settlement notifications back to its own state.
//
// Lifecycle per order: Pending (in ordersPlaced and in the book) then
// Settled (removed from both, cash and position updated). One transition,
// no partial-fill re-queueing.
type Trader struct {
	name       string
	cashInHand float64

	// position lots per symbol; sizes sum to the shares actually held
	position     []*orderbook.Order
	ordersPlaced []*orderbook.Order

	mu sync.Mutex
}

func NewTrader(name string, cashInHand float64) *Trader {
	return &Trader{
		name:       name,
		cashInHand: cashInHand,
	}
}

func (t *Trader) Name() string {
	return t.name
}

func (t *Trader) Cash() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.cashInHand
}

// Position returns a snapshot of the trader's lots.
func (t *Trader) Position() []*orderbook.Order {
	t.mu.Lock()
	defer t.mu.Unlock()

	lots := make([]*orderbook.Order, len(t.position))
	copy(lots, t.position)
	return lots
}

// PendingOrders returns a snapshot of orders awaiting settlement.
func (t *Trader) PendingOrders() []*orderbook.Order {
	t.mu.Lock()
	defer t.mu.Unlock()

	pending := make([]*orderbook.Order, len(t.ordersPlaced))
	copy(pending, t.ordersPlaced)
	return pending
}

// SharesOwned sums lot sizes for a symbol.
func (t *Trader) SharesOwned(symbol string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.sharesOwnedLocked(symbol)
}

func (t *Trader) sharesOwnedLocked(symbol string) int64 {
	var held int64
	for _, lot := range t.position {
		if lot.Symbol == symbol {
			held += lot.Size
		}
	}
	return held
}

func (t *Trader) hasLotLocked(symbol string) bool {
	for _, lot := range t.position {
		if lot.Symbol == symbol {
			return true
		}
	}
	return false
}

func (t *Trader) hasPendingLocked(symbol string) bool {
	for _, o := range t.ordersPlaced {
		if o.Symbol == symbol {
			return true
		}
	}
	return false
}

// BuyFromBank purchases stock straight from the bank at the current market
// price: no book interaction, the lot lands in the position immediately.
func (t *Trader) BuyFromBank(m *market.Market, symbol string, volume int64) error {
	stock, err := m.GetStockForSymbol(symbol)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	cost := float64(volume) * stock.Price
	if cost > t.cashInHand {
		return ErrInsufficientFunds
	}

	t.position = append(t.position, orderbook.NewLimitOrder(symbol, volume, stock.Price, orderbook.BUY, t))
	t.cashInHand -= cost
	return nil
}

// PlaceOrder registers a limit order at the caller's price. The order stays
// in suspension until a clearing cycle triggers a trade.
func (t *Trader) PlaceOrder(m *market.Market, book *orderbook.Book, symbol string, volume int64, price float64, side orderbook.Side) error {
	switch side {
	case orderbook.BUY:
		stock, err := m.GetStockForSymbol(symbol)
		if err != nil {
			return err
		}

		t.mu.Lock()
		defer t.mu.Unlock()

		// affordability is checked at the current market price, not the limit
		if float64(volume)*stock.Price > t.cashInHand {
			return ErrInsufficientFunds
		}
		if t.hasPendingLocked(symbol) {
			return ErrDuplicateOrder
		}
		return t.registerLocked(book, orderbook.NewLimitOrder(symbol, volume, price, orderbook.BUY, t))

	case orderbook.SELL:
		t.mu.Lock()
		defer t.mu.Unlock()

		if !t.hasLotLocked(symbol) {
			return ErrNotOwned
		}
		if volume > t.sharesOwnedLocked(symbol) {
			return ErrInsufficientShares
		}
		return t.registerLocked(book, orderbook.NewLimitOrder(symbol, volume, price, orderbook.SELL, t))
	}

	// defensive default: unrecognized side is a no-op
	return nil
}

// PlaceMarketOrder registers an order that settles at whatever clearing
// price the cycle computes. Sells carry no duplicate or ownership checks.
func (t *Trader) PlaceMarketOrder(m *market.Market, book *orderbook.Book, symbol string, volume int64, side orderbook.Side) error {
	switch side {
	case orderbook.BUY:
		stock, err := m.GetStockForSymbol(symbol)
		if err != nil {
			return err
		}

		t.mu.Lock()
		defer t.mu.Unlock()

		if float64(volume)*stock.Price > t.cashInHand {
			return ErrInsufficientFunds
		}
		order, err := orderbook.NewMarketOrder(symbol, volume, orderbook.BUY, true, t)
		if err != nil {
			return err
		}
		return t.registerLocked(book, order)

	case orderbook.SELL:
		t.mu.Lock()
		defer t.mu.Unlock()

		order, err := orderbook.NewMarketOrder(symbol, volume, orderbook.SELL, true, t)
		if err != nil {
			return err
		}
		return t.registerLocked(book, order)
	}

	return nil
}

func (t *Trader) registerLocked(book *orderbook.Book, order *orderbook.Order) error {
	if err := book.AddOrder(order); err != nil {
		return err
	}
	t.ordersPlaced = append(t.ordersPlaced, order)
	return nil
}

// TradePerformed is the settlement callback: the book matched the order at
// matchPrice. Cash flows at the clearing price, not the order's limit.
func (t *Trader) TradePerformed(order *orderbook.Order, matchPrice float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch order.Side {
	case orderbook.SELL:
		t.removePendingLocked(order)
		t.cashInHand += float64(order.Size) * matchPrice
		t.reducePositionLocked(order.Symbol, order.Size)
		return nil

	case orderbook.BUY:
		t.removePendingLocked(order)
		t.cashInHand -= float64(order.Size) * matchPrice
		t.growPositionLocked(order.Symbol, order.Size, matchPrice)
		return nil
	}

	return ErrUnknownOrderType
}

func (t *Trader) removePendingLocked(order *orderbook.Order) {
	pending := t.ordersPlaced[:0]
	for _, o := range t.ordersPlaced {
		if o != order {
			pending = append(pending, o)
		}
	}
	t.ordersPlaced = pending
}

// reducePositionLocked decrements the symbol's lots by the traded size,
// oldest lot first, and drops lots that hit zero.
func (t *Trader) reducePositionLocked(symbol string, size int64) {
	remaining := size
	kept := t.position[:0]
	for _, lot := range t.position {
		if lot.Symbol == symbol && remaining > 0 {
			take := min(lot.Size, remaining)
			lot.Size -= take
			remaining -= take
		}
		if lot.Size > 0 {
			kept = append(kept, lot)
		}
	}
	t.position = kept
}

// growPositionLocked increments the symbol's lot, or opens a new lot at the
// match price when none exists.
func (t *Trader) growPositionLocked(symbol string, size int64, matchPrice float64) {
	for _, lot := range t.position {
		if lot.Symbol == symbol {
			lot.Size += size
			return
		}
	}
	t.position = append(t.position, orderbook.NewLimitOrder(symbol, size, matchPrice, orderbook.BUY, t))
}
