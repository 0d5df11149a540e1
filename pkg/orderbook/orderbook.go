package orderbook

import (
	"context"
	"sort"
	"sync"

	"github.com/gammazero/deque"
	"go.uber.org/zap"

	"github.com/joripage/stockmarket-dev/pkg/market"
)

// Settlement is one matched order settled during a clearing cycle.
type Settlement struct {
	Symbol string
	Side   Side
	Qty    int64
	Price  float64
	Order  *Order
}

// Book holds pending orders per symbol and runs the discrete batch auction.
// It is a temporary index for matching: the owning trader keeps the order's
// lifecycle, the book only decides when it clears.
type Book struct {
	mkt  *market.Market
	sink market.PriceSink

	buyOrders  map[string]*deque.Deque[*Order]
	sellOrders map[string]*deque.Deque[*Order]

	callbacks        []func([]Settlement)
	failureCallbacks []func([]*Order)

	mu sync.Mutex
}

// NewBook builds a book over the given market registry. The sink receives
// one clearing-price update per symbol per cycle; pass the market itself to
// fan out to its attached collaborators.
func NewBook(mkt *market.Market, sink market.PriceSink) *Book {
	if sink == nil {
		sink = mkt
	}
	return &Book{
		mkt:        mkt,
		sink:       sink,
		buyOrders:  make(map[string]*deque.Deque[*Order]),
		sellOrders: make(map[string]*deque.Deque[*Order]),
	}
}

// RegisterTradeCallback attaches a consumer of settlement results. Callbacks
// run on the clearing goroutine, after the book lock is released.
func (b *Book) RegisterTradeCallback(fn func([]Settlement)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.callbacks = append(b.callbacks, fn)
}

// RegisterFailureCallback attaches a consumer of orders that left the book
// without settling, because their owner refused the trade.
func (b *Book) RegisterFailureCallback(fn func([]*Order)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failureCallbacks = append(b.failureCallbacks, fn)
}

// AddOrder registers a pending order in the bucket matching its symbol and
// side. No matching happens until the next clearing cycle.
func (b *Book) AddOrder(order *Order) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch order.Side {
	case SELL:
		bucket(b.sellOrders, order.Symbol).PushBack(order)
	case BUY:
		bucket(b.buyOrders, order.Symbol).PushBack(order)
	default:
		return ErrUnknownOrderSide
	}
	return nil
}

// clearingPlan is one symbol's partition outcome. Matched orders have left
// their bucket; their owners are notified after the book lock is released.
type clearingPlan struct {
	symbol  string
	price   float64
	matched []*Order
}

// Trade runs one clearing cycle over every symbol listed in the market.
// Symbols clear independently; a settlement failure on one order never
// aborts the rest of the cycle.
//
// Partitioning happens under the book lock; owner notification, price
// publication and callbacks run after it is released, so an owner holding
// its own lock can register new orders without deadlocking against the
// cycle.
func (b *Book) Trade(ctx context.Context) {
	b.mu.Lock()
	var plans []clearingPlan
	for _, symbol := range b.mkt.Symbols() {
		if plan, ok := b.clearSymbol(symbol); ok {
			plans = append(plans, plan)
		}
	}
	callbacks := make([]func([]Settlement), len(b.callbacks))
	copy(callbacks, b.callbacks)
	failureCallbacks := make([]func([]*Order), len(b.failureCallbacks))
	copy(failureCallbacks, b.failureCallbacks)
	b.mu.Unlock()

	for _, plan := range plans {
		if err := b.sink.SetPrice(ctx, plan.symbol, plan.price); err != nil {
			zap.S().Errorf("publish clearing price fail symbol=%s price=%f: %v", plan.symbol, plan.price, err)
		}

		var settlements []Settlement
		var failed []*Order
		for _, order := range plan.matched {
			if s, ok := b.settle(order, plan.price); ok {
				settlements = append(settlements, s)
			} else {
				failed = append(failed, order)
			}
		}

		if len(settlements) > 0 {
			for _, cb := range callbacks {
				cb(settlements)
			}
		}
		if len(failed) > 0 {
			for _, cb := range failureCallbacks {
				cb(failed)
			}
		}
	}
}

// clearSymbol discovers the clearing price and partitions both buckets into
// (matched, remaining). Caller holds the book lock. Reports false when a
// side is empty and the symbol skips the cycle.
func (b *Book) clearSymbol(symbol string) (clearingPlan, bool) {
	supplyQ := b.sellOrders[symbol]
	demandQ := b.buyOrders[symbol]
	if supplyQ == nil || demandQ == nil || supplyQ.Len() == 0 || demandQ.Len() == 0 {
		return clearingPlan{}, false
	}

	supply := snapshot(supplyQ)
	demand := snapshot(demandQ)

	// Supply cheapest first, demand dearest first: both scans start from the
	// aggressive end. Stable so that equal-price runs keep arrival order.
	sort.SliceStable(supply, func(i, j int) bool { return supply[i].Price < supply[j].Price })
	sort.SliceStable(demand, func(i, j int) bool { return demand[i].Price > demand[j].Price })

	clearingPrice, prices := discoverPrice(supply, demand)
	if clearingPrice == 0.0 {
		clearingPrice = averagePrice(prices)
	}

	var matched []*Order

	// Partition each side into (matched, remaining) and swap the bucket in
	// whole, instead of removing by index mid-scan.
	supplyQ.Clear()
	for _, order := range supply {
		if order.Price > clearingPrice {
			supplyQ.PushBack(order)
			continue
		}
		matched = append(matched, order)
	}

	demandQ.Clear()
	for _, order := range demand {
		if order.Price < clearingPrice {
			demandQ.PushBack(order)
			continue
		}
		matched = append(matched, order)
	}

	return clearingPlan{symbol: symbol, price: clearingPrice, matched: matched}, true
}

// settle notifies the order's owner. A callback failure is logged and
// swallowed; the order leaves the book either way.
func (b *Book) settle(order *Order, clearingPrice float64) (Settlement, bool) {
	qty := order.Size
	if err := order.Owner.TradePerformed(order, clearingPrice); err != nil {
		zap.S().Errorf("settlement callback fail symbol=%s side=%s qty=%d price=%f: %v",
			order.Symbol, order.Side, qty, clearingPrice, err)
		return Settlement{}, false
	}
	return Settlement{
		Symbol: order.Symbol,
		Side:   order.Side,
		Qty:    qty,
		Price:  clearingPrice,
		Order:  order,
	}, true
}

// BuyOrders returns a snapshot of the pending buy bucket for a symbol.
func (b *Book) BuyOrders(symbol string) []*Order {
	b.mu.Lock()
	defer b.mu.Unlock()

	return snapshot(b.buyOrders[symbol])
}

// SellOrders returns a snapshot of the pending sell bucket for a symbol.
func (b *Book) SellOrders(symbol string) []*Order {
	b.mu.Lock()
	defer b.mu.Unlock()

	return snapshot(b.sellOrders[symbol])
}

// OrderInBook is reserved: it currently always reports book-empty. An
// external collaborator still reads its return value.
func (b *Book) OrderInBook() int {
	return 0
}

func bucket(buckets map[string]*deque.Deque[*Order], symbol string) *deque.Deque[*Order] {
	q, ok := buckets[symbol]
	if !ok {
		q = &deque.Deque[*Order]{}
		buckets[symbol] = q
	}
	return q
}

func snapshot(q *deque.Deque[*Order]) []*Order {
	if q == nil {
		return nil
	}
	orders := make([]*Order, 0, q.Len())
	for i := 0; i < q.Len(); i++ {
		orders = append(orders, q.At(i))
	}
	return orders
}
