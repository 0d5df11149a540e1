package exchange

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	eventstore "github.com/joripage/stockmarket-dev/pkg/exchange/event_store"
	"github.com/joripage/stockmarket-dev/pkg/exchange/model"
	"github.com/joripage/stockmarket-dev/pkg/exchange/riskrule"
	"github.com/joripage/stockmarket-dev/pkg/market"
	"github.com/joripage/stockmarket-dev/pkg/orderbook"
)

// OrderGateway is the exchange's client-facing boundary: it feeds placements
// in and receives settlement reports out.
type OrderGateway interface {
	Start(ctx context.Context) error

	// exchange to client
	OnSettlement(ctx context.Context, events []*model.SettlementEvent)

	// OnUnsettled reports an order that left the book without settling, so
	// the gateway can release whatever it holds for the placement.
	OnUnsettled(ctx context.Context, trader, symbol string)
}

// SettlementPublisher ships settlement events to an external feed.
type SettlementPublisher interface {
	Publish(ctx context.Context, ev *model.SettlementEvent) error
}

// Exchange owns the market registry, the order book and the traders, and
// drives discrete clearing cycles. All placements route through it so risk
// rules and the settlement journal see every order.
type Exchange struct {
	mkt  *market.Market
	book *orderbook.Book

	traders    sync.Map // name -> *Trader
	eventstore eventstore.EventStore
	gateway    OrderGateway
	publisher  SettlementPublisher
	rules      []riskrule.Rule

	cycle atomic.Int64
}

func New(mkt *market.Market) *Exchange {
	ex := &Exchange{
		mkt:        mkt,
		book:       orderbook.NewBook(mkt, mkt),
		eventstore: eventstore.NewInMemoryEventStore(),
	}
	ex.book.RegisterTradeCallback(ex.processSettlements)
	ex.book.RegisterFailureCallback(ex.processFailedSettlements)
	return ex
}

func (ex *Exchange) Market() *market.Market {
	return ex.mkt
}

func (ex *Exchange) Book() *orderbook.Book {
	return ex.book
}

func (ex *Exchange) EventStore() eventstore.EventStore {
	return ex.eventstore
}

func (ex *Exchange) SetGateway(gw OrderGateway) {
	ex.gateway = gw
}

func (ex *Exchange) SetPublisher(pub SettlementPublisher) {
	ex.publisher = pub
}

func (ex *Exchange) AddRule(rule riskrule.Rule) {
	ex.rules = append(ex.rules, rule)
}

func (ex *Exchange) Start(ctx context.Context) error {
	if ex.gateway == nil {
		return nil
	}
	return ex.gateway.Start(ctx)
}

// RegisterTrader admits a trader with starting cash. Re-registering a name
// returns the existing trader.
func (ex *Exchange) RegisterTrader(name string, cash float64) *Trader {
	trader := NewTrader(name, cash)
	actual, _ := ex.traders.LoadOrStore(name, trader)
	return actual.(*Trader)
}

func (ex *Exchange) Trader(name string) (*Trader, error) {
	if v, ok := ex.traders.Load(name); ok {
		return v.(*Trader), nil
	}
	return nil, ErrTraderNotFound
}

// BuyFromBank is an immediate purchase outside the order book.
func (ex *Exchange) BuyFromBank(ctx context.Context, trader, symbol string, volume int64) error {
	t, err := ex.Trader(trader)
	if err != nil {
		return err
	}
	return t.BuyFromBank(ex.mkt, symbol, volume)
}

// PlaceOrder validates a limit order against the risk rules, then hands it
// to the trader lifecycle.
func (ex *Exchange) PlaceOrder(ctx context.Context, trader, symbol string, volume int64, price float64, side orderbook.Side) error {
	t, err := ex.Trader(trader)
	if err != nil {
		return err
	}
	if err := ex.checkRules(&model.PlaceRequest{
		Trader: trader,
		Symbol: symbol,
		Side:   string(side),
		Volume: volume,
		Price:  price,
	}); err != nil {
		return err
	}
	return t.PlaceOrder(ex.mkt, ex.book, symbol, volume, price, side)
}

func (ex *Exchange) PlaceMarketOrder(ctx context.Context, trader, symbol string, volume int64, side orderbook.Side) error {
	t, err := ex.Trader(trader)
	if err != nil {
		return err
	}
	if err := ex.checkRules(&model.PlaceRequest{
		Trader:      trader,
		Symbol:      symbol,
		Side:        string(side),
		Volume:      volume,
		MarketOrder: true,
	}); err != nil {
		return err
	}
	return t.PlaceMarketOrder(ex.mkt, ex.book, symbol, volume, side)
}

func (ex *Exchange) checkRules(req *model.PlaceRequest) error {
	for _, rule := range ex.rules {
		if err := rule.Check(req); err != nil {
			return err
		}
	}
	return nil
}

// RunCycle triggers one batch auction over every listed symbol.
func (ex *Exchange) RunCycle(ctx context.Context) {
	cycle := ex.cycle.Add(1)
	before := ex.eventstore.Len()
	ex.book.Trade(ctx)
	zap.S().Infof("clearing cycle done cycle=%d settlements=%d", cycle, ex.eventstore.Len()-before)
}

// Cycle reports the number of the last clearing cycle.
func (ex *Exchange) Cycle() int64 {
	return ex.cycle.Load()
}

func (ex *Exchange) processSettlements(settlements []orderbook.Settlement) {
	ctx := context.Background()
	cycle := ex.cycle.Load()
	now := time.Now()

	events := make([]*model.SettlementEvent, 0, len(settlements))
	for _, s := range settlements {
		name := ""
		if t, ok := s.Order.Owner.(*Trader); ok {
			name = t.Name()
		}
		ev := model.NewSettlementEvent(cycle, name, s.Symbol, string(s.Side), s.Qty, s.Price, now)
		ex.eventstore.AddEvent(ev)
		events = append(events, ev)

		if ex.publisher != nil {
			if err := ex.publisher.Publish(ctx, ev); err != nil {
				zap.S().Errorf("publish settlement event fail event_id=%s: %v", ev.EventID, err)
			}
		}
	}

	if ex.gateway != nil && len(events) > 0 {
		ex.gateway.OnSettlement(ctx, events)
	}
}

// processFailedSettlements forwards orders that left the book unsettled.
// They produce no journal event, but the gateway still has to release its
// per-placement state.
func (ex *Exchange) processFailedSettlements(orders []*orderbook.Order) {
	if ex.gateway == nil {
		return
	}
	ctx := context.Background()
	for _, o := range orders {
		name := ""
		if t, ok := o.Owner.(*Trader); ok {
			name = t.Name()
		}
		ex.gateway.OnUnsettled(ctx, name, o.Symbol)
	}
}
