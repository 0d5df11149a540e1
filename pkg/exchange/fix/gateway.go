package fixgateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/quickfix"

	"github.com/joripage/stockmarket-dev/pkg/exchange/model"
	"github.com/joripage/stockmarket-dev/pkg/orderbook"
)

// OrderPlacer is the slice of the exchange the gateway drives. Accounts map
// to trader names.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, trader, symbol string, volume int64, price float64, side orderbook.Side) error
	PlaceMarketOrder(ctx context.Context, trader, symbol string, volume int64, side orderbook.Side) error
}

// FixGateway accepts FIX 4.4 NewOrderSingle messages and reports settlements
// back as ExecutionReports. One pending order per account and symbol, which
// is exactly the duplicate-order rule the trader lifecycle enforces.
type FixGateway struct {
	cfg    *FixGatewayConfig
	app    *Application
	placer OrderPlacer

	// account|symbol -> *NewOrderSingle awaiting settlement
	requestMapping sync.Map
}

type FixGatewayConfig struct {
	ConfigFilepath string
}

func NewFixGateway(cfg *FixGatewayConfig) *FixGateway {
	return &FixGateway{
		cfg: cfg,
	}
}

func (s *FixGateway) AttachPlacer(p OrderPlacer) {
	s.placer = p
}

func (s *FixGateway) Start(ctx context.Context) error {
	app, err := startApp(s.cfg.ConfigFilepath, s)
	if err != nil {
		log.Printf("start app err=%v", err)
		return err
	}
	s.app = app
	return nil
}

func (s *FixGateway) Stop() {
	if s.app != nil {
		stopApp(s.app)
	}
}

func requestKey(account, symbol string) string {
	return fmt.Sprintf("%s|%s", account, symbol)
}

func (s *FixGateway) AddOrder(ctx context.Context, newOrderSingle *NewOrderSingle) {
	if s.placer == nil {
		return
	}

	side := map[enum.Side]orderbook.Side{
		enum.Side_BUY:  orderbook.BUY,
		enum.Side_SELL: orderbook.SELL,
	}[newOrderSingle.Side]

	volume := newOrderSingle.OrderQty.IntPart()
	s.requestMapping.Store(requestKey(newOrderSingle.Account, newOrderSingle.Symbol), newOrderSingle)

	var err error
	switch newOrderSingle.OrdType {
	case enum.OrdType_MARKET:
		err = s.placer.PlaceMarketOrder(ctx, newOrderSingle.Account, newOrderSingle.Symbol, volume, side)
	default:
		err = s.placer.PlaceOrder(ctx, newOrderSingle.Account, newOrderSingle.Symbol, volume,
			newOrderSingle.Price.InexactFloat64(), side)
	}

	if err != nil {
		s.requestMapping.Delete(requestKey(newOrderSingle.Account, newOrderSingle.Symbol))
		if sendErr := sendReject(newOrderSingle, err); sendErr != nil {
			log.Printf("send reject err=%v", sendErr)
		}
	}
}

// OnSettlement sends one ExecutionReport per settlement event that belongs
// to a session this gateway accepted the order from.
func (s *FixGateway) OnSettlement(ctx context.Context, events []*model.SettlementEvent) {
	for _, ev := range events {
		key := requestKey(ev.Trader, ev.Symbol)
		v, ok := s.requestMapping.Load(key)
		if !ok {
			continue
		}
		req := v.(*NewOrderSingle)
		s.requestMapping.Delete(key)

		if err := settlementToExecutionReport(ev, req); err != nil {
			log.Printf("send execution report err=%v", err)
		}
	}
}

var errSettlementNotApplied = errors.New("settlement could not be applied")

// OnUnsettled releases the pending request for an order that left the book
// without settling, so the key cannot match a later unrelated settlement,
// and rejects it back to the session.
func (s *FixGateway) OnUnsettled(ctx context.Context, trader, symbol string) {
	key := requestKey(trader, symbol)
	v, ok := s.requestMapping.Load(key)
	if !ok {
		return
	}
	s.requestMapping.Delete(key)

	if err := sendReject(v.(*NewOrderSingle), errSettlementNotApplied); err != nil {
		log.Printf("send reject err=%v", err)
	}
}

func sendReject(req *NewOrderSingle, cause error) error {
	msg := rejectReport(req, cause)
	return quickfix.SendToTarget(msg, *req.SessionID)
}
