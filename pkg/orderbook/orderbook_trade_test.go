package orderbook

import (
	"context"
	"errors"
	"testing"

	"github.com/joripage/stockmarket-dev/pkg/market"
)

type fill struct {
	order *Order
	price float64
}

// recordingOwner collects settlement notifications, optionally failing them.
type recordingOwner struct {
	fills []fill
	err   error
}

func (o *recordingOwner) TradePerformed(order *Order, matchPrice float64) error {
	if o.err != nil {
		return o.err
	}
	o.fills = append(o.fills, fill{order: order, price: matchPrice})
	return nil
}

func newTestMarket(symbols ...string) *market.Market {
	mkt := market.NewMarket()
	for _, sym := range symbols {
		mkt.AddStock(sym, sym+" Corp", 100.0)
	}
	return mkt
}

func TestTradeSettlesCross(t *testing.T) {
	mkt := newTestMarket("ABC")
	book := NewBook(mkt, nil)

	seller := &recordingOwner{}
	buyer := &recordingOwner{}

	var settled []Settlement
	book.RegisterTradeCallback(func(results []Settlement) {
		settled = append(settled, results...)
	})

	if err := book.AddOrder(NewLimitOrder("ABC", 10, 40.0, SELL, seller)); err != nil {
		t.Fatal(err)
	}
	if err := book.AddOrder(NewLimitOrder("ABC", 10, 50.0, BUY, buyer)); err != nil {
		t.Fatal(err)
	}

	book.Trade(context.Background())

	if len(settled) != 2 {
		t.Fatalf("expected 2 settlements, got %d", len(settled))
	}
	for _, s := range settled {
		if s.Price != 40.0 || s.Qty != 10 {
			t.Errorf("expected qty 10 at 40.0, got %+v", s)
		}
	}
	if len(seller.fills) != 1 || seller.fills[0].price != 40.0 {
		t.Errorf("seller not settled at clearing price: %+v", seller.fills)
	}
	if len(buyer.fills) != 1 || buyer.fills[0].price != 40.0 {
		t.Errorf("buyer not settled at clearing price: %+v", buyer.fills)
	}
	if n := len(book.SellOrders("ABC")) + len(book.BuyOrders("ABC")); n != 0 {
		t.Errorf("expected empty book after clearing, got %d pending", n)
	}
	if price, _ := mkt.GetPriceForSymbol("ABC"); price != 40.0 {
		t.Errorf("expected market price 40.0 after clearing, got %f", price)
	}
}

func TestTradeSkipsOneSidedBook(t *testing.T) {
	mkt := newTestMarket("ABC")
	book := NewBook(mkt, nil)
	book.RegisterTradeCallback(func(results []Settlement) {
		t.Fatalf("expected no settlement, got %d", len(results))
	})

	owner := &recordingOwner{}
	if err := book.AddOrder(NewLimitOrder("ABC", 10, 50.0, BUY, owner)); err != nil {
		t.Fatal(err)
	}

	book.Trade(context.Background())

	if len(book.BuyOrders("ABC")) != 1 {
		t.Errorf("expected buy order untouched")
	}
	if price, _ := mkt.GetPriceForSymbol("ABC"); price != 100.0 {
		t.Errorf("expected price unchanged at 100.0, got %f", price)
	}
}

func TestTradeMarketSellWithNoDemand(t *testing.T) {
	mkt := newTestMarket("ABC")
	book := NewBook(mkt, nil)
	book.RegisterTradeCallback(func(results []Settlement) {
		t.Fatalf("expected no settlement, got %d", len(results))
	})

	owner := &recordingOwner{}
	sell, err := NewMarketOrder("ABC", 10, SELL, true, owner)
	if err != nil {
		t.Fatal(err)
	}
	_ = book.AddOrder(sell)

	book.Trade(context.Background())

	if len(book.SellOrders("ABC")) != 1 {
		t.Errorf("expected market sell untouched")
	}
	if price, _ := mkt.GetPriceForSymbol("ABC"); price != 100.0 {
		t.Errorf("expected price unchanged at 100.0, got %f", price)
	}
}

func TestTradeLeavesNonCrossingOrders(t *testing.T) {
	mkt := newTestMarket("ABC")
	book := NewBook(mkt, nil)
	book.RegisterTradeCallback(func(results []Settlement) {
		t.Fatalf("expected no settlement, got %d", len(results))
	})

	seller := &recordingOwner{}
	buyer := &recordingOwner{}
	_ = book.AddOrder(NewLimitOrder("ABC", 10, 100.0, SELL, seller))
	_ = book.AddOrder(NewLimitOrder("ABC", 10, 90.0, BUY, buyer))

	book.Trade(context.Background())

	// no qualifying level: the fallback average still gets published
	if price, _ := mkt.GetPriceForSymbol("ABC"); price != 95.0 {
		t.Errorf("expected fallback price 95.0 published, got %f", price)
	}
	if len(book.SellOrders("ABC")) != 1 || len(book.BuyOrders("ABC")) != 1 {
		t.Errorf("expected both orders held over to the next cycle")
	}
}

func TestTradeMarketBuyAgainstLimitSell(t *testing.T) {
	mkt := newTestMarket("ABC")
	book := NewBook(mkt, nil)

	seller := &recordingOwner{}
	buyer := &recordingOwner{}
	book.RegisterTradeCallback(func(results []Settlement) {
		t.Fatalf("expected no settlement, got %d", len(results))
	})

	_ = book.AddOrder(NewLimitOrder("ABC", 10, 40.0, SELL, seller))
	buy, err := NewMarketOrder("ABC", 10, BUY, true, buyer)
	if err != nil {
		t.Fatal(err)
	}
	_ = book.AddOrder(buy)

	book.Trade(context.Background())

	// the sentinel never qualifies against 40.0, so the cycle falls back to
	// the 20.0 average; the sell sits above it and the market buy below it,
	// so both survive the cycle unmatched
	if price, _ := mkt.GetPriceForSymbol("ABC"); price != 20.0 {
		t.Errorf("expected fallback price 20.0, got %f", price)
	}
	if len(book.SellOrders("ABC")) != 1 || len(book.BuyOrders("ABC")) != 1 {
		t.Errorf("expected both orders held over")
	}
}

func TestTradeFullRemovalOnImbalance(t *testing.T) {
	mkt := newTestMarket("ABC")
	book := NewBook(mkt, nil)

	seller := &recordingOwner{}
	buyer := &recordingOwner{}

	var settled []Settlement
	book.RegisterTradeCallback(func(results []Settlement) {
		settled = append(settled, results...)
	})

	_ = book.AddOrder(NewLimitOrder("ABC", 10, 40.0, SELL, seller))
	_ = book.AddOrder(NewLimitOrder("ABC", 20, 40.0, BUY, buyer))

	book.Trade(context.Background())

	// both orders clear whole: the buy settles its full 20 even though only
	// 10 shares were on offer
	if len(settled) != 2 {
		t.Fatalf("expected 2 settlements, got %d", len(settled))
	}
	var buyQty int64
	for _, s := range settled {
		if s.Side == BUY {
			buyQty = s.Qty
		}
	}
	if buyQty != 20 {
		t.Errorf("expected buy settled whole at qty 20, got %d", buyQty)
	}
	if n := len(book.SellOrders("ABC")) + len(book.BuyOrders("ABC")); n != 0 {
		t.Errorf("expected empty book, got %d pending", n)
	}
}

func TestTradeOwnerErrorDropsOrder(t *testing.T) {
	mkt := newTestMarket("ABC")
	book := NewBook(mkt, nil)

	seller := &recordingOwner{err: errors.New("ledger closed")}
	buyer := &recordingOwner{}

	var settled []Settlement
	book.RegisterTradeCallback(func(results []Settlement) {
		settled = append(settled, results...)
	})
	var failed []*Order
	book.RegisterFailureCallback(func(orders []*Order) {
		failed = append(failed, orders...)
	})

	_ = book.AddOrder(NewLimitOrder("ABC", 10, 40.0, SELL, seller))
	_ = book.AddOrder(NewLimitOrder("ABC", 10, 50.0, BUY, buyer))

	book.Trade(context.Background())

	// the failing side produces no settlement but still leaves the book
	if len(settled) != 1 || settled[0].Side != BUY {
		t.Fatalf("expected only the buy settlement, got %+v", settled)
	}
	if len(book.SellOrders("ABC")) != 0 {
		t.Errorf("expected failed sell removed from the book")
	}
	if len(failed) != 1 || failed[0].Side != SELL {
		t.Errorf("expected the sell reported as unsettled, got %+v", failed)
	}
}

func TestTradeSymbolsClearIndependently(t *testing.T) {
	mkt := newTestMarket("ABC", "XYZ")
	book := NewBook(mkt, nil)

	a := &recordingOwner{}
	b := &recordingOwner{}
	_ = book.AddOrder(NewLimitOrder("ABC", 10, 40.0, SELL, a))
	_ = book.AddOrder(NewLimitOrder("ABC", 10, 50.0, BUY, b))
	_ = book.AddOrder(NewLimitOrder("XYZ", 5, 70.0, BUY, b))

	book.Trade(context.Background())

	if price, _ := mkt.GetPriceForSymbol("ABC"); price != 40.0 {
		t.Errorf("expected ABC cleared at 40.0, got %f", price)
	}
	if price, _ := mkt.GetPriceForSymbol("XYZ"); price != 100.0 {
		t.Errorf("expected XYZ untouched at 100.0, got %f", price)
	}
	if len(book.BuyOrders("XYZ")) != 1 {
		t.Errorf("expected XYZ buy held over")
	}
}

func TestAddOrderUnknownSide(t *testing.T) {
	mkt := newTestMarket("ABC")
	book := NewBook(mkt, nil)

	order := NewLimitOrder("ABC", 10, 40.0, Side("HOLD"), &recordingOwner{})
	if err := book.AddOrder(order); err != ErrUnknownOrderSide {
		t.Fatalf("expected ErrUnknownOrderSide, got %v", err)
	}
}
