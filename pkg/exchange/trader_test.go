package exchange

import (
	"testing"

	"github.com/joripage/stockmarket-dev/pkg/market"
	"github.com/joripage/stockmarket-dev/pkg/orderbook"
)

func newTestMarket() *market.Market {
	mkt := market.NewMarket()
	mkt.AddStock("ABC", "ABC Corp", 10.0)
	mkt.AddStock("XYZ", "XYZ Corp", 50.0)
	return mkt
}

func TestBuyFromBank(t *testing.T) {
	mkt := newTestMarket()
	trader := NewTrader("alice", 100.0)

	if err := trader.BuyFromBank(mkt, "ABC", 5); err != nil {
		t.Fatal(err)
	}
	if got := trader.Cash(); got != 50.0 {
		t.Errorf("expected cash 50.0 after purchase, got %f", got)
	}
	if got := trader.SharesOwned("ABC"); got != 5 {
		t.Errorf("expected 5 shares, got %d", got)
	}
}

func TestBuyFromBankInsufficientFunds(t *testing.T) {
	mkt := newTestMarket()
	trader := NewTrader("alice", 40.0)

	if err := trader.BuyFromBank(mkt, "ABC", 5); err != ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := trader.Cash(); got != 40.0 {
		t.Errorf("expected cash untouched at 40.0, got %f", got)
	}
}

func TestBuyFromBankUnknownSymbol(t *testing.T) {
	mkt := newTestMarket()
	trader := NewTrader("alice", 100.0)

	if err := trader.BuyFromBank(mkt, "NOPE", 1); err != market.ErrUnknownSymbol {
		t.Fatalf("expected ErrUnknownSymbol, got %v", err)
	}
}

func TestPlaceOrderBuyInsufficientFunds(t *testing.T) {
	mkt := newTestMarket()
	book := orderbook.NewBook(mkt, nil)
	trader := NewTrader("alice", 40.0)

	// affordability is judged at the current market price of 10.0
	err := trader.PlaceOrder(mkt, book, "ABC", 5, 1.0, orderbook.BUY)
	if err != ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestPlaceOrderDuplicate(t *testing.T) {
	mkt := newTestMarket()
	book := orderbook.NewBook(mkt, nil)
	trader := NewTrader("alice", 1000.0)

	if err := trader.PlaceOrder(mkt, book, "ABC", 5, 9.0, orderbook.BUY); err != nil {
		t.Fatal(err)
	}
	err := trader.PlaceOrder(mkt, book, "ABC", 5, 9.5, orderbook.BUY)
	if err != ErrDuplicateOrder {
		t.Fatalf("expected ErrDuplicateOrder, got %v", err)
	}
	if got := len(trader.PendingOrders()); got != 1 {
		t.Errorf("expected 1 pending order, got %d", got)
	}
}

func TestPlaceOrderSellNotOwned(t *testing.T) {
	mkt := newTestMarket()
	book := orderbook.NewBook(mkt, nil)
	trader := NewTrader("alice", 1000.0)

	err := trader.PlaceOrder(mkt, book, "ABC", 5, 11.0, orderbook.SELL)
	if err != ErrNotOwned {
		t.Fatalf("expected ErrNotOwned, got %v", err)
	}
}

func TestPlaceOrderSellInsufficientShares(t *testing.T) {
	mkt := newTestMarket()
	book := orderbook.NewBook(mkt, nil)
	trader := NewTrader("alice", 1000.0)

	if err := trader.BuyFromBank(mkt, "ABC", 5); err != nil {
		t.Fatal(err)
	}
	err := trader.PlaceOrder(mkt, book, "ABC", 10, 11.0, orderbook.SELL)
	if err != ErrInsufficientShares {
		t.Fatalf("expected ErrInsufficientShares, got %v", err)
	}
}

func TestTradePerformedBuy(t *testing.T) {
	mkt := newTestMarket()
	book := orderbook.NewBook(mkt, nil)
	trader := NewTrader("alice", 1000.0)

	if err := trader.PlaceOrder(mkt, book, "ABC", 10, 12.0, orderbook.BUY); err != nil {
		t.Fatal(err)
	}
	order := trader.PendingOrders()[0]

	// settlement flows at the clearing price, not the 12.0 limit
	if err := trader.TradePerformed(order, 11.0); err != nil {
		t.Fatal(err)
	}
	if got := trader.Cash(); got != 890.0 {
		t.Errorf("expected cash 890.0, got %f", got)
	}
	if got := trader.SharesOwned("ABC"); got != 10 {
		t.Errorf("expected 10 shares, got %d", got)
	}
	if got := len(trader.PendingOrders()); got != 0 {
		t.Errorf("expected no pending orders, got %d", got)
	}
}

func TestTradePerformedSellReducesOldestLots(t *testing.T) {
	mkt := newTestMarket()
	book := orderbook.NewBook(mkt, nil)
	trader := NewTrader("alice", 1000.0)

	if err := trader.BuyFromBank(mkt, "ABC", 5); err != nil {
		t.Fatal(err)
	}
	if err := trader.BuyFromBank(mkt, "XYZ", 2); err != nil {
		t.Fatal(err)
	}
	if err := trader.BuyFromBank(mkt, "ABC", 5); err != nil {
		t.Fatal(err)
	}
	cashBefore := trader.Cash()

	if err := trader.PlaceOrder(mkt, book, "ABC", 7, 10.0, orderbook.SELL); err != nil {
		t.Fatal(err)
	}
	order := trader.PendingOrders()[0]
	if err := trader.TradePerformed(order, 10.0); err != nil {
		t.Fatal(err)
	}

	if got := trader.Cash(); got != cashBefore+70.0 {
		t.Errorf("expected cash %f, got %f", cashBefore+70.0, got)
	}
	if got := trader.SharesOwned("ABC"); got != 3 {
		t.Errorf("expected 3 shares left, got %d", got)
	}
	// the first ABC lot is exhausted and dropped; the XYZ lot is untouched
	lots := trader.Position()
	if len(lots) != 2 {
		t.Fatalf("expected 2 lots, got %d", len(lots))
	}
	if got := trader.SharesOwned("XYZ"); got != 2 {
		t.Errorf("expected XYZ lot untouched, got %d", got)
	}
}

func TestTradePerformedUnknownSide(t *testing.T) {
	trader := NewTrader("alice", 100.0)
	order := orderbook.NewLimitOrder("ABC", 1, 10.0, orderbook.Side("HOLD"), trader)

	if err := trader.TradePerformed(order, 10.0); err != ErrUnknownOrderType {
		t.Fatalf("expected ErrUnknownOrderType, got %v", err)
	}
}

func TestPlaceMarketOrderBuyInsufficientFunds(t *testing.T) {
	mkt := newTestMarket()
	book := orderbook.NewBook(mkt, nil)
	trader := NewTrader("alice", 40.0)

	err := trader.PlaceMarketOrder(mkt, book, "ABC", 5, orderbook.BUY)
	if err != ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestPlaceMarketOrderSellUnchecked(t *testing.T) {
	mkt := newTestMarket()
	book := orderbook.NewBook(mkt, nil)
	trader := NewTrader("alice", 40.0)

	// market sells carry no ownership check
	if err := trader.PlaceMarketOrder(mkt, book, "ABC", 5, orderbook.SELL); err != nil {
		t.Fatal(err)
	}
	if got := len(book.SellOrders("ABC")); got != 1 {
		t.Errorf("expected market sell in the book, got %d", got)
	}
}
