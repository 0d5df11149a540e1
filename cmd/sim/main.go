package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/joripage/stockmarket-dev/pkg/exchange"
	"github.com/joripage/stockmarket-dev/pkg/market"
	"github.com/joripage/stockmarket-dev/pkg/orderbook"
)

const (
	numTraders   = 100
	numCycles    = 50
	startingCash = 100_000.0
	minPrice     = 100.0
	maxPrice     = 200.0
	minQty       = 1
	maxQty       = 100
)

var symbols = []string{"ABC", "XYZ", "GOPH"}

func main() {
	logger, _ := zap.NewProduction()
	zap.ReplaceGlobals(logger)
	defer logger.Sync() // nolint

	rand.Seed(time.Now().UnixNano())
	ctx := context.Background()

	mkt := market.NewMarket()
	for _, sym := range symbols {
		mkt.AddStock(sym, sym+" Corp.", minPrice)
	}
	history := market.NewPriceHistory()
	mkt.AttachSink(history)

	ex := exchange.New(mkt)

	traders := make([]*exchange.Trader, 0, numTraders)
	for i := 0; i < numTraders; i++ {
		t := ex.RegisterTrader(fmt.Sprintf("trader-%03d", i), startingCash)
		traders = append(traders, t)

		// seed inventory so sellers exist from the first cycle
		sym := symbols[rand.Intn(len(symbols))]
		if err := t.BuyFromBank(mkt, sym, int64(rand.Intn(maxQty)+1)); err != nil {
			zap.S().Warnf("seed position fail trader=%s: %v", t.Name(), err)
		}
	}

	start := time.Now()
	for cycle := 0; cycle < numCycles; cycle++ {
		for _, t := range traders {
			placeRandomOrder(ctx, ex, t)
		}
		ex.RunCycle(ctx)
	}
	elapsed := time.Since(start)

	fmt.Printf("cycles=%d settlements=%d elapsed=%s\n", numCycles, ex.EventStore().Len(), elapsed)
	for _, sym := range symbols {
		if price, ok := history.LastPrice(sym); ok {
			fmt.Printf("%s last clearing price: %.2f (%d updates)\n", sym, price, len(history.PointsForSymbol(sym)))
		}
	}
}

func placeRandomOrder(ctx context.Context, ex *exchange.Exchange, t *exchange.Trader) {
	sym := symbols[rand.Intn(len(symbols))]
	volume := int64(rand.Intn(maxQty-minQty+1) + minQty)
	price := minPrice + rand.Float64()*(maxPrice-minPrice)
	price = float64(int(price*100)) / 100 // round to cents

	var err error
	if rand.Intn(2) == 0 {
		err = ex.PlaceOrder(ctx, t.Name(), sym, volume, price, orderbook.BUY)
	} else {
		err = ex.PlaceOrder(ctx, t.Name(), sym, volume, price, orderbook.SELL)
	}
	// validation rejects are part of normal traffic here
	_ = err
}
