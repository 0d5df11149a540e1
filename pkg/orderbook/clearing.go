package orderbook

// Price discovery for one symbol's batch auction.
//
// Each side is a cumulative-size step function of price, built as a running
// total while scanning from the aggressive end: supply cheapest first, so a
// level holds the volume sellable at-or-below that price; demand dearest
// first, so a level holds the volume buyable at-or-above it. The clearing
// price is the observed price level that maximizes the executable volume
// min(cumSupply, cumDemand).

type priceLevel struct {
	price float64
	cum   int64
}

// cumLevels collapses pre-sorted orders into distinct price levels carrying
// the running cumulative size.
func cumLevels(orders []*Order) []priceLevel {
	var levels []priceLevel
	var total int64
	for _, o := range orders {
		total += o.Size
		if n := len(levels); n > 0 && levels[n-1].price == o.Price {
			levels[n-1].cum = total
			continue
		}
		levels = append(levels, priceLevel{price: o.Price, cum: total})
	}
	return levels
}

// cumAtOrBelow evaluates an ascending level list at price p. No level at or
// below p means the side has no entry there.
func cumAtOrBelow(levels []priceLevel, p float64) (int64, bool) {
	var cum int64
	ok := false
	for _, lv := range levels {
		if lv.price > p {
			break
		}
		cum = lv.cum
		ok = true
	}
	return cum, ok
}

// cumAtOrAbove evaluates a descending level list at price p.
func cumAtOrAbove(levels []priceLevel, p float64) (int64, bool) {
	var cum int64
	ok := false
	for _, lv := range levels {
		if lv.price < p {
			break
		}
		cum = lv.cum
		ok = true
	}
	return cum, ok
}

// discoverPrice returns the raw clearing price together with every distinct
// price observed, in scan order: supply first, then demand. The result is
// 0.0 when no price level has an entry on both sides, or when the best level
// is the market-order sentinel itself; the caller applies the fallback.
// Supply must be sorted ascending by price and demand descending.
func discoverPrice(supply, demand []*Order) (float64, []float64) {
	supLevels := cumLevels(supply)
	demLevels := cumLevels(demand)

	seen := make(map[float64]bool)
	var prices []float64
	for _, o := range supply {
		if !seen[o.Price] {
			seen[o.Price] = true
			prices = append(prices, o.Price)
		}
	}
	for _, o := range demand {
		if !seen[o.Price] {
			seen[o.Price] = true
			prices = append(prices, o.Price)
		}
	}

	// A price only qualifies with a cumulative entry on both sides. Strict
	// improvement keeps the first maximizer in scan order.
	clearingPrice := 0.0
	bestVolume := int64(-1)
	for _, price := range prices {
		s, okS := cumAtOrBelow(supLevels, price)
		d, okD := cumAtOrAbove(demLevels, price)
		if !okS || !okD {
			continue
		}
		if v := min(s, d); v > bestVolume {
			bestVolume = v
			clearingPrice = price
		}
	}

	return clearingPrice, prices
}

// averagePrice is the fallback when discovery resolves to the market-order
// sentinel: the arithmetic mean of every distinct observed price, the 0.0
// sentinel included. A simplistic policy, kept deliberately.
func averagePrice(prices []float64) float64 {
	if len(prices) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, price := range prices {
		sum += price
	}
	return sum / float64(len(prices))
}
