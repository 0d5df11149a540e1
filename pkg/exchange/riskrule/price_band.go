package riskrule

import (
	"fmt"

	"github.com/joripage/stockmarket-dev/pkg/exchange/model"
)

type priceBand struct {
	floor float64
	ceil  float64
}

// PriceBandRule rejects limit prices outside the configured band per symbol.
// Market orders carry no price and pass through.
type PriceBandRule struct {
	bands map[string]*priceBand
}

func NewPriceBandRule() *PriceBandRule {
	return &PriceBandRule{
		bands: make(map[string]*priceBand),
	}
}

func (r *PriceBandRule) AddBand(symbol string, floor, ceil float64) {
	r.bands[symbol] = &priceBand{floor: floor, ceil: ceil}
}

func (r *PriceBandRule) Check(req *model.PlaceRequest) error {
	if req.MarketOrder {
		return nil
	}
	band, ok := r.bands[req.Symbol]
	if !ok {
		return nil
	}
	if req.Price > band.ceil || req.Price < band.floor {
		return fmt.Errorf("price limit violation: symbol=%s price=%f", req.Symbol, req.Price)
	}
	return nil
}
