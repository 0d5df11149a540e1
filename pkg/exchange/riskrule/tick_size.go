package riskrule

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/joripage/stockmarket-dev/pkg/exchange/model"
)

type tickSizeConfig struct {
	MaxPrice int64 `json:"maxPrice"` // in cents, 0 = no limit
	Step     int64 `json:"step"`     // in cents
}

// TickSizeRule rejects limit prices off the configured tick grid. Prices are
// compared in cents; the first matching band applies.
type TickSizeRule struct {
	Config map[string][]tickSizeConfig
}

func NewTickSizeRuleFromFile(path string) (*TickSizeRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg map[string][]tickSizeConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &TickSizeRule{Config: cfg}, nil
}

func (r *TickSizeRule) Check(req *model.PlaceRequest) error {
	if req.MarketOrder {
		return nil
	}
	bands, ok := r.Config[req.Symbol]
	if !ok { // no config -> no rule
		return nil
	}

	cents := int64(math.Round(req.Price * 100))
	for _, band := range bands {
		if band.MaxPrice == 0 || cents <= band.MaxPrice {
			if cents%band.Step != 0 {
				return fmt.Errorf("invalid tick size: symbol=%s price=%f", req.Symbol, req.Price)
			}
			return nil
		}
	}

	return nil
}
