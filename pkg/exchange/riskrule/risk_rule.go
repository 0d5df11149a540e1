package riskrule

import "github.com/joripage/stockmarket-dev/pkg/exchange/model"

// Rule vetoes a placement before it reaches the trader lifecycle.
type Rule interface {
	Check(req *model.PlaceRequest) error
}
