package exchange

import "errors"

var (
	ErrInsufficientFunds  = errors.New("trader doesn't have enough money")
	ErrInsufficientShares = errors.New("trader doesn't have enough stocks")
	ErrNotOwned           = errors.New("stock is not owned by trader")
	ErrDuplicateOrder     = errors.New("trader already has an order for this stock")
	ErrUnknownOrderType   = errors.New("unknown order type")
	ErrTraderNotFound     = errors.New("trader not found")
)
