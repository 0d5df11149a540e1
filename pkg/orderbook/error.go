package orderbook

import "errors"

var (
	ErrInvalidOrder     = errors.New("order placed without a valid price")
	ErrUnknownOrderSide = errors.New("unknown order side")
)
