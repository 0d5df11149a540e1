package market

import "errors"

var (
	ErrUnknownSymbol = errors.New("symbol not listed in market")
)
