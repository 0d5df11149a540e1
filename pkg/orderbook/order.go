package orderbook

// Side of an order.
type Side string

const (
	SELL Side = "SELL"
	BUY  Side = "BUY"
)

// Owner is the party that placed an order. The book notifies it once per
// matched order during a clearing cycle so it can settle cash and position.
type Owner interface {
	TradePerformed(order *Order, matchPrice float64) error
}

// Order is a trade intent resident in the book until it clears. Size is the
// remaining unmatched quantity; settlement is the only mutator. Price 0.0 is
// reserved as the market-order sentinel, meaning match at whatever clearing
// price the cycle computes.
type Order struct {
	Symbol string
	Size   int64
	Price  float64
	Side   Side
	Market bool
	Owner  Owner
}

// NewLimitOrder builds an order at the caller-supplied limit price.
func NewLimitOrder(symbol string, size int64, price float64, side Side, owner Owner) *Order {
	return &Order{
		Symbol: symbol,
		Size:   size,
		Price:  price,
		Side:   side,
		Owner:  owner,
	}
}

// NewMarketOrder builds an order with no price limit. The flag is explicit:
// calling this without it is an order placed without a valid price.
func NewMarketOrder(symbol string, size int64, side Side, isMarketOrder bool, owner Owner) (*Order, error) {
	if !isMarketOrder {
		return nil, ErrInvalidOrder
	}
	return &Order{
		Symbol: symbol,
		Size:   size,
		Price:  0.0,
		Side:   side,
		Market: true,
		Owner:  owner,
	}, nil
}

// Filled reports whether the order has no remaining quantity.
func (o *Order) Filled() bool {
	return o.Size == 0
}
