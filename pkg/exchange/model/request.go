package model

// PlaceRequest is a placement attempt as seen by the risk rules, before it
// reaches the trader lifecycle.
type PlaceRequest struct {
	Trader      string
	Symbol      string
	Side        string
	Volume      int64
	Price       float64
	MarketOrder bool
}
