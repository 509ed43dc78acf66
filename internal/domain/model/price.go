package model

import "github.com/shopspring/decimal"

// Direction is the side of the P2P listing book being queried.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// Directions lists both sides in the order a cycle resolves them.
var Directions = []Direction{DirectionBuy, DirectionSell}

func (d Direction) Valid() bool {
	return d == DirectionBuy || d == DirectionSell
}

// PriceSample is a single raw listing price as returned by the upstream
// service, in the order the upstream sorted it. Samples only live for the
// duration of one ingestion cycle.
type PriceSample struct {
	Price decimal.Decimal
}

// PriceRange is the (max, min) spread observed across all samples of one
// direction within a cycle.
type PriceRange struct {
	Highest decimal.Decimal `json:"highest"`
	Lowest  decimal.Decimal `json:"lowest"`
}

// PriceRecord is the unit of retention and transmission: one aggregated
// observation for one direction. Timestamp is epoch milliseconds; both
// records of a completed cycle share it. Records are never mutated after
// creation.
type PriceRecord struct {
	Price     decimal.Decimal `json:"price"`
	Range     PriceRange      `json:"range"`
	Timestamp int64           `json:"timestamp"`
	Direction Direction       `json:"tradeType"`
}
