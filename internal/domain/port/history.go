package port

import "github.com/alejandrosejas/binance-bob-usdt/internal/domain/model"

// History is the bounded, timestamp-ordered retention of price records.
// Append is the only write path; reads return copies.
type History interface {
	Append(records ...model.PriceRecord)
	Latest(n int) []model.PriceRecord
	All() []model.PriceRecord
	Len() int
}
