package service

import (
	"github.com/alejandrosejas/binance-bob-usdt/internal/domain/model"
)

// Aggregate reduces the samples of one direction to a single record body.
// The representative price is the first sample: upstream orders listings by
// its own relevance (best offer first) and that ordering is preserved rather
// than averaged away. The range is the (max, min) across all samples.
//
// An empty sample list returns ErrNoSamples so the caller can fail the cycle
// instead of letting a zero-filled record into history.
func Aggregate(direction model.Direction, ts int64, samples []model.PriceSample) (model.PriceRecord, error) {
	if len(samples) == 0 {
		return model.PriceRecord{}, model.ErrNoSamples
	}

	first := samples[0].Price
	highest, lowest := first, first
	for _, s := range samples[1:] {
		if s.Price.GreaterThan(highest) {
			highest = s.Price
		}
		if s.Price.LessThan(lowest) {
			lowest = s.Price
		}
	}

	return model.PriceRecord{
		Price:     first,
		Range:     model.PriceRange{Highest: highest, Lowest: lowest},
		Timestamp: ts,
		Direction: direction,
	}, nil
}
