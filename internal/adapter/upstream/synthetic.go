package upstream

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alejandrosejas/binance-bob-usdt/internal/domain/model"
)

// SyntheticClient generates plausible listing prices with a random walk
// around a drifting mid price. Useful for local runs and demos when the real
// endpoint is unreachable or rate limited.
type SyntheticClient struct {
	mu   sync.Mutex
	rng  *rand.Rand
	mid  float64
	rows int
}

func NewSyntheticClient(rows int) *SyntheticClient {
	return &SyntheticClient{
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
		mid:  6.90,
		rows: rows,
	}
}

func (c *SyntheticClient) Name() string { return "synthetic" }

// FetchSamples produces rows listings. BUY listings sit above the mid and
// SELL listings below, each with a small random spread.
func (c *SyntheticClient) FetchSamples(_ context.Context, direction model.Direction) ([]model.PriceSample, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mid += (c.rng.Float64() - 0.5) * 0.04

	sign := 1.0
	if direction == model.DirectionSell {
		sign = -1.0
	}

	samples := make([]model.PriceSample, c.rows)
	for i := range samples {
		offset := sign * (0.02 + c.rng.Float64()*0.1)
		samples[i] = model.PriceSample{
			Price: decimal.NewFromFloat(c.mid + offset).Round(2),
		}
	}
	return samples, nil
}
