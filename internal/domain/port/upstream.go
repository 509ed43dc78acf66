package port

import (
	"context"

	"github.com/alejandrosejas/binance-bob-usdt/internal/domain/model"
)

// Upstream fetches the raw listing prices for one trade direction.
// A single call is a single attempt: no retries, no backoff. The caller's
// cadence is the retry policy.
type Upstream interface {
	Name() string
	FetchSamples(ctx context.Context, direction model.Direction) ([]model.PriceSample, error)
}
