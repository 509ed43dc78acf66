package port

import (
	"context"

	"github.com/alejandrosejas/binance-bob-usdt/internal/domain/model"
)

// Snapshot persists the retained history as one blob so a restart can pick
// up where the previous run left off. Load returns nil records when nothing
// has been persisted yet. Loaded blobs may be unsorted or over-cap; the
// history store repairs them on seed.
type Snapshot interface {
	Save(ctx context.Context, records []model.PriceRecord) error
	Load(ctx context.Context) ([]model.PriceRecord, error)
	Ping(ctx context.Context) error
	Close() error
}

// Archive is the append-only durable log of completed cycles.
type Archive interface {
	SaveRecords(ctx context.Context, records []model.PriceRecord) error
	Ping(ctx context.Context) error
	Close() error
}
