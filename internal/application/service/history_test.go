package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrosejas/binance-bob-usdt/internal/domain/model"
)

func record(dir model.Direction, ts int64, price string) model.PriceRecord {
	p := decimal.RequireFromString(price)
	return model.PriceRecord{
		Price:     p,
		Range:     model.PriceRange{Highest: p, Lowest: p},
		Timestamp: ts,
		Direction: dir,
	}
}

func TestHistoryStoreAppendAndOrder(t *testing.T) {
	store := NewHistoryStore(10)

	store.Append(record(model.DirectionBuy, 1, "6.90"), record(model.DirectionSell, 1, "6.85"))
	store.Append(record(model.DirectionBuy, 2, "6.92"), record(model.DirectionSell, 2, "6.87"))

	all := store.All()
	require.Len(t, all, 4)
	assert.Equal(t, int64(1), all[0].Timestamp)
	assert.Equal(t, int64(2), all[3].Timestamp)
}

func TestHistoryStoreCap(t *testing.T) {
	store := NewHistoryStore(4)

	for ts := int64(1); ts <= 6; ts++ {
		store.Append(record(model.DirectionBuy, ts, "6.90"))
	}

	require.Equal(t, 4, store.Len())
	all := store.All()
	assert.Equal(t, int64(3), all[0].Timestamp, "oldest entries should be dropped first")
	assert.Equal(t, int64(6), all[3].Timestamp)
}

func TestHistoryStoreLatest(t *testing.T) {
	store := NewHistoryStore(10)

	assert.NotNil(t, store.Latest(2))
	assert.Empty(t, store.Latest(2))

	store.Append(record(model.DirectionBuy, 1, "6.90"))
	store.Append(record(model.DirectionBuy, 2, "6.91"), record(model.DirectionSell, 2, "6.86"))

	latest := store.Latest(2)
	require.Len(t, latest, 2)
	assert.Equal(t, int64(2), latest[0].Timestamp)
	assert.Equal(t, model.DirectionBuy, latest[0].Direction)
	assert.Equal(t, model.DirectionSell, latest[1].Direction)

	assert.Len(t, store.Latest(100), 3)
}

func TestHistoryStoreReadsAreCopies(t *testing.T) {
	store := NewHistoryStore(10)
	store.Append(record(model.DirectionBuy, 1, "6.90"))

	all := store.All()
	all[0].Timestamp = 999

	assert.Equal(t, int64(1), store.All()[0].Timestamp)
}

func TestHistoryStoreSeedRepairsSnapshot(t *testing.T) {
	store := NewHistoryStore(3)

	// Unsorted and over the cap, as a stale or edited snapshot might be.
	store.Seed([]model.PriceRecord{
		record(model.DirectionBuy, 5, "6.95"),
		record(model.DirectionBuy, 1, "6.91"),
		record(model.DirectionBuy, 4, "6.94"),
		record(model.DirectionBuy, 2, "6.92"),
		record(model.DirectionBuy, 3, "6.93"),
	})

	all := store.All()
	require.Len(t, all, 3)
	assert.Equal(t, int64(3), all[0].Timestamp)
	assert.Equal(t, int64(4), all[1].Timestamp)
	assert.Equal(t, int64(5), all[2].Timestamp)
}
