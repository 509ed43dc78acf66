package service

import (
	"sort"
	"sync"

	"github.com/alejandrosejas/binance-bob-usdt/internal/domain/model"
)

// HistoryStore keeps the most recent price records in memory. The store is
// bounded: once the cap is reached the oldest entries are dropped. All reads
// return copies so callers can never observe later mutations.
type HistoryStore struct {
	mu      sync.RWMutex
	records []model.PriceRecord
	cap     int
}

func NewHistoryStore(cap int) *HistoryStore {
	return &HistoryStore{
		records: make([]model.PriceRecord, 0, cap),
		cap:     cap,
	}
}

// Append adds records in the order given and trims the oldest entries when
// the store exceeds its cap.
func (h *HistoryStore) Append(records ...model.PriceRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, records...)
	if over := len(h.records) - h.cap; over > 0 {
		h.records = append(h.records[:0], h.records[over:]...)
	}
}

// Latest returns up to n of the newest records, oldest first. The result is
// never nil.
func (h *HistoryStore) Latest(n int) []model.PriceRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n > len(h.records) {
		n = len(h.records)
	}
	out := make([]model.PriceRecord, n)
	copy(out, h.records[len(h.records)-n:])
	return out
}

// All returns a copy of every retained record, oldest first.
func (h *HistoryStore) All() []model.PriceRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]model.PriceRecord, len(h.records))
	copy(out, h.records)
	return out
}

func (h *HistoryStore) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}

// Seed replaces the store contents with a persisted snapshot. Snapshots may
// come from older runs or hand-edited files, so the records are re-sorted by
// timestamp and re-capped before use.
func (h *HistoryStore) Seed(records []model.PriceRecord) {
	sorted := make([]model.PriceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})
	if over := len(sorted) - h.cap; over > 0 {
		sorted = sorted[over:]
	}

	h.mu.Lock()
	h.records = sorted
	h.mu.Unlock()
}
