package service

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/alejandrosejas/binance-bob-usdt/internal/domain/model"
	"github.com/alejandrosejas/binance-bob-usdt/internal/domain/port"
)

// subscriberBuffer is the per-subscriber channel depth. A subscriber that
// falls this many frames behind is considered dead and evicted.
const subscriberBuffer = 8

// Subscriber is one live stream consumer. Frames arrive on Updates; the
// channel is closed when the subscriber is removed from the hub.
type Subscriber struct {
	id uuid.UUID
	ch chan []model.PriceRecord
}

func (s *Subscriber) ID() uuid.UUID { return s.id }

func (s *Subscriber) Updates() <-chan []model.PriceRecord { return s.ch }

// SubscriptionHub fans out record pairs to stream subscribers. Each new
// subscriber is primed with the most recent records before receiving live
// updates, and a slow subscriber is evicted without blocking the rest.
type SubscriptionHub struct {
	mu      sync.Mutex
	subs    map[uuid.UUID]*Subscriber
	history port.History
	logger  *slog.Logger
}

func NewSubscriptionHub(history port.History, logger *slog.Logger) *SubscriptionHub {
	return &SubscriptionHub{
		subs:    make(map[uuid.UUID]*Subscriber),
		history: history,
		logger:  logger,
	}
}

// Subscribe registers a new subscriber and queues its initial frame, the
// latest records at the time of registration. The frame is sent even when
// history is empty so the consumer always sees one event promptly.
func (h *SubscriptionHub) Subscribe() *Subscriber {
	sub := &Subscriber{
		id: uuid.New(),
		ch: make(chan []model.PriceRecord, subscriberBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	sub.ch <- h.history.Latest(2)
	h.subs[sub.id] = sub

	h.logger.Debug("subscriber joined", "id", sub.id, "total", len(h.subs))
	return sub
}

// Unsubscribe removes a subscriber and closes its channel. Calling it for an
// already-removed subscriber is a no-op.
func (h *SubscriptionHub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[sub.id]; !ok {
		return
	}
	delete(h.subs, sub.id)
	close(sub.ch)

	h.logger.Debug("subscriber left", "id", sub.id, "total", len(h.subs))
}

// Broadcast delivers a frame to every subscriber. A subscriber whose buffer
// is full is dropped on the spot so one stalled consumer cannot hold up the
// others.
func (h *SubscriptionHub) Broadcast(records []model.PriceRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, sub := range h.subs {
		select {
		case sub.ch <- records:
		default:
			delete(h.subs, id)
			close(sub.ch)
			h.logger.Warn("evicting stalled subscriber", "id", id)
		}
	}
}

func (h *SubscriptionHub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
