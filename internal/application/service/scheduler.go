package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alejandrosejas/binance-bob-usdt/internal/domain/model"
	"github.com/alejandrosejas/binance-bob-usdt/internal/domain/port"
)

// CycleStatus records the outcome of the most recent polling cycle.
type CycleStatus struct {
	CompletedAt time.Time `json:"completed_at"`
	Err         string    `json:"error,omitempty"`
}

// Scheduler drives the polling loop: every interval it fetches both trade
// directions, aggregates them into a record pair sharing one timestamp, and
// publishes the pair to history, persistence and live subscribers. A cycle
// is all or nothing: if either direction fails, nothing is appended and
// nothing is broadcast.
type Scheduler struct {
	upstream port.Upstream
	history  port.History
	hub      *SubscriptionHub
	archive  port.Archive
	snapshot port.Snapshot
	logger   *slog.Logger
	interval time.Duration

	inFlight atomic.Bool
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	statusMu sync.RWMutex
	last     CycleStatus
}

// NewScheduler wires the polling loop. archive and snapshot may be nil when
// the corresponding backend is disabled.
func NewScheduler(
	upstream port.Upstream,
	history port.History,
	hub *SubscriptionHub,
	archive port.Archive,
	snapshot port.Snapshot,
	logger *slog.Logger,
	interval time.Duration,
) *Scheduler {
	return &Scheduler{
		upstream: upstream,
		history:  history,
		hub:      hub,
		archive:  archive,
		snapshot: snapshot,
		logger:   logger,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start launches the loop. The first cycle runs immediately, then every
// interval until Stop is called or ctx is cancelled. Ticks that land while a
// previous cycle is still running are skipped.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.runLogged(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runLogged(ctx)
			case <-s.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	s.logger.Info("scheduler started", "upstream", s.upstream.Name(), "interval", s.interval)
}

// Stop halts the loop and waits for any in-flight cycle to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runLogged(ctx context.Context) {
	if err := s.RunCycle(ctx); err != nil {
		if errors.Is(err, model.ErrCycleInFlight) {
			s.logger.Warn("previous cycle still running, skipping tick")
			return
		}
		s.logger.Error("cycle failed", "error", err)
	}
}

// RunCycle performs a single fetch-aggregate-publish pass. It returns
// ErrCycleInFlight if another cycle is already running.
func (s *Scheduler) RunCycle(ctx context.Context) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		return model.ErrCycleInFlight
	}
	defer s.inFlight.Store(false)

	ts := time.Now().UnixMilli()

	records := make([]model.PriceRecord, len(model.Directions))
	errs := make([]error, len(model.Directions))

	var wg sync.WaitGroup
	for i, dir := range model.Directions {
		wg.Add(1)
		go func(i int, dir model.Direction) {
			defer wg.Done()

			samples, err := s.upstream.FetchSamples(ctx, dir)
			if err != nil {
				errs[i] = err
				return
			}
			records[i], errs[i] = Aggregate(dir, ts, samples)
		}(i, dir)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		s.setStatus(err)
		return err
	}

	s.history.Append(records...)

	if s.archive != nil {
		if err := s.archive.SaveRecords(ctx, records); err != nil {
			s.logger.Error("failed to archive records", "error", err)
		}
	}
	if s.snapshot != nil {
		if err := s.snapshot.Save(ctx, s.history.All()); err != nil {
			s.logger.Error("failed to save snapshot", "error", err)
		}
	}

	s.hub.Broadcast(records)
	s.setStatus(nil)

	s.logger.Info("cycle completed",
		"buy", records[0].Price,
		"sell", records[1].Price,
		"history", s.history.Len(),
		"subscribers", s.hub.Count(),
	)
	return nil
}

// LastCycle reports the outcome of the most recent completed cycle.
func (s *Scheduler) LastCycle() CycleStatus {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.last
}

func (s *Scheduler) setStatus(err error) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()

	s.last = CycleStatus{CompletedAt: time.Now()}
	if err != nil {
		s.last.Err = err.Error()
	}
}
