package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSamples means a direction returned zero parseable listings.
	// The whole cycle is discarded, same as a transport failure.
	ErrNoSamples = errors.New("no valid price samples")

	// ErrCycleInFlight is returned when a cycle is requested while the
	// previous one has not settled yet.
	ErrCycleInFlight = errors.New("ingest cycle already in flight")
)

// UpstreamError wraps a failed fetch for one direction. Status carries the
// upstream HTTP status when one was received, 0 otherwise. The scheduler
// treats every UpstreamError the same way; Status exists for logs and
// health reporting only.
type UpstreamError struct {
	Direction Direction
	Status    int
	Err       error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream fetch %s (status %d): %v", e.Direction, e.Status, e.Err)
	}
	return fmt.Sprintf("upstream fetch %s: %v", e.Direction, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
