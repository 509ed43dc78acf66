package handler

import (
	"encoding/json"
	"net/http"

	"github.com/alejandrosejas/binance-bob-usdt/internal/application/service"
	"github.com/alejandrosejas/binance-bob-usdt/internal/domain/port"
)

// HealthHandler reports service liveness plus the state of each backend and
// the outcome of the last polling cycle.
type HealthHandler struct {
	scheduler *service.Scheduler
	history   port.History
	snapshot  port.Snapshot
	archive   port.Archive
}

func NewHealthHandler(scheduler *service.Scheduler, history port.History, snapshot port.Snapshot, archive port.Archive) *HealthHandler {
	return &HealthHandler{
		scheduler: scheduler,
		history:   history,
		snapshot:  snapshot,
		archive:   archive,
	}
}

type healthResponse struct {
	Status    string              `json:"status"`
	History   int                 `json:"history_size"`
	LastCycle service.CycleStatus `json:"last_cycle"`
	Checks    map[string]string   `json:"checks"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		History:   h.history.Len(),
		LastCycle: h.scheduler.LastCycle(),
		Checks:    make(map[string]string),
	}

	if h.snapshot != nil {
		if err := h.snapshot.Ping(r.Context()); err != nil {
			resp.Checks["snapshot"] = err.Error()
			resp.Status = "degraded"
		} else {
			resp.Checks["snapshot"] = "ok"
		}
	}
	if h.archive != nil {
		if err := h.archive.Ping(r.Context()); err != nil {
			resp.Checks["archive"] = err.Error()
			resp.Status = "degraded"
		} else {
			resp.Checks["archive"] = "ok"
		}
	}
	if resp.LastCycle.Err != "" {
		resp.Status = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	if resp.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(resp)
}
