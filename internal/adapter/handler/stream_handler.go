package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/alejandrosejas/binance-bob-usdt/internal/application/usecase"
)

// StreamHandler pushes price updates to clients over server-sent events.
type StreamHandler struct {
	uc     *usecase.PriceUseCase
	logger *slog.Logger
}

func NewStreamHandler(uc *usecase.PriceUseCase, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{uc: uc, logger: logger}
}

// Stream subscribes the client and writes one SSE data event per frame. The
// first frame is the current latest pair; subsequent frames arrive as cycles
// complete. The subscription ends when the client disconnects or the hub
// evicts the subscriber.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := h.uc.Subscribe()
	defer h.uc.Unsubscribe(sub)

	for {
		select {
		case <-r.Context().Done():
			return
		case frame, ok := <-sub.Updates():
			if !ok {
				return
			}
			data, err := json.Marshal(frame)
			if err != nil {
				h.logger.Error("failed to encode stream frame", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
