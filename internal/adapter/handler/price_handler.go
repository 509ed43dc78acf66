package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/alejandrosejas/binance-bob-usdt/internal/application/usecase"
)

// PriceHandler serves the latest and history read endpoints.
type PriceHandler struct {
	uc     *usecase.PriceUseCase
	logger *slog.Logger
}

func NewPriceHandler(uc *usecase.PriceUseCase, logger *slog.Logger) *PriceHandler {
	return &PriceHandler{uc: uc, logger: logger}
}

// Latest returns the most recent record pair, one record per trade
// direction. Before the first successful cycle the array is empty.
func (h *PriceHandler) Latest(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.uc.Latest())
}

// History returns every retained record, oldest first.
func (h *PriceHandler) History(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.uc.History())
}

func (h *PriceHandler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
