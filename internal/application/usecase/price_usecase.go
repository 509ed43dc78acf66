package usecase

import (
	"github.com/alejandrosejas/binance-bob-usdt/internal/application/service"
	"github.com/alejandrosejas/binance-bob-usdt/internal/domain/model"
	"github.com/alejandrosejas/binance-bob-usdt/internal/domain/port"
)

// PriceUseCase exposes the read side of the feed to HTTP handlers.
type PriceUseCase struct {
	history port.History
	hub     *service.SubscriptionHub
}

func NewPriceUseCase(history port.History, hub *service.SubscriptionHub) *PriceUseCase {
	return &PriceUseCase{history: history, hub: hub}
}

// Latest returns the most recent record pair, one per trade direction.
func (uc *PriceUseCase) Latest() []model.PriceRecord {
	return uc.history.Latest(2)
}

// History returns every retained record, oldest first.
func (uc *PriceUseCase) History() []model.PriceRecord {
	return uc.history.All()
}

func (uc *PriceUseCase) Subscribe() *service.Subscriber {
	return uc.hub.Subscribe()
}

func (uc *PriceUseCase) Unsubscribe(sub *service.Subscriber) {
	uc.hub.Unsubscribe(sub)
}
