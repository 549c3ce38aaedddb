package eventbus

import (
	"context"

	"github.com/m04kA/LaundryBookingService/internal/domain"
)

// NoopPublisher используется, когда публикация событий выключена в конфигурации
type NoopPublisher struct{}

// PublishReservation ничего не делает
func (NoopPublisher) PublishReservation(context.Context, EventType, *domain.Reservation) {}

// Close ничего не делает
func (NoopPublisher) Close() error { return nil }
