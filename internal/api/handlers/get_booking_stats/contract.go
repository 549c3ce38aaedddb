package get_booking_stats

import (
	"context"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	"github.com/m04kA/LaundryBookingService/internal/service/bookings/models"
)

type BookingService interface {
	Stats(ctx context.Context, actor domain.Actor) (*models.StatsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
