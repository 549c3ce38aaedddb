package hostels

import (
	"context"

	"github.com/m04kA/LaundryBookingService/internal/domain"
)

// HostelRepository интерфейс репозитория общежитий
type HostelRepository interface {
	Create(ctx context.Context, h *domain.Hostel) (*domain.Hostel, error)
	GetByID(ctx context.Context, id int64) (*domain.Hostel, error)
	List(ctx context.Context) ([]*domain.Hostel, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
