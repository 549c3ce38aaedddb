package create_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/LaundryBookingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	Actor           domain.Actor // Аутентифицированный пользователь, на которого оформляется бронь
	MachineID       int64        // ID машины
	StartTime       time.Time    // Начало интервала
	DurationMinutes int          // Длительность в минутах
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	UserID          int64
	MachineID       int64
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	Amount          decimal.Decimal
	Status          string
	AccessCode      string
	BalanceAfter    decimal.Decimal // Баланс кошелька после списания
	CreatedAt       time.Time
}

// Settings доменные настройки создания бронирований
type Settings struct {
	Location           *time.Location // Часовой пояс окон работы машин
	MaxDurationMinutes int
	AccessCodeAttempts int
}
