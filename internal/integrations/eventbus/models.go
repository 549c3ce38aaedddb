package eventbus

import "time"

// EventType тип события жизненного цикла бронирования
type EventType string

const (
	ReservationCreated   EventType = "reservation.created"
	ReservationCompleted EventType = "reservation.completed"
	ReservationCancelled EventType = "reservation.cancelled"
)

// ReservationEvent событие, публикуемое после фиксации транзакции
type ReservationEvent struct {
	Type          EventType `json:"type"`
	ReservationID int64     `json:"reservationId"`
	UserID        int64     `json:"userId"`
	MachineID     int64     `json:"machineId"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	Amount        string    `json:"amount"`
	Status        string    `json:"status"`
	CancelledBy   *int64    `json:"cancelledBy,omitempty"`
	CancelReason  *string   `json:"cancelReason,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}
