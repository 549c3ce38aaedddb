package check_availability

import "time"

// Request модель запроса проверки доступности интервала
type Request struct {
	MachineID       int64
	StartTime       time.Time
	DurationMinutes int
}

// Response модель ответа. ConflictingReservationID заполнен, если интервал занят.
type Response struct {
	MachineID                int64
	StartTime                time.Time
	EndTime                  time.Time
	Available                bool
	ConflictingReservationID *int64
}
