package get_available_slots

import (
	"time"

	"github.com/m04kA/LaundryBookingService/internal/domain"
)

// Request модель запроса на получение свободных интервалов
type Request struct {
	MachineID int64     // ID машины
	Date      time.Time // Календарный день (время игнорируется)
}

// Response модель ответа: окно работы машины, разбитое на свободные и занятые интервалы.
// Free и Busy вместе покрывают Window без пропусков и наложений.
type Response struct {
	Date      time.Time
	MachineID int64
	Window    domain.Interval
	Free      []domain.Interval // В хронологическом порядке
	Busy      []domain.Interval // Объединённые занятые интервалы, обрезанные по окну
}
