package get_available_slots

import (
	"time"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/LaundryBookingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date      string     `json:"date"`
	MachineID int64      `json:"machineId"`
	Window    Interval   `json:"window"`
	Free      []Interval `json:"free"`
	Busy      []Interval `json:"busy"`
}

// Interval полуоткрытый интервал [start, end)
type Interval struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"durationMinutes"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	return &AvailableSlotsResponse{
		Date:      resp.Date.Format(domain.DateFormat),
		MachineID: resp.MachineID,
		Window:    fromDomainInterval(resp.Window),
		Free:      fromDomainIntervals(resp.Free),
		Busy:      fromDomainIntervals(resp.Busy),
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(machineID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		MachineID: machineID,
		Date:      date,
	}, nil
}

func fromDomainInterval(i domain.Interval) Interval {
	return Interval{
		Start:           i.Start,
		End:             i.End,
		DurationMinutes: int(i.Duration() / time.Minute),
	}
}

func fromDomainIntervals(intervals []domain.Interval) []Interval {
	result := make([]Interval, 0, len(intervals))
	for _, i := range intervals {
		result = append(result, fromDomainInterval(i))
	}
	return result
}
