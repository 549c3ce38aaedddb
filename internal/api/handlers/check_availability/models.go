package check_availability

import (
	"net/url"
	"strconv"
	"time"

	checkAvailability "github.com/m04kA/LaundryBookingService/internal/usecase/check_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	MachineID                int64     `json:"machineId"`
	Start                    time.Time `json:"start"`
	End                      time.Time `json:"end"`
	Available                bool      `json:"available"`
	ConflictingReservationID *int64    `json:"conflictingReservationId,omitempty"`
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(machineID int64, query url.Values) (*checkAvailability.Request, error) {
	start, err := time.Parse(time.RFC3339, query.Get("start"))
	if err != nil {
		return nil, err
	}

	duration, err := strconv.Atoi(query.Get("durationMinutes"))
	if err != nil {
		return nil, err
	}

	return &checkAvailability.Request{
		MachineID:       machineID,
		StartTime:       start,
		DurationMinutes: duration,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkAvailability.Response) *AvailabilityResponse {
	return &AvailabilityResponse{
		MachineID:                resp.MachineID,
		Start:                    resp.StartTime,
		End:                      resp.EndTime,
		Available:                resp.Available,
		ConflictingReservationID: resp.ConflictingReservationID,
	}
}
