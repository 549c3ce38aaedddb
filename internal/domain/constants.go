package domain

// Validation constants
const (
	MinMessageLength  = 1
	MaxMessageLength  = 1000
	MaxMachineNameLen = 255
	MaxHostelNameLen  = 255
	MaxNoteLength     = 500

	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// OccupyingStatuses statuses of reservations that hold their interval
var OccupyingStatuses = []ReservationStatus{
	ReservationConfirmed,
	ReservationCompleted,
}

// StatusStrings converts statuses to strings for SQL IN clauses
func StatusStrings(statuses []ReservationStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}
