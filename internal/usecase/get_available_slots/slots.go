package get_available_slots

import "github.com/m04kA/LaundryBookingService/internal/domain"

// splitWindow делит окно работы на занятые и свободные интервалы.
//
// Занятые интервалы строятся по неотменённым бронированиям: обрезаются по окну,
// сортируются по началу и объединяются. Свободные интервалы это дополнение занятых
// внутри окна. Соседние бронирования (одно заканчивается там, где начинается другое)
// сливаются в один занятый интервал.
func splitWindow(window domain.Interval, reservations []*domain.Reservation) (free, busy []domain.Interval) {
	occupied := make([]domain.Interval, 0, len(reservations))
	for _, res := range reservations {
		if !res.OccupiesMachine() {
			continue
		}
		interval := res.Interval()
		if !interval.Overlaps(window) {
			continue
		}
		occupied = append(occupied, interval.Clip(window))
	}

	busy = domain.MergeIntervals(occupied)
	free = domain.Complement(window, busy)
	return free, busy
}
