package reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrOverlap возвращается, когда интервал пересекается с другим бронированием (exclusion constraint)
	ErrOverlap = errors.New("reservation.repository: interval overlaps another reservation")

	// ErrDuplicateAccessCode возвращается, когда код доступа уже занят на этой машине
	ErrDuplicateAccessCode = errors.New("reservation.repository: access code already in use")

	// ErrStatusMismatch возвращается, когда условное обновление не нашло строку в ожидаемом статусе
	ErrStatusMismatch = errors.New("reservation.repository: reservation is not in the expected status")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
