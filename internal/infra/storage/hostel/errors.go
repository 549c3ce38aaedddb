package hostel

import "errors"

var (
	// ErrHostelNotFound возвращается, когда общежитие не найдено
	ErrHostelNotFound = errors.New("hostel.repository: hostel not found")

	// ErrDuplicateName возвращается при попытке создать общежитие с существующим именем
	ErrDuplicateName = errors.New("hostel.repository: hostel name already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("hostel.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("hostel.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("hostel.repository: failed to scan row")
)
