package wallet

import "errors"

var (
	// ErrUserNotFound возвращается, когда владелец кошелька не найден
	ErrUserNotFound = errors.New("wallet.repository: user not found")

	// ErrInsufficientFunds возвращается, когда баланса недостаточно для списания
	ErrInsufficientFunds = errors.New("wallet.repository: insufficient funds")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("wallet.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("wallet.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("wallet.repository: failed to scan row")
)
