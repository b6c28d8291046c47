package affecting

import "errors"

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("affecting.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("affecting.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("affecting.repository: failed to scan row")

	// ErrNeverRefreshed возвращается, если кэш ещё ни разу не строился
	ErrNeverRefreshed = errors.New("affecting.repository: index was never refreshed")
)
