package reservation_unit

import "errors"

var (
	// ErrReservationUnitNotFound возвращается, когда единица бронирования не найдена
	ErrReservationUnitNotFound = errors.New("reservation_unit.repository: reservation unit not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation_unit.repository: failed to build query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation_unit.repository: failed to scan row")

	// ErrInvalidStartInterval возвращается, если у единицы недопустимый интервал начала
	ErrInvalidStartInterval = errors.New("reservation_unit.repository: invalid reservation start interval")

	// ErrInvalidCacheConfig возвращается при некорректных настройках кэша
	ErrInvalidCacheConfig = errors.New("reservation_unit.repository: invalid cache config")
)
