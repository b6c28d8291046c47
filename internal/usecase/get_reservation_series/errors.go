package get_reservation_series

import "errors"

var (
	// ErrSeriesNotFound возвращается, когда серия не найдена
	ErrSeriesNotFound = errors.New("get_reservation_series: reservation series not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_reservation_series: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_reservation_series: internal error")
)
