package get_first_reservable_time

import "errors"

var (
	// ErrReservationUnitNotFound возвращается, когда единица бронирования не найдена
	ErrReservationUnitNotFound = errors.New("get_first_reservable_time: reservation unit not found")

	// ErrIndexStale возвращается, если индекс влияющих бронирований устарел
	ErrIndexStale = errors.New("get_first_reservable_time: affecting index is stale")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_first_reservable_time: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_first_reservable_time: internal error")
)
