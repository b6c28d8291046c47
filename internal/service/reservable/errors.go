package reservable

import "errors"

var (
	// ErrInvalidPeriod возвращается, если начало периода не раньше конца
	ErrInvalidPeriod = errors.New("reservable: period start must be before end")

	// ErrInternal возвращается при внутренних ошибках индекса
	ErrInternal = errors.New("reservable: internal error")
)
