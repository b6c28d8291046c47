package allocate_application_round

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("allocate_application_round: invalid input data")

	// ErrInvalidSection возвращается, если у секции некорректный preferredOrder опций
	ErrInvalidSection = errors.New("allocate_application_round: invalid application section")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("allocate_application_round: internal error")
)
