package create_series_from_allocation

import "errors"

var (
	// ErrAllocatedSlotNotFound возвращается, когда выделенный слот не найден
	ErrAllocatedSlotNotFound = errors.New("create_series_from_allocation: allocated time slot not found")

	// ErrSectionNotFound возвращается, когда секция заявки слота не найдена
	ErrSectionNotFound = errors.New("create_series_from_allocation: application section not found")

	// ErrAlreadyMaterialized возвращается, если серия для слота уже создана
	ErrAlreadyMaterialized = errors.New("create_series_from_allocation: allocated time slot already has a reservation series")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_series_from_allocation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_series_from_allocation: internal error")
)
