package application

import "errors"

var (
	// ErrSectionNotFound возвращается, когда секция заявки не найдена
	ErrSectionNotFound = errors.New("application.repository: application section not found")

	// ErrAllocatedSlotNotFound возвращается, когда выделенный слот не найден
	ErrAllocatedSlotNotFound = errors.New("application.repository: allocated time slot not found")

	// ErrSlotAlreadyMaterialized возвращается, если у слота уже есть серия
	ErrSlotAlreadyMaterialized = errors.New("application.repository: allocated time slot already has a reservation series")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("application.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("application.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("application.repository: failed to scan row")
)
