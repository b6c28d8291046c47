package accesscode

import "errors"

var (
	// ErrDisabled возвращается, если URL сервиса не настроен
	ErrDisabled = errors.New("accesscode client: integration disabled")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("accesscode client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("accesscode client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Код будет запрошен повторно внешним воркером
	ErrServiceDegraded = errors.New("accesscode service unavailable: graceful degradation applied")
)
