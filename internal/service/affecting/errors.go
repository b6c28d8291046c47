package affecting

import "errors"

var (
	// ErrIndexStale возвращается, если кэш старше допустимого возраста и ему нельзя доверять
	ErrIndexStale = errors.New("affecting: index is stale, refresh required")

	// ErrRefreshFailed возвращается при ошибке пересборки кэша
	ErrRefreshFailed = errors.New("affecting: refresh failed")

	// ErrInternal возвращается при внутренних ошибках индекса
	ErrInternal = errors.New("affecting: internal error")
)
