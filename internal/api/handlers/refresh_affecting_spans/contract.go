package refresh_affecting_spans

import (
	"context"
	"time"
)

type AffectingIndex interface {
	Refresh(ctx context.Context) error
	RefreshedAt(ctx context.Context) (time.Time, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
