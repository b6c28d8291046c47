package reservable

import (
	"context"
	"time"

	"github.com/m04kA/varaamo-core/internal/domain"
)

// Repository интерфейс репозитория интервалов работы
type Repository interface {
	ListOverlapping(ctx context.Context, resourceID string, start, end time.Time) ([]*domain.ReservableTimeSpan, error)
}
