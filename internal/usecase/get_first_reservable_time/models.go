package get_first_reservable_time

import (
	"time"

	"github.com/m04kA/varaamo-core/internal/domain"
	"github.com/m04kA/varaamo-core/internal/service/firstreservable"
)

// Request модель запроса первого свободного времени
type Request struct {
	ReservationUnitID int64
	MinimumDuration   time.Duration
	Filter            firstreservable.Filter
	ClosedSpans       []domain.TimeSpan
}

// Response модель ответа
type Response struct {
	Status    firstreservable.Status
	StartTime *time.Time // nil, если время не найдено
}
