package create_series_from_allocation

import (
	"time"

	"github.com/m04kA/varaamo-core/internal/domain"
	"github.com/m04kA/varaamo-core/internal/usecase/create_reservation_series"
)

// Request модель запроса на создание серии из выделенного слота
type Request struct {
	AllocatedTimeSlotID int64
	ReserveeName        string

	SkipDates   []time.Time
	ClosedHours []domain.TimeSpan

	RefreshStaleIndex bool
}

// Response модель ответа, совпадает с ответом создания серии
type Response = create_reservation_series.Response
