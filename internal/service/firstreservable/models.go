package firstreservable

import (
	"time"

	"github.com/m04kA/varaamo-core/internal/domain"
	"github.com/m04kA/varaamo-core/pkg/types"
)

// Status исход поиска первого свободного времени
type Status string

const (
	// StatusFound найдено время начала
	StatusFound Status = "FOUND"
	// StatusNoFit единица открыта, но бронирование нужной длительности не помещается
	StatusNoFit Status = "NO_FIT"
	// StatusClosed в окне поиска нет открытого времени
	StatusClosed Status = "CLOSED"
)

// Filter окно поиска, заданное вызывающим (все поля необязательные)
type Filter struct {
	Weekdays  []domain.Weekday
	BeginTime types.TimeString
	EndTime   types.TimeString
	BeginDate time.Time
	EndDate   time.Time
}

// Input входные данные поиска для одной единицы
type Input struct {
	Unit *domain.ReservationUnit

	// Интервалы работы ресурса единицы
	ReservableSpans []domain.TimeSpan
	// Влияющие бронирования со своими буферами (у блокировок буферов нет)
	Reservations []domain.TimeSpan
	// Административные закрытия
	ClosedSpans []domain.TimeSpan

	MinimumDuration time.Duration
	Filter          Filter
	Now             time.Time
	Location        *time.Location
}

// Result результат поиска
type Result struct {
	Status    Status
	StartTime time.Time
}

// Found сообщает, найдено ли время
func (r Result) Found() bool {
	return r.Status == StatusFound
}
