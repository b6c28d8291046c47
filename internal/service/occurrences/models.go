package occurrences

import (
	"time"

	"github.com/m04kA/varaamo-core/internal/domain"
	"github.com/m04kA/varaamo-core/pkg/types"
)

// Params описание повторения и флаги проверок
type Params struct {
	BeginDate        time.Time
	EndDate          time.Time
	BeginTime        types.TimeString
	EndTime          types.TimeString
	RecurrenceInDays int
	Weekdays         []domain.Weekday // пусто = день недели BeginDate

	SkipDates   []time.Time
	ClosedHours []domain.TimeSpan

	BufferTimeBefore     *time.Duration
	BufferTimeAfter      *time.Duration
	IgnoreReservationIDs []int64

	CheckOpeningHours  bool
	CheckBuffers       bool
	CheckStartInterval bool

	// Часовой пояс дат и времени суток, nil = time.Local
	Location *time.Location
}

// Rejection отклонённое вхождение с причиной
type Rejection struct {
	Span   domain.TimeSpan
	Reason domain.RejectionReason
}

// Result вхождения, разбитые по классам
type Result struct {
	Accepted             []domain.TimeSpan
	Overlapping          []domain.TimeSpan
	NotReservable        []domain.TimeSpan
	InvalidStartInterval []domain.TimeSpan
}

func (r *Result) AcceptedPeriods() []domain.Period {
	return domain.Periods(r.Accepted)
}

func (r *Result) OverlappingPeriods() []domain.Period {
	return domain.Periods(r.Overlapping)
}

func (r *Result) NotReservablePeriods() []domain.Period {
	return domain.Periods(r.NotReservable)
}

func (r *Result) InvalidStartIntervalPeriods() []domain.Period {
	return domain.Periods(r.InvalidStartInterval)
}

// Total количество всех вхождений
func (r *Result) Total() int {
	return len(r.Accepted) + len(r.Overlapping) + len(r.NotReservable) + len(r.InvalidStartInterval)
}

// HasRejections сообщает, отклонено ли хотя бы одно вхождение
func (r *Result) HasRejections() bool {
	return len(r.Overlapping)+len(r.NotReservable)+len(r.InvalidStartInterval) > 0
}

// Rejections возвращает все отклонённые вхождения в хронологическом порядке
func (r *Result) Rejections() []Rejection {
	rejections := make([]Rejection, 0, len(r.Overlapping)+len(r.NotReservable)+len(r.InvalidStartInterval))
	for _, s := range r.Overlapping {
		rejections = append(rejections, Rejection{Span: s, Reason: domain.RejectionOverlapping})
	}
	for _, s := range r.NotReservable {
		rejections = append(rejections, Rejection{Span: s, Reason: domain.RejectionReservationUnitClosed})
	}
	for _, s := range r.InvalidStartInterval {
		rejections = append(rejections, Rejection{Span: s, Reason: domain.RejectionIntervalNotAllowed})
	}
	sortRejections(rejections)
	return rejections
}
