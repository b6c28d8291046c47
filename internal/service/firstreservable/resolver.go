package firstreservable

import (
	"time"

	"github.com/m04kA/varaamo-core/internal/domain"
)

type resolver struct {
	in          *Input
	loc         *time.Location
	minDuration time.Duration
	interval    time.Duration
	bufBefore   time.Duration
	bufAfter    time.Duration
}

// Resolve находит самое раннее допустимое время начала бронирования.
//
// Интервалы работы обрабатываются по возрастанию, первый подходящий побеждает.
// Закрытия и окно фильтра вычитаются жёстко: если после этого ничего не осталось
// ни в одном интервале, единица закрыта. Бронирования и ограничения по дням
// бронирования вычитаются мягко: если после этого ничего не подошло, результат
// StatusNoFit.
func Resolve(in Input) Result {
	r := newResolver(&in)

	spans := append([]domain.TimeSpan(nil), in.ReservableSpans...)
	domain.SortSpans(spans)

	open := make([]openSpan, 0, len(spans))
	for _, span := range spans {
		pieces := domain.SubtractSpans(r.applyFilter(span.WithoutBuffers()), withoutBuffers(in.ClosedSpans))
		if len(pieces) == 0 {
			continue
		}
		open = append(open, openSpan{origin: span.Start, pieces: pieces})
	}

	if len(open) == 0 {
		return Result{Status: StatusClosed}
	}

	// Максимальная длительность единицы короче запрошенной: единица открыта, но ничего не влезет
	if in.Unit.MaxReservationDuration > 0 && in.Unit.MaxReservationDuration < r.minDuration {
		return Result{Status: StatusNoFit}
	}

	for _, os := range open {
		for _, piece := range r.softNormalize(os.pieces) {
			if start, ok := r.fit(piece, os.origin); ok {
				return Result{Status: StatusFound, StartTime: start}
			}
		}
	}

	return Result{Status: StatusNoFit}
}

type openSpan struct {
	origin time.Time
	pieces []domain.TimeSpan
}

func newResolver(in *Input) *resolver {
	loc := in.Location
	if loc == nil {
		loc = time.Local
	}

	minDuration := in.MinimumDuration
	if in.Unit.MinReservationDuration > minDuration {
		minDuration = in.Unit.MinReservationDuration
	}
	if minDuration <= 0 {
		minDuration = in.Unit.StartInterval()
	}

	return &resolver{
		in:          in,
		loc:         loc,
		minDuration: minDuration,
		interval:    in.Unit.StartInterval(),
		bufBefore:   in.Unit.BufferTimeBefore,
		bufAfter:    in.Unit.BufferTimeAfter,
	}
}

// applyFilter оставляет от интервала только части внутри окна фильтра (по дням недели,
// времени суток и датам). Окно режется по локальным суткам.
func (r *resolver) applyFilter(span domain.TimeSpan) []domain.TimeSpan {
	f := r.in.Filter
	if len(f.Weekdays) == 0 && f.BeginTime.IsZero() && f.EndTime.IsZero() && f.BeginDate.IsZero() && f.EndDate.IsZero() {
		return []domain.TimeSpan{span}
	}

	allowed := make(map[domain.Weekday]bool, len(f.Weekdays))
	for _, w := range f.Weekdays {
		allowed[w] = true
	}

	result := make([]domain.TimeSpan, 0)
	first := startOfDay(span.Start, r.loc)
	for day := first; day.Before(span.End); day = day.AddDate(0, 0, 1) {
		if len(allowed) > 0 && !allowed[domain.WeekdayOf(day)] {
			continue
		}
		if !f.BeginDate.IsZero() && day.Before(startOfDay(f.BeginDate, r.loc)) {
			continue
		}
		if !f.EndDate.IsZero() && day.After(startOfDay(f.EndDate, r.loc)) {
			continue
		}

		windowStart, windowEnd := day, day.AddDate(0, 0, 1)
		if !f.BeginTime.IsZero() {
			windowStart = f.BeginTime.On(day, r.loc)
		}
		if !f.EndTime.IsZero() {
			windowEnd = f.EndTime.On(day, r.loc)
		}

		piece := span
		if windowStart.After(piece.Start) {
			piece.Start = windowStart
		}
		if windowEnd.Before(piece.End) {
			piece.End = windowEnd
		}
		if piece.IsValid() {
			result = append(result, piece)
		}
	}

	return result
}

// softNormalize вычитает занятое бронированиями время, время вне горизонта
// бронирования и отбрасывает куски короче минимальной длительности
func (r *resolver) softNormalize(pieces []domain.TimeSpan) []domain.TimeSpan {
	earliest, latest := r.horizon()

	pieces = domain.SubtractSpans(pieces, r.in.Reservations)

	result := make([]domain.TimeSpan, 0, len(pieces))
	for _, p := range pieces {
		if p.Start.Before(earliest) {
			p.Start = earliest
		}
		if !latest.IsZero() && p.End.After(latest) {
			p.End = latest
		}
		if !p.IsValid() || p.Duration() < r.minDuration {
			continue
		}
		result = append(result, p)
	}

	return result
}

// horizon возвращает границы, в которых вообще можно начинать бронирование.
// Нулевой latest означает отсутствие верхней границы.
func (r *resolver) horizon() (earliest, latest time.Time) {
	unit := r.in.Unit
	earliest = r.in.Now
	if unit.ReservationsMinDaysBefore > 0 {
		earliest = startOfDay(r.in.Now, r.loc).AddDate(0, 0, unit.ReservationsMinDaysBefore)
	}
	if unit.ReservationsMaxDaysBefore > 0 {
		latest = startOfDay(r.in.Now, r.loc).AddDate(0, 0, unit.ReservationsMaxDaysBefore+1)
	}
	return earliest, latest
}

// fit ищет первое время начала внутри piece с учётом буферов единицы
func (r *resolver) fit(piece domain.TimeSpan, origin time.Time) (time.Time, bool) {
	frontLimit, backLimit := r.bodyLimits(piece)

	start := piece.Start
	// Буфер перед бронированием не может заходить на тело соседнего бронирования
	if !frontLimit.IsZero() && start.Add(-r.bufBefore).Before(frontLimit) {
		start = frontLimit.Add(r.bufBefore)
	}

	start = snapToGrid(domain.CeilToMinute(start), origin, r.interval)

	candidate := domain.TimeSpan{
		Start:        start,
		End:          start.Add(r.minDuration),
		BufferBefore: r.bufBefore,
		BufferAfter:  r.bufAfter,
	}

	if candidate.End.After(piece.End) {
		return time.Time{}, false
	}

	// Бронирование может упираться в соседей только спереди, только сзади или с обеих сторон
	frontOK := frontLimit.IsZero() ||
		minutesBetween(frontLimit, candidate.End) >= candidate.FrontBufferedDurationMinutes()
	backOK := backLimit.IsZero() ||
		minutesBetween(candidate.Start, backLimit) >= candidate.BackBufferedDurationMinutes()
	bothOK := frontLimit.IsZero() || backLimit.IsZero() ||
		minutesBetween(frontLimit, backLimit) >= candidate.BufferedDurationMinutes()

	if !frontOK || !backOK || !bothOK {
		return time.Time{}, false
	}

	return candidate.Start, true
}

// bodyLimits возвращает ближайший конец тела бронирования слева от piece и
// ближайшее начало тела справа; нулевое значение - ограничения нет
func (r *resolver) bodyLimits(piece domain.TimeSpan) (front, back time.Time) {
	for _, res := range r.in.Reservations {
		if !res.End.After(piece.Start) && (front.IsZero() || res.End.After(front)) {
			front = res.End
		}
		if !res.Start.Before(piece.End) && (back.IsZero() || res.Start.Before(back)) {
			back = res.Start
		}
	}
	return front, back
}

// snapToGrid сдвигает t вперёд на ближайшую границу сетки, отсчитываемой от origin
func snapToGrid(t, origin time.Time, interval time.Duration) time.Time {
	if interval <= 0 || !t.After(origin) {
		return t
	}
	offset := t.Sub(origin) % interval
	if offset == 0 {
		return t
	}
	return t.Add(interval - offset)
}

func minutesBetween(from, to time.Time) int {
	return int(to.Sub(from) / time.Minute)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func withoutBuffers(spans []domain.TimeSpan) []domain.TimeSpan {
	result := make([]domain.TimeSpan, len(spans))
	for i, s := range spans {
		result[i] = s.WithoutBuffers()
	}
	return result
}
