package occurrences

import (
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/m04kA/varaamo-core/internal/domain"
)

// rruleWeekdays индексируется domain.Weekday (0 = понедельник)
var rruleWeekdays = [...]rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU}

// Dates разворачивает повторение в даты вхождений (полночь в часовом поясе параметров).
// Для каждого дня недели первая дата - ближайшая подходящая не раньше BeginDate,
// дальше шаг RecurrenceInDays, пока не превышена EndDate. Даты из SkipDates пропускаются.
func Dates(p Params) ([]time.Time, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}
	return expandDates(&p)
}

func expandDates(p *Params) ([]time.Time, error) {
	loc := p.location()
	begin := dateOnly(p.BeginDate, loc)
	end := dateOnly(p.EndDate, loc)

	weekdays := domain.NormalizeWeekdays(p.Weekdays)
	if len(weekdays) == 0 {
		weekdays = []domain.Weekday{domain.WeekdayOf(begin)}
	}

	skip := make(map[string]struct{}, len(p.SkipDates))
	for _, d := range p.SkipDates {
		skip[dateOnly(d, loc).Format(domain.DateFormat)] = struct{}{}
	}

	dates := make([]time.Time, 0)
	for _, w := range weekdays {
		// Неделя начинается с дня BeginDate, поэтому интервал считается от первой даты >= BeginDate
		rule, err := rrule.NewRRule(rrule.ROption{
			Freq:      rrule.WEEKLY,
			Interval:  p.RecurrenceInDays / domain.DaysInWeek,
			Wkst:      rruleWeekdays[domain.WeekdayOf(begin)],
			Byweekday: []rrule.Weekday{rruleWeekdays[w]},
			Dtstart:   begin,
			Until:     end,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: build rrule: %v", ErrInternal, err)
		}

		for _, d := range rule.All() {
			if _, skipped := skip[d.Format(domain.DateFormat)]; skipped {
				continue
			}
			dates = append(dates, d)
			if len(dates) > domain.MaxReservationsInSeries {
				return nil, fmt.Errorf("%w: more than %d", ErrTooManyOccurrences, domain.MaxReservationsInSeries)
			}
		}
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

func (p *Params) location() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

// dateOnly берёт календарную дату t как есть и ставит полночь в loc
func dateOnly(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
