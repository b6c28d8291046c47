package occurrences

import (
	"fmt"

	"github.com/m04kA/varaamo-core/internal/domain"
)

// Validate проверяет параметры повторения до генерации
func Validate(p Params) error {
	if p.RecurrenceInDays <= 0 || p.RecurrenceInDays%domain.DaysInWeek != 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidRecurrenceInDays, p.RecurrenceInDays)
	}

	for _, w := range p.Weekdays {
		if !w.IsValid() {
			return fmt.Errorf("%w: got %d", ErrInvalidWeekday, int(w))
		}
	}

	if p.BeginDate.IsZero() || p.EndDate.IsZero() {
		return fmt.Errorf("%w: begin and end dates are required", ErrBeginDateAfterEndDate)
	}
	if dateOnly(p.BeginDate, p.location()).After(dateOnly(p.EndDate, p.location())) {
		return fmt.Errorf("%w: %s > %s", ErrBeginDateAfterEndDate,
			p.BeginDate.Format(domain.DateFormat), p.EndDate.Format(domain.DateFormat))
	}

	if err := p.BeginTime.Validate(); err != nil {
		return fmt.Errorf("%w: begin time: %v", ErrInvalidTime, err)
	}
	if err := p.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: end time: %v", ErrInvalidTime, err)
	}
	if !p.BeginTime.IsBefore(p.EndTime) {
		return fmt.Errorf("%w: %s >= %s", ErrBeginTimeAfterEndTime, p.BeginTime, p.EndTime)
	}

	return nil
}
