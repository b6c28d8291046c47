package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/varaamo-core/internal/domain"
)

// PeriodDTO интервал времени в API (RFC3339)
type PeriodDTO struct {
	Begin string `json:"begin"`
	End   string `json:"end"`
}

// FromPeriods конвертирует доменные периоды в API модель
func FromPeriods(periods []domain.Period) []PeriodDTO {
	result := make([]PeriodDTO, len(periods))
	for i, p := range periods {
		result[i] = PeriodDTO{Begin: p.Begin.Format(time.RFC3339), End: p.End.Format(time.RFC3339)}
	}
	return result
}

// ToTimeSpans разбирает периоды API в интервалы без буферов
func ToTimeSpans(periods []PeriodDTO) ([]domain.TimeSpan, error) {
	spans := make([]domain.TimeSpan, 0, len(periods))
	for _, p := range periods {
		begin, err := time.Parse(time.RFC3339, p.Begin)
		if err != nil {
			return nil, fmt.Errorf("period begin %q: %w", p.Begin, err)
		}
		end, err := time.Parse(time.RFC3339, p.End)
		if err != nil {
			return nil, fmt.Errorf("period end %q: %w", p.End, err)
		}
		span := domain.NewTimeSpan(begin, end)
		if !span.IsValid() {
			return nil, fmt.Errorf("period %s..%s: begin must be before end", p.Begin, p.End)
		}
		spans = append(spans, span)
	}
	return spans, nil
}

// ParseDates разбирает даты в формате YYYY-MM-DD в часовом поясе loc
func ParseDates(values []string, loc *time.Location) ([]time.Time, error) {
	dates := make([]time.Time, 0, len(values))
	for _, v := range values {
		d, err := time.ParseInLocation(domain.DateFormat, v, loc)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// ToWeekdays конвертирует номера дней (0 = понедельник) в доменный тип
func ToWeekdays(values []int) []domain.Weekday {
	weekdays := make([]domain.Weekday, len(values))
	for i, v := range values {
		weekdays[i] = domain.Weekday(v)
	}
	return weekdays
}

// ParseWeekdaysQuery разбирает список дней недели вида "0,2,4"
func ParseWeekdaysQuery(raw string) ([]domain.Weekday, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	weekdays := make([]domain.Weekday, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("weekday %q: %w", part, err)
		}
		weekdays = append(weekdays, domain.Weekday(n))
	}
	return weekdays, nil
}

// MinutesPtr конвертирует минуты в длительность
func MinutesPtr(minutes *int) *time.Duration {
	if minutes == nil {
		return nil
	}
	d := time.Duration(*minutes) * time.Minute
	return &d
}
