package firstreservable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/varaamo-core/internal/domain"
)

var wednesday = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}

func openSpans(days ...time.Time) []domain.TimeSpan {
	spans := make([]domain.TimeSpan, 0, len(days))
	for _, d := range days {
		spans = append(spans, domain.TimeSpan{Start: at(d, 8, 0), End: at(d, 20, 0), IsReservable: true})
	}
	return spans
}

func baseInput() Input {
	return Input{
		Unit:            &domain.ReservationUnit{ID: 1, ReservationStartIntervalMinutes: 30},
		ReservableSpans: openSpans(wednesday),
		MinimumDuration: time.Hour,
		Now:             at(wednesday.AddDate(0, 0, -1), 12, 0),
		Location:        time.UTC,
	}
}

func TestResolve_ReservationWithBufferPushesStart(t *testing.T) {
	in := baseInput()
	in.Reservations = []domain.TimeSpan{{
		Start:       at(wednesday, 8, 0),
		End:         at(wednesday, 9, 0),
		BufferAfter: 30 * time.Minute,
	}}

	result := Resolve(in)

	assert.True(t, result.Found())
	assert.Equal(t, at(wednesday, 9, 30), result.StartTime)
}

func TestResolve_UnitBufferBeforeKeepsDistanceFromReservation(t *testing.T) {
	in := baseInput()
	in.Unit.BufferTimeBefore = 15 * time.Minute
	in.Reservations = []domain.TimeSpan{domain.NewTimeSpan(at(wednesday, 8, 0), at(wednesday, 9, 0))}

	result := Resolve(in)

	assert.Equal(t, StatusFound, result.Status)
	assert.Equal(t, at(wednesday, 9, 30), result.StartTime)
}

func TestResolve_NowInsideSpanSnapsToGrid(t *testing.T) {
	in := baseInput()
	in.Now = at(wednesday, 10, 7)

	result := Resolve(in)

	assert.Equal(t, StatusFound, result.Status)
	assert.Equal(t, at(wednesday, 10, 30), result.StartTime)
}

func TestResolve_Filter(t *testing.T) {
	thursday := wednesday.AddDate(0, 0, 1)

	t.Run("weekdays", func(t *testing.T) {
		in := baseInput()
		in.ReservableSpans = openSpans(wednesday, thursday)
		in.Filter = Filter{Weekdays: []domain.Weekday{domain.Thursday}}

		result := Resolve(in)
		assert.Equal(t, at(thursday, 8, 0), result.StartTime)
	})

	t.Run("time of day", func(t *testing.T) {
		in := baseInput()
		in.Filter = Filter{BeginTime: "12:00", EndTime: "14:00"}

		result := Resolve(in)
		assert.Equal(t, at(wednesday, 12, 0), result.StartTime)
	})

	t.Run("dates", func(t *testing.T) {
		in := baseInput()
		in.ReservableSpans = openSpans(wednesday, thursday)
		in.Filter = Filter{BeginDate: thursday, EndDate: thursday}

		result := Resolve(in)
		assert.Equal(t, at(thursday, 8, 0), result.StartTime)
	})

	t.Run("window outside opening hours", func(t *testing.T) {
		in := baseInput()
		in.Filter = Filter{BeginTime: "20:00", EndTime: "22:00"}

		result := Resolve(in)
		assert.Equal(t, StatusClosed, result.Status)
	})
}

func TestResolve_Closed(t *testing.T) {
	t.Run("no opening hours", func(t *testing.T) {
		in := baseInput()
		in.ReservableSpans = nil

		result := Resolve(in)
		assert.Equal(t, StatusClosed, result.Status)
		assert.True(t, result.StartTime.IsZero())
	})

	t.Run("closed spans cover opening hours", func(t *testing.T) {
		in := baseInput()
		in.ClosedSpans = []domain.TimeSpan{domain.NewTimeSpan(at(wednesday, 0, 0), at(wednesday, 23, 0))}

		result := Resolve(in)
		assert.Equal(t, StatusClosed, result.Status)
	})
}

func TestResolve_NoFit(t *testing.T) {
	t.Run("fully booked", func(t *testing.T) {
		in := baseInput()
		in.Reservations = []domain.TimeSpan{domain.NewTimeSpan(at(wednesday, 8, 0), at(wednesday, 20, 0))}

		result := Resolve(in)
		assert.Equal(t, StatusNoFit, result.Status)
	})

	t.Run("duration longer than opening hours", func(t *testing.T) {
		in := baseInput()
		in.MinimumDuration = 13 * time.Hour

		result := Resolve(in)
		assert.Equal(t, StatusNoFit, result.Status)
	})

	t.Run("unit maximum shorter than requested", func(t *testing.T) {
		in := baseInput()
		in.Unit.MaxReservationDuration = 30 * time.Minute

		result := Resolve(in)
		assert.Equal(t, StatusNoFit, result.Status)
	})

	t.Run("outside reservation horizon", func(t *testing.T) {
		in := baseInput()
		in.Now = at(wednesday.AddDate(0, 0, -10), 12, 0)
		in.Unit.ReservationsMaxDaysBefore = 3

		result := Resolve(in)
		assert.Equal(t, StatusNoFit, result.Status)
	})

	t.Run("gap too short between reservations", func(t *testing.T) {
		in := baseInput()
		in.Reservations = []domain.TimeSpan{
			domain.NewTimeSpan(at(wednesday, 8, 0), at(wednesday, 12, 0)),
			domain.NewTimeSpan(at(wednesday, 12, 30), at(wednesday, 20, 0)),
		}

		result := Resolve(in)
		assert.Equal(t, StatusNoFit, result.Status)
	})
}

func TestResolve_UnitMinimumDurationWins(t *testing.T) {
	in := baseInput()
	in.Unit.MinReservationDuration = 2 * time.Hour
	in.Reservations = []domain.TimeSpan{domain.NewTimeSpan(at(wednesday, 9, 30), at(wednesday, 20, 0))}

	// До 09:30 помещается только полтора часа
	result := Resolve(in)
	assert.Equal(t, StatusNoFit, result.Status)
}
