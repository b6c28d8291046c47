package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/varaamo-core/pkg/ptr"
)

func TestReservationUnit_ActualBuffers(t *testing.T) {
	unit := &ReservationUnit{BufferTimeBefore: 15 * time.Minute, BufferTimeAfter: 30 * time.Minute}

	before, after := unit.ActualBuffers(nil, nil)
	assert.Equal(t, 15*time.Minute, before)
	assert.Equal(t, 30*time.Minute, after)

	// Переопределение не может быть меньше буфера единицы
	before, after = unit.ActualBuffers(ptr.Ptr(5*time.Minute), ptr.Ptr(time.Hour))
	assert.Equal(t, 15*time.Minute, before)
	assert.Equal(t, time.Hour, after)
}

func TestReservationUnit_IsOnStartInterval(t *testing.T) {
	unit := &ReservationUnit{ReservationStartIntervalMinutes: 30}

	assert.True(t, unit.IsOnStartInterval(at(10, 0)))
	assert.True(t, unit.IsOnStartInterval(at(10, 30)))
	assert.False(t, unit.IsOnStartInterval(at(10, 15)))
	assert.False(t, unit.IsOnStartInterval(at(10, 0).Add(time.Second)))

	defaults := &ReservationUnit{}
	assert.Equal(t, 15*time.Minute, defaults.StartInterval())
	assert.True(t, defaults.IsOnStartInterval(at(10, 45)))
}

func TestReservation_TimeSpan(t *testing.T) {
	r := &Reservation{
		Begin:            at(10, 0),
		End:              at(11, 0),
		BufferTimeBefore: 15 * time.Minute,
		BufferTimeAfter:  15 * time.Minute,
		Type:             TypeNormal,
		State:            StateConfirmed,
	}
	assert.Equal(t, at(9, 45), r.TimeSpan().BufferedStart())
	assert.True(t, r.IsAffecting())

	r.Type = TypeBlocked
	assert.Equal(t, at(10, 0), r.TimeSpan().BufferedStart())
	assert.Equal(t, at(11, 0), r.TimeSpan().BufferedEnd())

	r.State = StateCancelled
	assert.False(t, r.IsAffecting())
}

func TestAffectingTimeSpan(t *testing.T) {
	row := &AffectingTimeSpan{
		ReservationID:              1,
		AffectedReservationUnitIDs: []int64{1, 2},
		BufferedStart:              at(9, 45),
		BufferedEnd:                at(11, 30),
		BufferTimeBefore:           15 * time.Minute,
		BufferTimeAfter:            30 * time.Minute,
	}

	s := row.TimeSpan()
	assert.Equal(t, at(10, 0), s.Start)
	assert.Equal(t, at(11, 0), s.End)
	assert.True(t, row.Affects([]int64{2, 5}))
	assert.False(t, row.Affects([]int64{3}))
	assert.True(t, row.IsValid(at(11, 0)))
	assert.False(t, row.IsValid(at(11, 30)))

	row.IsBlocking = true
	assert.Equal(t, time.Duration(0), row.TimeSpan().BufferBefore)
}

func TestApplicationSection_ValidatePreferredOrder(t *testing.T) {
	section := &ApplicationSection{ID: 1, Options: []ReservationUnitOption{{PreferredOrder: 1}, {PreferredOrder: 0}}}
	assert.NoError(t, section.ValidatePreferredOrder())

	section.Options = append(section.Options, ReservationUnitOption{PreferredOrder: 3})
	assert.Error(t, section.ValidatePreferredOrder())

	section.Options = []ReservationUnitOption{{PreferredOrder: 0}, {PreferredOrder: 0}}
	assert.Error(t, section.ValidatePreferredOrder())
}

func TestReservationUnit_HasValidStartInterval(t *testing.T) {
	for _, minutes := range []int{0, 15, 30, 90, 420} {
		unit := &ReservationUnit{ReservationStartIntervalMinutes: minutes}
		assert.True(t, unit.HasValidStartInterval(), minutes)
	}
	for _, minutes := range []int{-15, 10, 45, 480} {
		unit := &ReservationUnit{ReservationStartIntervalMinutes: minutes}
		assert.False(t, unit.HasValidStartInterval(), minutes)
	}
}
