package domain

import "time"

// AccessType defines how a reservee gets into the reserved space.
type AccessType string

const (
	AccessTypeUnrestricted  AccessType = "UNRESTRICTED"
	AccessTypePhysicalKey   AccessType = "PHYSICAL_KEY"
	AccessTypeOpenedByStaff AccessType = "OPENED_BY_STAFF"
	AccessTypeAccessCode    AccessType = "ACCESS_CODE"
)

// ReservationUnit is externally managed master data; the core only reads it.
type ReservationUnit struct {
	ID                     int64
	Name                   string
	OpeningHoursResourceID string // Hauki resource, empty when opening hours are not managed
	BufferTimeBefore       time.Duration
	BufferTimeAfter        time.Duration

	ReservationStartIntervalMinutes int
	MinReservationDuration          time.Duration // 0 = no minimum
	MaxReservationDuration          time.Duration // 0 = no maximum
	ReservationsMinDaysBefore       int
	ReservationsMaxDaysBefore       int // 0 = unlimited

	AccessType  AccessType
	ResourceIDs []int64 // shared physical resources; units sharing one affect each other
}

// StartInterval returns the configured start interval, defaulting to 15 minutes.
func (u *ReservationUnit) StartInterval() time.Duration {
	if u.ReservationStartIntervalMinutes <= 0 {
		return MinStartIntervalMinutes * time.Minute
	}
	return time.Duration(u.ReservationStartIntervalMinutes) * time.Minute
}

// HasValidStartInterval reports whether the configured interval is unset or one of ValidStartIntervals.
func (u *ReservationUnit) HasValidStartInterval() bool {
	if u.ReservationStartIntervalMinutes == 0 {
		return true
	}
	for _, minutes := range ValidStartIntervals {
		if minutes == u.ReservationStartIntervalMinutes {
			return true
		}
	}
	return false
}

// IsOnStartInterval reports whether t starts on the unit's start-interval grid,
// measured from local midnight.
func (u *ReservationUnit) IsOnStartInterval(t time.Time) bool {
	minutes := t.Hour()*60 + t.Minute()
	if t.Second() != 0 || t.Nanosecond() != 0 {
		return false
	}
	return minutes%int(u.StartInterval()/time.Minute) == 0
}

// RequiresAccessCode reports whether reservations of the unit need an access code.
func (u *ReservationUnit) RequiresAccessCode() bool {
	return u.AccessType == AccessTypeAccessCode
}

// ActualBuffers returns the buffers used for a new reservation: an override
// never goes below the unit's own buffer.
func (u *ReservationUnit) ActualBuffers(overrideBefore, overrideAfter *time.Duration) (time.Duration, time.Duration) {
	before, after := u.BufferTimeBefore, u.BufferTimeAfter
	if overrideBefore != nil && *overrideBefore > before {
		before = *overrideBefore
	}
	if overrideAfter != nil && *overrideAfter > after {
		after = *overrideAfter
	}
	return before, after
}
