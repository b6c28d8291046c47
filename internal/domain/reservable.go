package domain

import "time"

// ReservableTimeSpan is an open interval fetched from the opening-hours provider
type ReservableTimeSpan struct {
	ID         int64
	ResourceID string
	Start      time.Time
	End        time.Time
}

// TimeSpan converts the opening interval to the interval model
func (r *ReservableTimeSpan) TimeSpan() TimeSpan {
	return TimeSpan{Start: r.Start, End: r.End, IsReservable: true}
}

// AffectingTimeSpan is the cached buffer-inclusive footprint of an active reservation
type AffectingTimeSpan struct {
	ReservationID              int64
	AffectedReservationUnitIDs []int64
	BufferedStart              time.Time
	BufferedEnd                time.Time
	BufferTimeBefore           time.Duration
	BufferTimeAfter            time.Duration
	IsBlocking                 bool
}

// IsValid reports whether the row may still affect scheduling at now
func (a *AffectingTimeSpan) IsValid(now time.Time) bool {
	return a.BufferedEnd.After(now)
}

// Affects reports whether the span applies to any of the given units
func (a *AffectingTimeSpan) Affects(unitIDs []int64) bool {
	for _, affected := range a.AffectedReservationUnitIDs {
		for _, id := range unitIDs {
			if affected == id {
				return true
			}
		}
	}
	return false
}

// TimeSpan converts the row into the interval model.
// Blocking reservations own the whole time and are compared without buffers.
func (a *AffectingTimeSpan) TimeSpan() TimeSpan {
	span := TimeSpan{
		Start:        a.BufferedStart.Add(a.BufferTimeBefore),
		End:          a.BufferedEnd.Add(-a.BufferTimeAfter),
		BufferBefore: a.BufferTimeBefore,
		BufferAfter:  a.BufferTimeAfter,
	}
	if a.IsBlocking {
		return span.WithoutBuffers()
	}
	return span
}
