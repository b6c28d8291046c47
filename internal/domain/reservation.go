package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReservationState represents the state of a reservation
type ReservationState string

const (
	StateCreated           ReservationState = "CREATED"
	StateCancelled         ReservationState = "CANCELLED"
	StateRequiresHandling  ReservationState = "REQUIRES_HANDLING"
	StateWaitingForPayment ReservationState = "WAITING_FOR_PAYMENT"
	StateConfirmed         ReservationState = "CONFIRMED"
	StateDenied            ReservationState = "DENIED"
)

// ReservationType represents who made the reservation and why
type ReservationType string

const (
	TypeNormal   ReservationType = "NORMAL"
	TypeBlocked  ReservationType = "BLOCKED"
	TypeStaff    ReservationType = "STAFF"
	TypeBehalf   ReservationType = "BEHALF"
	TypeSeasonal ReservationType = "SEASONAL"
)

// Reservation is one concrete occurrence.
type Reservation struct {
	ID                  int64
	ExtUUID             uuid.UUID
	Begin               time.Time
	End                 time.Time
	BufferTimeBefore    time.Duration
	BufferTimeAfter     time.Duration
	State               ReservationState
	Type                ReservationType
	ReservationUnitID   int64
	ReservationSeriesID *int64

	Name         string
	Description  string
	ReserveeName string
	NumPersons   int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAffecting returns true if the reservation blocks the unit's time
func (r *Reservation) IsAffecting() bool {
	for _, s := range AffectingStates {
		if r.State == s {
			return true
		}
	}
	return false
}

// IsBlocking returns true for administrative blocks
func (r *Reservation) IsBlocking() bool {
	return r.Type == TypeBlocked
}

// TimeSpan returns the reservation footprint; blocks carry no buffers.
func (r *Reservation) TimeSpan() TimeSpan {
	span := TimeSpan{Start: r.Begin, End: r.End}
	if r.IsBlocking() {
		return span
	}
	return span.WithBuffers(r.BufferTimeBefore, r.BufferTimeAfter)
}

// ReservationDetails are shared by every reservation generated for a series
type ReservationDetails struct {
	Name         string
	Description  string
	ReserveeName string
	NumPersons   int
	State        ReservationState
	Type         ReservationType
}
