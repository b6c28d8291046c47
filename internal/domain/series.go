package domain

import (
	"time"

	"github.com/m04kA/varaamo-core/pkg/types"
)

// RejectionReason explains why an occurrence did not become a reservation
type RejectionReason string

const (
	RejectionOverlapping           RejectionReason = "OVERLAPPING_RESERVATIONS"
	RejectionReservationUnitClosed RejectionReason = "RESERVATION_UNIT_CLOSED"
	RejectionIntervalNotAllowed    RejectionReason = "INTERVAL_NOT_ALLOWED"
)

// ReservationSeries is the generating definition of a recurring set of reservations
type ReservationSeries struct {
	ID                  int64
	Name                string
	Description         string
	BeginDate           time.Time
	EndDate             time.Time
	BeginTime           types.TimeString
	EndTime             types.TimeString
	Weekdays            []Weekday
	RecurrenceInDays    int
	ReservationUnitID   int64
	AllocatedTimeSlotID *int64

	CreatedAt time.Time
}

// RejectedOccurrence is a write-once record of an occurrence that could not be reserved
type RejectedOccurrence struct {
	ID                  int64
	BeginDatetime       time.Time
	EndDatetime         time.Time
	RejectionReason     RejectionReason
	ReservationSeriesID int64
	CreatedAt           time.Time
}
