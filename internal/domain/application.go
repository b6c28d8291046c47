package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/varaamo-core/pkg/types"
)

// ApplicationStatus is the lifecycle status of the application owning a section
type ApplicationStatus string

const (
	ApplicationStatusDraft        ApplicationStatus = "DRAFT"
	ApplicationStatusReceived     ApplicationStatus = "RECEIVED"
	ApplicationStatusInAllocation ApplicationStatus = "IN_ALLOCATION"
	ApplicationStatusHandled      ApplicationStatus = "HANDLED"
	ApplicationStatusResultsSent  ApplicationStatus = "RESULTS_SENT"
	ApplicationStatusExpired      ApplicationStatus = "EXPIRED"
	ApplicationStatusCancelled    ApplicationStatus = "CANCELLED"
)

// IsAllocatable returns true if sections of the application take part in allocation
func (s ApplicationStatus) IsAllocatable() bool {
	for _, allowed := range AllocatableApplicationStatuses {
		if s == allowed {
			return true
		}
	}
	return false
}

// Priority of a suitable time range
type Priority string

const (
	PriorityPrimary   Priority = "PRIMARY"
	PrioritySecondary Priority = "SECONDARY"
)

// Rank returns the sort rank of the priority, lower is preferred
func (p Priority) Rank() int {
	if p == PriorityPrimary {
		return 0
	}
	return 1
}

// ReservationUnitOption is an applicant's ranked preference for a unit
type ReservationUnitOption struct {
	ID                   int64
	ApplicationSectionID int64
	ReservationUnitID    int64
	PreferredOrder       int
	Locked               bool
	Rejected             bool
}

// IsAllocatable returns true if the option may receive new allocations
func (o *ReservationUnitOption) IsAllocatable() bool {
	return !o.Locked && !o.Rejected
}

// SuitableTimeRange is a weekly window the applicant could use
type SuitableTimeRange struct {
	ID                   int64
	ApplicationSectionID int64
	DayOfWeek            Weekday
	BeginTime            types.TimeString
	EndTime              types.TimeString
	Priority             Priority
}

// ApplicationSection is one applicant's request for recurring time within a round
type ApplicationSection struct {
	ID                         int64
	ApplicationID              int64
	ApplicationRoundID         int64
	ApplicationStatus          ApplicationStatus
	Name                       string
	NumPersons                 int
	ReservationsBeginDate      time.Time
	ReservationsEndDate        time.Time
	ReservationMinDuration     time.Duration
	ReservationMaxDuration     time.Duration
	AppliedReservationsPerWeek int

	Options            []ReservationUnitOption
	SuitableTimeRanges []SuitableTimeRange
}

// ValidatePreferredOrder checks that option preferred orders form a contiguous
// 0-based sequence without duplicates
func (s *ApplicationSection) ValidatePreferredOrder() error {
	orders := make([]int, len(s.Options))
	for i, o := range s.Options {
		orders[i] = o.PreferredOrder
	}
	sort.Ints(orders)
	for i, order := range orders {
		if order != i {
			return fmt.Errorf("section %d: preferred order must be a contiguous sequence starting at 0, got %v", s.ID, orders)
		}
	}
	return nil
}

// AllocatedTimeSlot is an allocation of a section's quota to a unit and weekly time
type AllocatedTimeSlot struct {
	ID                      int64
	ReservationUnitOptionID int64
	DayOfWeek               Weekday
	BeginTime               types.TimeString
	EndTime                 types.TimeString
	ReservationSeriesID     *int64

	// Заполняются при чтении через опцию
	ReservationUnitID    int64
	ApplicationSectionID int64

	CreatedAt time.Time
}

// IsMaterialized returns true when a reservation series was already generated
func (a *AllocatedTimeSlot) IsMaterialized() bool {
	return a.ReservationSeriesID != nil
}
