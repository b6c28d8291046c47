package allocate_application_round

import (
	"strconv"

	allocateRound "github.com/m04kA/varaamo-core/internal/usecase/allocate_application_round"
)

// AllocationResponse HTTP response model
type AllocationResponse struct {
	ApplicationRoundID int64                   `json:"applicationRoundId"`
	DryRun             bool                    `json:"dryRun"`
	Slots              []AllocatedSlotResponse `json:"allocatedTimeSlots"`
	Unallocated        map[string]int          `json:"unallocated"` // id секции -> недораспределено в неделю
	SkippedSections    []int64                 `json:"skippedSections"`
}

// AllocatedSlotResponse выделенный слот
type AllocatedSlotResponse struct {
	ID                      int64  `json:"id"`
	ReservationUnitOptionID int64  `json:"reservationUnitOptionId"`
	ReservationUnitID       int64  `json:"reservationUnitId"`
	ApplicationSectionID    int64  `json:"applicationSectionId"`
	DayOfWeek               int    `json:"dayOfWeek"`
	BeginTime               string `json:"beginTime"`
	EndTime                 string `json:"endTime"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(roundID int64, dryRun bool, resp *allocateRound.Response) *AllocationResponse {
	slots := make([]AllocatedSlotResponse, len(resp.Slots))
	for i, s := range resp.Slots {
		slots[i] = AllocatedSlotResponse{
			ID:                      s.ID,
			ReservationUnitOptionID: s.ReservationUnitOptionID,
			ReservationUnitID:       s.ReservationUnitID,
			ApplicationSectionID:    s.ApplicationSectionID,
			DayOfWeek:               int(s.DayOfWeek),
			BeginTime:               s.BeginTime.String(),
			EndTime:                 s.EndTime.String(),
		}
	}

	unallocated := make(map[string]int, len(resp.Unallocated))
	for id, n := range resp.Unallocated {
		unallocated[strconv.FormatInt(id, 10)] = n
	}

	skipped := resp.SkippedSections
	if skipped == nil {
		skipped = []int64{}
	}

	return &AllocationResponse{
		ApplicationRoundID: roundID,
		DryRun:             dryRun,
		Slots:              slots,
		Unallocated:        unallocated,
		SkippedSections:    skipped,
	}
}
