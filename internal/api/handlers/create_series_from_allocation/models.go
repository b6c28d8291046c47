package create_series_from_allocation

import (
	"fmt"
	"time"

	"github.com/m04kA/varaamo-core/internal/api/handlers"
	fromAllocation "github.com/m04kA/varaamo-core/internal/usecase/create_series_from_allocation"
)

// CreateSeriesFromAllocationRequest HTTP request model, тело необязательно
type CreateSeriesFromAllocationRequest struct {
	ReserveeName      string               `json:"reserveeName,omitempty"`
	SkipDates         []string             `json:"skipDates,omitempty"`
	ClosedHours       []handlers.PeriodDTO `json:"closedHours,omitempty"`
	RefreshStaleIndex bool                 `json:"refreshStaleIndex,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateSeriesFromAllocationRequest) ToUseCaseRequest(slotID int64, loc *time.Location) (*fromAllocation.Request, error) {
	skipDates, err := handlers.ParseDates(r.SkipDates, loc)
	if err != nil {
		return nil, fmt.Errorf("skipDates: %w", err)
	}
	closedHours, err := handlers.ToTimeSpans(r.ClosedHours)
	if err != nil {
		return nil, fmt.Errorf("closedHours: %w", err)
	}

	return &fromAllocation.Request{
		AllocatedTimeSlotID: slotID,
		ReserveeName:        r.ReserveeName,
		SkipDates:           skipDates,
		ClosedHours:         closedHours,
		RefreshStaleIndex:   r.RefreshStaleIndex,
	}, nil
}
