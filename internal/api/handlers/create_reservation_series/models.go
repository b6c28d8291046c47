package create_reservation_series

import (
	"fmt"
	"time"

	"github.com/m04kA/varaamo-core/internal/api/handlers"
	"github.com/m04kA/varaamo-core/internal/domain"
	createSeries "github.com/m04kA/varaamo-core/internal/usecase/create_reservation_series"
	"github.com/m04kA/varaamo-core/pkg/types"
)

// CreateReservationSeriesRequest HTTP request model
type CreateReservationSeriesRequest struct {
	ReservationUnitID  int64                 `json:"reservationUnitId"`
	Name               string                `json:"name"`
	Description        string                `json:"description"`
	BeginDate          string                `json:"beginDate"`                  // "2024-01-01"
	EndDate            string                `json:"endDate"`                    // "2024-01-31"
	BeginTime          string                `json:"beginTime"`                  // "10:00"
	EndTime            string                `json:"endTime"`                    // "12:00"
	Weekdays           []int                 `json:"weekdays"`                   // 0 = понедельник
	RecurrenceInDays   int                   `json:"recurrenceInDays"`
	SkipDates          []string              `json:"skipDates,omitempty"`
	ClosedHours        []handlers.PeriodDTO  `json:"closedHours,omitempty"`
	BufferTimeBefore   *int                  `json:"bufferTimeBefore,omitempty"` // минуты
	BufferTimeAfter    *int                  `json:"bufferTimeAfter,omitempty"`  // минуты
	ReservationDetails ReservationDetailsDTO `json:"reservationDetails"`
	Policy             string                `json:"policy,omitempty"`
	RefreshStaleIndex  bool                  `json:"refreshStaleIndex,omitempty"`
}

// ReservationDetailsDTO общие поля бронирований серии
type ReservationDetailsDTO struct {
	Name         string `json:"name,omitempty"`
	Description  string `json:"description,omitempty"`
	ReserveeName string `json:"reserveeName,omitempty"`
	NumPersons   int    `json:"numPersons,omitempty"`
	State        string `json:"state,omitempty"`
	Type         string `json:"type,omitempty"`
}

// SeriesResponse HTTP response model
type SeriesResponse struct {
	ID                  int64                 `json:"id"`
	Name                string                `json:"name"`
	ReservationUnitID   int64                 `json:"reservationUnitId"`
	BeginDate           string                `json:"beginDate"`
	EndDate             string                `json:"endDate"`
	BeginTime           string                `json:"beginTime"`
	EndTime             string                `json:"endTime"`
	Weekdays            []int                 `json:"weekdays"`
	RecurrenceInDays    int                   `json:"recurrenceInDays"`
	AllocatedTimeSlotID *int64                `json:"allocatedTimeSlotId,omitempty"`
	Reservations        []ReservationResponse `json:"reservations"`
	Rejected            []RejectedResponse    `json:"rejectedOccurrences"`
	Outcome             string                `json:"outcome"`
	State               string                `json:"state"`
	CreatedAt           string                `json:"createdAt"`
}

// ReservationResponse созданное бронирование
type ReservationResponse struct {
	ID               int64  `json:"id"`
	ExtUUID          string `json:"extUuid"`
	Begin            string `json:"begin"`
	End              string `json:"end"`
	BufferTimeBefore int    `json:"bufferTimeBefore"`
	BufferTimeAfter  int    `json:"bufferTimeAfter"`
	State            string `json:"state"`
	Type             string `json:"type"`
}

// RejectedResponse отклонённое вхождение
type RejectedResponse struct {
	Begin  string `json:"begin"`
	End    string `json:"end"`
	Reason string `json:"reason"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationSeriesRequest) ToUseCaseRequest(loc *time.Location) (*createSeries.Request, error) {
	beginDate, err := time.ParseInLocation(domain.DateFormat, r.BeginDate, loc)
	if err != nil {
		return nil, fmt.Errorf("beginDate: %w", err)
	}
	endDate, err := time.ParseInLocation(domain.DateFormat, r.EndDate, loc)
	if err != nil {
		return nil, fmt.Errorf("endDate: %w", err)
	}

	beginTime, err := types.NewTimeStringFromString(r.BeginTime)
	if err != nil {
		return nil, fmt.Errorf("beginTime: %w", err)
	}
	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("endTime: %w", err)
	}

	skipDates, err := handlers.ParseDates(r.SkipDates, loc)
	if err != nil {
		return nil, fmt.Errorf("skipDates: %w", err)
	}
	closedHours, err := handlers.ToTimeSpans(r.ClosedHours)
	if err != nil {
		return nil, fmt.Errorf("closedHours: %w", err)
	}

	policy := createSeries.Policy(r.Policy)
	if policy == "" {
		policy = createSeries.PolicyFailFast
	}

	recurrence := r.RecurrenceInDays
	if recurrence == 0 {
		recurrence = domain.DefaultRecurrenceInDays
	}

	return &createSeries.Request{
		ReservationUnitID: r.ReservationUnitID,
		Name:              r.Name,
		Description:       r.Description,
		BeginDate:         beginDate,
		EndDate:           endDate,
		BeginTime:         beginTime,
		EndTime:           endTime,
		Weekdays:          handlers.ToWeekdays(r.Weekdays),
		RecurrenceInDays:  recurrence,
		SkipDates:         skipDates,
		ClosedHours:       closedHours,
		BufferTimeBefore:  handlers.MinutesPtr(r.BufferTimeBefore),
		BufferTimeAfter:   handlers.MinutesPtr(r.BufferTimeAfter),
		Details: domain.ReservationDetails{
			Name:         r.ReservationDetails.Name,
			Description:  r.ReservationDetails.Description,
			ReserveeName: r.ReservationDetails.ReserveeName,
			NumPersons:   r.ReservationDetails.NumPersons,
			State:        domain.ReservationState(r.ReservationDetails.State),
			Type:         domain.ReservationType(r.ReservationDetails.Type),
		},
		Policy:            policy,
		RefreshStaleIndex: r.RefreshStaleIndex,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createSeries.Response) *SeriesResponse {
	series := resp.Series

	weekdays := make([]int, len(series.Weekdays))
	for i, w := range series.Weekdays {
		weekdays[i] = int(w)
	}

	reservations := make([]ReservationResponse, len(resp.Reservations))
	for i, r := range resp.Reservations {
		reservations[i] = ReservationResponse{
			ID:               r.ID,
			ExtUUID:          r.ExtUUID.String(),
			Begin:            r.Begin.Format(time.RFC3339),
			End:              r.End.Format(time.RFC3339),
			BufferTimeBefore: int(r.BufferTimeBefore / time.Minute),
			BufferTimeAfter:  int(r.BufferTimeAfter / time.Minute),
			State:            string(r.State),
			Type:             string(r.Type),
		}
	}

	rejected := make([]RejectedResponse, len(resp.Rejected))
	for i, r := range resp.Rejected {
		rejected[i] = RejectedResponse{
			Begin:  r.BeginDatetime.Format(time.RFC3339),
			End:    r.EndDatetime.Format(time.RFC3339),
			Reason: string(r.RejectionReason),
		}
	}

	return &SeriesResponse{
		ID:                  series.ID,
		Name:                series.Name,
		ReservationUnitID:   series.ReservationUnitID,
		BeginDate:           series.BeginDate.Format(domain.DateFormat),
		EndDate:             series.EndDate.Format(domain.DateFormat),
		BeginTime:           series.BeginTime.String(),
		EndTime:             series.EndTime.String(),
		Weekdays:            weekdays,
		RecurrenceInDays:    series.RecurrenceInDays,
		AllocatedTimeSlotID: series.AllocatedTimeSlotID,
		Reservations:        reservations,
		Rejected:            rejected,
		Outcome:             string(resp.Outcome),
		State:               string(resp.State),
		CreatedAt:           series.CreatedAt.Format(time.RFC3339),
	}
}
