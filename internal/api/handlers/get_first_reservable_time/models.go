package get_first_reservable_time

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/varaamo-core/internal/api/handlers"
	"github.com/m04kA/varaamo-core/internal/domain"
	"github.com/m04kA/varaamo-core/internal/service/firstreservable"
	firstReservable "github.com/m04kA/varaamo-core/internal/usecase/get_first_reservable_time"
	"github.com/m04kA/varaamo-core/pkg/ptr"
	"github.com/m04kA/varaamo-core/pkg/types"
)

// FirstReservableTimeResponse HTTP response model
type FirstReservableTimeResponse struct {
	ReservationUnitID   int64   `json:"reservationUnitId"`
	Status              string  `json:"status"`
	FirstReservableTime *string `json:"firstReservableTime"`
}

// ToUseCaseRequest разбирает query параметры:
// minimumDuration (минуты), weekdays ("0,2"), beginTime, endTime (HH:MM), beginDate, endDate (YYYY-MM-DD)
func ToUseCaseRequest(unitID int64, q url.Values, loc *time.Location) (*firstReservable.Request, error) {
	req := &firstReservable.Request{ReservationUnitID: unitID}

	if raw := q.Get("minimumDuration"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("minimumDuration: %w", err)
		}
		req.MinimumDuration = time.Duration(minutes) * time.Minute
	}

	weekdays, err := handlers.ParseWeekdaysQuery(q.Get("weekdays"))
	if err != nil {
		return nil, err
	}

	filter := firstreservable.Filter{Weekdays: weekdays}

	if raw := q.Get("beginTime"); raw != "" {
		if filter.BeginTime, err = types.NewTimeStringFromString(raw); err != nil {
			return nil, fmt.Errorf("beginTime: %w", err)
		}
	}
	if raw := q.Get("endTime"); raw != "" {
		if filter.EndTime, err = types.NewTimeStringFromString(raw); err != nil {
			return nil, fmt.Errorf("endTime: %w", err)
		}
	}
	if raw := q.Get("beginDate"); raw != "" {
		if filter.BeginDate, err = time.ParseInLocation(domain.DateFormat, raw, loc); err != nil {
			return nil, fmt.Errorf("beginDate: %w", err)
		}
	}
	if raw := q.Get("endDate"); raw != "" {
		if filter.EndDate, err = time.ParseInLocation(domain.DateFormat, raw, loc); err != nil {
			return nil, fmt.Errorf("endDate: %w", err)
		}
	}

	req.Filter = filter
	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(unitID int64, resp *firstReservable.Response) *FirstReservableTimeResponse {
	result := &FirstReservableTimeResponse{
		ReservationUnitID: unitID,
		Status:            string(resp.Status),
	}
	if resp.StartTime != nil {
		result.FirstReservableTime = ptr.Ptr(resp.StartTime.Format(time.RFC3339))
	}
	return result
}
