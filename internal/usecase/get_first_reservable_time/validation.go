package get_first_reservable_time

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ReservationUnitID <= 0 {
		return fmt.Errorf("%w: reservationUnitID must be positive", ErrInvalidInput)
	}

	if req.MinimumDuration < 0 {
		return fmt.Errorf("%w: minimumDuration must not be negative", ErrInvalidInput)
	}

	f := req.Filter
	for _, w := range f.Weekdays {
		if !w.IsValid() {
			return fmt.Errorf("%w: invalid weekday %d", ErrInvalidInput, int(w))
		}
	}

	if !f.BeginTime.IsZero() && !f.EndTime.IsZero() && f.BeginTime.Minutes() >= f.EndTime.Minutes() {
		return fmt.Errorf("%w: beginTime must be before endTime", ErrInvalidInput)
	}

	if !f.BeginDate.IsZero() && !f.EndDate.IsZero() && f.BeginDate.After(f.EndDate) {
		return fmt.Errorf("%w: beginDate must not be after endDate", ErrInvalidInput)
	}

	return nil
}
