package create_reservation_series

import (
	"errors"
	"fmt"

	"github.com/m04kA/varaamo-core/internal/domain"
	"github.com/m04kA/varaamo-core/internal/service/occurrences"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ReservationUnitID <= 0 {
		return fmt.Errorf("%w: reservationUnitID must be positive", ErrInvalidInput)
	}

	if len(req.Name) > domain.MaxSeriesNameLength {
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, domain.MaxSeriesNameLength)
	}

	switch req.Policy {
	case PolicyFailFast, PolicyPersistPartial:
	default:
		return fmt.Errorf("%w: unknown policy %q", ErrInvalidInput, req.Policy)
	}

	if req.BufferTimeBefore != nil && *req.BufferTimeBefore < 0 {
		return fmt.Errorf("%w: bufferTimeBefore must not be negative", ErrInvalidInput)
	}
	if req.BufferTimeAfter != nil && *req.BufferTimeAfter < 0 {
		return fmt.Errorf("%w: bufferTimeAfter must not be negative", ErrInvalidInput)
	}

	if req.Details.State != "" && !isSeriesState(req.Details.State) {
		return fmt.Errorf("%w: unsupported reservation state %q", ErrInvalidInput, req.Details.State)
	}
	if req.Details.Type != "" && !isReservationType(req.Details.Type) {
		return fmt.Errorf("%w: unknown reservation type %q", ErrInvalidInput, req.Details.Type)
	}

	return nil
}

// isSeriesState допускает только состояния, которые блокируют время
func isSeriesState(state domain.ReservationState) bool {
	for _, s := range domain.AffectingStates {
		if s == state {
			return true
		}
	}
	return false
}

func isReservationType(t domain.ReservationType) bool {
	switch t {
	case domain.TypeNormal, domain.TypeBlocked, domain.TypeStaff, domain.TypeBehalf, domain.TypeSeasonal:
		return true
	}
	return false
}

// validateRecurrence проверяет параметры повторения и переводит ошибки в коды серии
func validateRecurrence(params occurrences.Params) error {
	err := occurrences.Validate(params)
	if err == nil {
		return nil
	}
	return recurrenceError(err)
}

// recurrenceError переводит ошибку генератора в структурированную ошибку серии
func recurrenceError(err error) error {
	switch {
	case errors.Is(err, occurrences.ErrInvalidRecurrenceInDays):
		return newValidationError(CodeInvalidRecurrenceInDays, err.Error(), nil)
	case errors.Is(err, occurrences.ErrInvalidWeekday):
		return newValidationError(CodeInvalidWeekday, err.Error(), nil)
	case errors.Is(err, occurrences.ErrBeginDateAfterEndDate):
		return newValidationError(CodeBeginDateAfterEndDate, err.Error(), nil)
	case errors.Is(err, occurrences.ErrBeginTimeAfterEndTime):
		return newValidationError(CodeBeginTimeAfterEndTime, err.Error(), nil)
	case errors.Is(err, occurrences.ErrInvalidTime), errors.Is(err, occurrences.ErrTooManyOccurrences):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		return err
	}
}

// validateStartInterval проверяет, что время начала попадает на интервал начала единицы
func validateStartInterval(unit *domain.ReservationUnit, req *Request) error {
	interval := int(unit.StartInterval().Minutes())
	if req.BeginTime.Minutes()%interval != 0 {
		return newValidationError(CodeInvalidStartInterval,
			fmt.Sprintf("begin time %s is not a multiple of %d minutes", req.BeginTime, interval), nil)
	}
	return nil
}

// rejectionError строит ошибку fail-fast политики. Пересечения важнее закрытых часов,
// закрытые часы важнее интервала начала.
func rejectionError(result *occurrences.Result) error {
	switch {
	case len(result.Overlapping) > 0:
		return newValidationError(CodeOverlaps,
			"reservation series overlaps existing reservations", result.OverlappingPeriods())
	case len(result.NotReservable) > 0:
		return newValidationError(CodeNotOpen,
			"reservation unit is not open for some occurrences", result.NotReservablePeriods())
	case len(result.InvalidStartInterval) > 0:
		return newValidationError(CodeInvalidStartInterval,
			"some occurrences do not start on a valid start interval", result.InvalidStartIntervalPeriods())
	}
	return nil
}

// outcomeOf классифицирует результат генерации
func outcomeOf(result *occurrences.Result) State {
	switch {
	case !result.HasRejections():
		return StateAllAccepted
	case len(result.Accepted) == 0:
		return StateAllRejected
	default:
		return StatePartiallyRejected
	}
}
