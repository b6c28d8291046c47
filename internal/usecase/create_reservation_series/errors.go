package create_reservation_series

import (
	"errors"
	"fmt"

	"github.com/m04kA/varaamo-core/internal/domain"
)

// ErrorCode машиночитаемый код ошибки серии для фронтенда
type ErrorCode string

const (
	CodeOverlaps                ErrorCode = "RESERVATION_SERIES_OVERLAPS"
	CodeNotOpen                 ErrorCode = "RESERVATION_SERIES_NOT_OPEN"
	CodeInvalidStartInterval    ErrorCode = "RESERVATION_SERIES_INVALID_START_INTERVAL"
	CodeInvalidRecurrenceInDays ErrorCode = "RESERVATION_SERIES_INVALID_RECURRENCE_IN_DAYS"
	CodeInvalidWeekday          ErrorCode = "RESERVATION_SERIES_INVALID_WEEKDAY"
	CodeBeginDateAfterEndDate   ErrorCode = "RESERVATION_SERIES_BEGIN_DATE_AFTER_END_DATE"
	CodeBeginTimeAfterEndTime   ErrorCode = "RESERVATION_SERIES_BEGIN_TIME_AFTER_END_TIME"
	CodeNoOccurrences           ErrorCode = "RESERVATION_SERIES_NO_OCCURRENCES"
)

var (
	// ErrSeriesOverlaps возвращается, если вхождения пересекаются с существующими бронированиями
	ErrSeriesOverlaps = errors.New("create_reservation_series: series overlaps existing reservations")

	// ErrSeriesNotOpen возвращается, если вхождения вне часов работы единицы
	ErrSeriesNotOpen = errors.New("create_reservation_series: reservation unit is not open")

	// ErrInvalidStartInterval возвращается, если время начала не попадает на интервал единицы
	ErrInvalidStartInterval = errors.New("create_reservation_series: invalid start interval")

	// ErrInvalidRecurrenceInDays возвращается, если интервал повторения не кратен 7
	ErrInvalidRecurrenceInDays = errors.New("create_reservation_series: invalid recurrence in days")

	// ErrInvalidWeekday возвращается при некорректном дне недели
	ErrInvalidWeekday = errors.New("create_reservation_series: invalid weekday")

	// ErrBeginDateAfterEndDate возвращается, если дата начала позже даты окончания
	ErrBeginDateAfterEndDate = errors.New("create_reservation_series: begin date after end date")

	// ErrBeginTimeAfterEndTime возвращается, если время начала не раньше времени окончания
	ErrBeginTimeAfterEndTime = errors.New("create_reservation_series: begin time after end time")

	// ErrNoOccurrences возвращается, если повторение не порождает ни одного вхождения
	ErrNoOccurrences = errors.New("create_reservation_series: no occurrences")

	// ErrReservationUnitNotFound возвращается, когда единица бронирования не найдена
	ErrReservationUnitNotFound = errors.New("create_reservation_series: reservation unit not found")

	// ErrAllocatedSlotTaken возвращается, если у выделенного слота уже есть серия
	ErrAllocatedSlotTaken = errors.New("create_reservation_series: allocated time slot already has a reservation series")

	// ErrIndexStale возвращается, если индекс влияющих бронирований устарел
	ErrIndexStale = errors.New("create_reservation_series: affecting index is stale")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation_series: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation_series: internal error")
)

var sentinelByCode = map[ErrorCode]error{
	CodeOverlaps:                ErrSeriesOverlaps,
	CodeNotOpen:                 ErrSeriesNotOpen,
	CodeInvalidStartInterval:    ErrInvalidStartInterval,
	CodeInvalidRecurrenceInDays: ErrInvalidRecurrenceInDays,
	CodeInvalidWeekday:          ErrInvalidWeekday,
	CodeBeginDateAfterEndDate:   ErrBeginDateAfterEndDate,
	CodeBeginTimeAfterEndTime:   ErrBeginTimeAfterEndTime,
	CodeNoOccurrences:           ErrNoOccurrences,
}

// SeriesValidationError структурированная ошибка серии со списком конфликтующих периодов
type SeriesValidationError struct {
	Code    ErrorCode
	Message string
	Periods []domain.Period
}

func newValidationError(code ErrorCode, message string, periods []domain.Period) *SeriesValidationError {
	if periods == nil {
		periods = []domain.Period{}
	}
	return &SeriesValidationError{Code: code, Message: message, Periods: periods}
}

func (e *SeriesValidationError) Error() string {
	if len(e.Periods) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%d periods)", e.Code, e.Message, len(e.Periods))
}

// Is сопоставляет ошибку с sentinel-ошибкой её кода
func (e *SeriesValidationError) Is(target error) bool {
	sentinel, ok := sentinelByCode[e.Code]
	return ok && sentinel == target
}
