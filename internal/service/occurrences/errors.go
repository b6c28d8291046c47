package occurrences

import "errors"

var (
	// ErrInvalidRecurrenceInDays возвращается, если интервал повторения не положительное кратное 7
	ErrInvalidRecurrenceInDays = errors.New("occurrences: recurrence in days must be a positive multiple of 7")

	// ErrInvalidWeekday возвращается при дне недели вне 0..6
	ErrInvalidWeekday = errors.New("occurrences: weekday must be in 0..6")

	// ErrBeginDateAfterEndDate возвращается, если дата начала позже даты окончания
	ErrBeginDateAfterEndDate = errors.New("occurrences: begin date must not be after end date")

	// ErrBeginTimeAfterEndTime возвращается, если время начала не раньше времени окончания
	ErrBeginTimeAfterEndTime = errors.New("occurrences: begin time must be before end time")

	// ErrInvalidTime возвращается при некорректном времени суток
	ErrInvalidTime = errors.New("occurrences: invalid time of day")

	// ErrTooManyOccurrences возвращается, если серия порождает слишком много вхождений
	ErrTooManyOccurrences = errors.New("occurrences: too many occurrences in series")

	// ErrIndexStale возвращается, если индекс влияющих бронирований устарел
	ErrIndexStale = errors.New("occurrences: affecting index is stale")

	// ErrInternal возвращается при внутренних ошибках генератора
	ErrInternal = errors.New("occurrences: internal error")
)
