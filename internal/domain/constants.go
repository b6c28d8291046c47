package domain

// Default configuration values
const (
	DefaultRecurrenceInDays = 7
	DaysInWeek              = 7
)

// Business validation constants
const (
	MinStartIntervalMinutes = 15
	MaxReservationsInSeries = 5000
	MaxSeriesNameLength     = 255
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// AffectingStates состояния бронирований, которые блокируют время единицы
// Только они попадают в affecting time spans
var AffectingStates = []ReservationState{
	StateCreated,
	StateConfirmed,
	StateWaitingForPayment,
	StateRequiresHandling,
}

// AllocatableApplicationStatuses статусы заявок, секции которых участвуют в распределении
var AllocatableApplicationStatuses = []ApplicationStatus{
	ApplicationStatusReceived,
	ApplicationStatusInAllocation,
}

// ValidStartIntervals допустимые интервалы начала бронирования (в минутах)
var ValidStartIntervals = []int{15, 30, 60, 90, 120, 180, 240, 300, 360, 420}
