package create_reservation_series

import (
	"time"

	"github.com/m04kA/varaamo-core/internal/domain"
	"github.com/m04kA/varaamo-core/pkg/types"
)

// Policy политика обработки отклонённых вхождений
type Policy string

const (
	// PolicyFailFast любое отклонение прерывает создание серии целиком
	PolicyFailFast Policy = "FAIL_FAST"
	// PolicyPersistPartial принятые вхождения сохраняются, отклонённые записываются как RejectedOccurrence
	PolicyPersistPartial Policy = "PERSIST_PARTIAL"
)

// State состояние запроса на создание серии
type State string

const (
	StateValidating        State = "VALIDATING"
	StateGenerating        State = "GENERATING"
	StateAllAccepted       State = "ALL_ACCEPTED"
	StatePartiallyRejected State = "PARTIALLY_REJECTED"
	StateAllRejected       State = "ALL_REJECTED"
	StatePersisted         State = "PERSISTED"
)

// Request модель запроса на создание серии
type Request struct {
	ReservationUnitID int64
	Name              string
	Description       string

	BeginDate        time.Time        // Дата начала (включительно)
	EndDate          time.Time        // Дата окончания (включительно)
	BeginTime        types.TimeString // Время начала каждого вхождения
	EndTime          types.TimeString // Время окончания каждого вхождения
	Weekdays         []domain.Weekday // 0 = понедельник, пусто = день недели BeginDate
	RecurrenceInDays int

	SkipDates   []time.Time
	ClosedHours []domain.TimeSpan

	// Переопределения буферов, не меньше буферов единицы
	BufferTimeBefore *time.Duration
	BufferTimeAfter  *time.Duration

	Details domain.ReservationDetails

	// Слот сезонного распределения, из которого создаётся серия (опционально)
	AllocatedTimeSlotID *int64

	Policy Policy
	// Пересобрать устаревший индекс влияющих бронирований и повторить попытку
	RefreshStaleIndex bool
}

// Response модель ответа с созданной серией
type Response struct {
	Series       *domain.ReservationSeries
	Reservations []*domain.Reservation
	Rejected     []*domain.RejectedOccurrence
	Outcome      State // ALL_ACCEPTED, PARTIALLY_REJECTED или ALL_REJECTED
	State        State // PERSISTED
}
