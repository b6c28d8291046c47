package create_reservation_series

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/varaamo-core/internal/domain"
	"github.com/m04kA/varaamo-core/internal/integrations/accesscode"
	"github.com/m04kA/varaamo-core/internal/integrations/eventservice"
	"github.com/m04kA/varaamo-core/internal/service/occurrences"
)

// ReservationUnitRepository интерфейс репозитория единиц бронирования
type ReservationUnitRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ReservationUnit, error)
}

// SeriesRepository интерфейс репозитория серий
type SeriesRepository interface {
	Create(ctx context.Context, series *domain.ReservationSeries) (*domain.ReservationSeries, error)
	CreateRejectedOccurrences(ctx context.Context, occurrences []*domain.RejectedOccurrence) error
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	CreateBulk(ctx context.Context, reservations []*domain.Reservation) ([]*domain.Reservation, error)
	LinkReservationUnits(ctx context.Context, reservations []*domain.Reservation) error
}

// AllocatedSlotRepository интерфейс для привязки серии к выделенному слоту
type AllocatedSlotRepository interface {
	SetAllocatedSlotSeries(ctx context.Context, slotID, seriesID int64) error
}

// Generator генератор вхождений серии
type Generator interface {
	Generate(ctx context.Context, unit *domain.ReservationUnit, params occurrences.Params) (*occurrences.Result, error)
}

// AffectingIndex индекс влияющих бронирований
type AffectingIndex interface {
	Refresh(ctx context.Context) error
	RequestRefresh()
}

// AccessCodeClient интерфейс клиента сервиса кодов доступа
type AccessCodeClient interface {
	RequestAccessCodeWithGracefulDegradation(ctx context.Context, idempotencyKey uuid.UUID, request *accesscode.Request) (*accesscode.Response, error)
}

// EventClient интерфейс клиента сервиса уведомлений и статистики
type EventClient interface {
	SeriesCreated(ctx context.Context, event eventservice.Event) error
	StatisticsDirty(ctx context.Context, event eventservice.Event) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс для записи метрик
type Metrics interface {
	ObserveSeriesCreated(state string)
	ObserveRejectedOccurrences(reason string, count int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
