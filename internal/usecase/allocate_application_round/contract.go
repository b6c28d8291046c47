package allocate_application_round

import (
	"context"

	"github.com/m04kA/varaamo-core/internal/domain"
	"github.com/m04kA/varaamo-core/internal/service/allocation"
)

// ApplicationRepository интерфейс репозитория заявок раунда
type ApplicationRepository interface {
	ListSectionsByRound(ctx context.Context, roundID int64) ([]*domain.ApplicationSection, error)
	ListAllocatedSlotsByRound(ctx context.Context, roundID int64) ([]*domain.AllocatedTimeSlot, error)
	CreateAllocatedSlots(ctx context.Context, slots []*domain.AllocatedTimeSlot) error
}

// ReservationUnitRepository интерфейс чтения единиц бронирования
type ReservationUnitRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ReservationUnit, error)
}

// Engine движок распределения
type Engine interface {
	Allocate(in allocation.Input) allocation.Output
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс для записи метрик
type Metrics interface {
	ObserveAllocatedSlots(count int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
