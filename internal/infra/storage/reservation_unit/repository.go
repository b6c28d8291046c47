package reservation_unit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/varaamo-core/internal/domain"
	"github.com/m04kA/varaamo-core/pkg/dbmetrics"
	"github.com/m04kA/varaamo-core/pkg/psqlbuilder"
)

// Repository репозиторий для чтения единиц бронирования (мастер-данные, только чтение)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория единиц бронирования
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает единицу бронирования по ID вместе с общими ресурсами
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ReservationUnit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"u.id",
		"u.name",
		"u.opening_hours_resource_id",
		"u.buffer_time_before_minutes",
		"u.buffer_time_after_minutes",
		"u.reservation_start_interval_minutes",
		"u.min_reservation_duration_minutes",
		"u.max_reservation_duration_minutes",
		"u.reservations_min_days_before",
		"u.reservations_max_days_before",
		"u.access_type",
		"ARRAY(SELECT rur.resource_id FROM reservation_unit_resources rur WHERE rur.reservation_unit_id = u.id ORDER BY rur.resource_id)",
	).
		From("reservation_units u").
		Where(squirrel.Eq{"u.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		unit                      domain.ReservationUnit
		bufferBefore, bufferAfter int
		minDuration, maxDuration  int
		accessType                string
		resourceIDs               pq.Int64Array
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&unit.ID,
		&unit.Name,
		&unit.OpeningHoursResourceID,
		&bufferBefore,
		&bufferAfter,
		&unit.ReservationStartIntervalMinutes,
		&minDuration,
		&maxDuration,
		&unit.ReservationsMinDaysBefore,
		&unit.ReservationsMaxDaysBefore,
		&accessType,
		&resourceIDs,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationUnitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation unit: %v", ErrScanRow, err)
	}

	if !unit.HasValidStartInterval() {
		return nil, fmt.Errorf("%w: unit id=%d has %d minutes", ErrInvalidStartInterval, unit.ID, unit.ReservationStartIntervalMinutes)
	}

	unit.BufferTimeBefore = time.Duration(bufferBefore) * time.Minute
	unit.BufferTimeAfter = time.Duration(bufferAfter) * time.Minute
	unit.MinReservationDuration = time.Duration(minDuration) * time.Minute
	unit.MaxReservationDuration = time.Duration(maxDuration) * time.Minute
	unit.AccessType = domain.AccessType(accessType)
	unit.ResourceIDs = []int64(resourceIDs)

	return &unit, nil
}
