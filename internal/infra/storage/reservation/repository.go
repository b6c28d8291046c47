package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/varaamo-core/internal/domain"
	"github.com/m04kA/varaamo-core/pkg/dbmetrics"
	"github.com/m04kA/varaamo-core/pkg/psqlbuilder"
)

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateBulk вставляет бронирования одним запросом и заполняет ID, CreatedAt и UpdatedAt.
// При создании серии вызывается внутри транзакции вместе с LinkReservationUnits.
func (r *Repository) CreateBulk(ctx context.Context, reservations []*domain.Reservation) ([]*domain.Reservation, error) {
	if len(reservations) == 0 {
		return reservations, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Insert("reservations").
		Columns(
			"ext_uuid",
			"begin_datetime",
			"end_datetime",
			"buffer_time_before_minutes",
			"buffer_time_after_minutes",
			"state",
			"type",
			"reservation_series_id",
			"name",
			"description",
			"reservee_name",
			"num_persons",
		)

	for _, res := range reservations {
		builder = builder.Values(
			res.ExtUUID,
			res.Begin,
			res.End,
			int(res.BufferTimeBefore/time.Minute),
			int(res.BufferTimeAfter/time.Minute),
			string(res.State),
			string(res.Type),
			res.ReservationSeriesID,
			res.Name,
			res.Description,
			res.ReserveeName,
			res.NumPersons,
		)
	}

	// RETURNING сохраняет порядок VALUES
	query, args, err := builder.Suffix("RETURNING id, created_at, updated_at").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBulk - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBulk - execute insert: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		if i >= len(reservations) {
			return nil, fmt.Errorf("%w: CreateBulk - got more than %d rows", ErrRowsMismatch, len(reservations))
		}
		res := reservations[i]
		if err := rows.Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: CreateBulk - scan row: %v", ErrScanRow, err)
		}
		i++
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CreateBulk - rows error: %v", ErrScanRow, err)
	}
	if i != len(reservations) {
		return nil, fmt.Errorf("%w: CreateBulk - expected %d rows, got %d", ErrRowsMismatch, len(reservations), i)
	}

	return reservations, nil
}

// LinkReservationUnits связывает каждое бронирование с единицей бронирования
func (r *Repository) LinkReservationUnits(ctx context.Context, reservations []*domain.Reservation) error {
	if len(reservations) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Insert("reservation_reservation_units").
		Columns("reservation_id", "reservation_unit_id")
	for _, res := range reservations {
		builder = builder.Values(res.ID, res.ReservationUnitID)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: LinkReservationUnits - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: LinkReservationUnits - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListBySeries получает бронирования серии в хронологическом порядке
func (r *Repository) ListBySeries(ctx context.Context, seriesID int64) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"r.id",
		"r.ext_uuid",
		"r.begin_datetime",
		"r.end_datetime",
		"r.buffer_time_before_minutes",
		"r.buffer_time_after_minutes",
		"r.state",
		"r.type",
		"COALESCE(rru.reservation_unit_id, 0)",
		"r.reservation_series_id",
		"r.name",
		"r.description",
		"r.reservee_name",
		"r.num_persons",
		"r.created_at",
		"r.updated_at",
	).
		From("reservations r").
		LeftJoin("reservation_reservation_units rru ON rru.reservation_id = r.id").
		Where(squirrel.Eq{"r.reservation_series_id": seriesID}).
		OrderBy("r.begin_datetime ASC", "r.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListBySeries - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySeries - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	reservations := make([]*domain.Reservation, 0)
	for rows.Next() {
		var (
			res                       domain.Reservation
			bufferBefore, bufferAfter int
			state, resType            string
		)
		if err := rows.Scan(
			&res.ID,
			&res.ExtUUID,
			&res.Begin,
			&res.End,
			&bufferBefore,
			&bufferAfter,
			&state,
			&resType,
			&res.ReservationUnitID,
			&res.ReservationSeriesID,
			&res.Name,
			&res.Description,
			&res.ReserveeName,
			&res.NumPersons,
			&res.CreatedAt,
			&res.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListBySeries - scan row: %v", ErrScanRow, err)
		}
		res.BufferTimeBefore = time.Duration(bufferBefore) * time.Minute
		res.BufferTimeAfter = time.Duration(bufferAfter) * time.Minute
		res.State = domain.ReservationState(state)
		res.Type = domain.ReservationType(resType)
		reservations = append(reservations, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBySeries - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}
