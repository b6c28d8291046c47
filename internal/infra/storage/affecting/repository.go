package affecting

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

// affectedUnitsExpr собирает единицы, делящие хотя бы один ресурс с единицами бронирования
const affectedUnitsExpr = `ARRAY(
	SELECT rru.reservation_unit_id FROM reservation_reservation_units rru WHERE rru.reservation_id = r.id
	UNION
	SELECT other.reservation_unit_id
	FROM reservation_reservation_units rru
	JOIN reservation_unit_resources own ON own.reservation_unit_id = rru.reservation_unit_id
	JOIN reservation_unit_resources other ON other.resource_id = own.resource_id
	WHERE rru.reservation_id = r.id
)`

// Repository репозиторий кэша affecting time spans
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория affecting time spans
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Rebuild полностью пересобирает кэш из активных бронирований и фиксирует время обновления.
// Должен вызываться внутри транзакции, иначе читатели увидят пустую таблицу.
func (r *Repository) Rebuild(ctx context.Context, states []domain.ReservationState, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("affecting_time_spans").ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Rebuild - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return 0, fmt.Errorf("%w: Rebuild - execute delete: %v", ErrExecQuery, err)
	}

	stateNames := make([]string, len(states))
	for i, s := range states {
		stateNames[i] = string(s)
	}

	// Плейсхолдеры вложенного SELECT нумерует внешний INSERT
	source := squirrel.Select(
		"r.id",
		affectedUnitsExpr,
		"r.begin_datetime - make_interval(mins => r.buffer_time_before_minutes)",
		"r.end_datetime + make_interval(mins => r.buffer_time_after_minutes)",
		"r.buffer_time_before_minutes",
		"r.buffer_time_after_minutes",
		"r.type = 'BLOCKED'",
	).
		From("reservations r").
		Where(squirrel.Eq{"r.state": stateNames}).
		Where(squirrel.Gt{"r.end_datetime + make_interval(mins => r.buffer_time_after_minutes)": now})

	insertQuery, insertArgs, err := psqlbuilder.Insert("affecting_time_spans").
		Columns(
			"reservation_id",
			"affected_reservation_unit_ids",
			"buffered_start_datetime",
			"buffered_end_datetime",
			"buffer_time_before_minutes",
			"buffer_time_after_minutes",
			"is_blocking",
		).
		Select(source).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: Rebuild - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, insertQuery, insertArgs...)
	if err != nil {
		return 0, fmt.Errorf("%w: Rebuild - execute insert: %v", ErrExecQuery, err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: Rebuild - rows affected: %v", ErrExecQuery, err)
	}

	stateQuery, stateArgs, err := psqlbuilder.Insert("affecting_time_spans_state").
		Columns("id", "refreshed_at").
		Values(1, now).
		Suffix("ON CONFLICT (id) DO UPDATE SET refreshed_at = EXCLUDED.refreshed_at").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: Rebuild - build state query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, stateQuery, stateArgs...); err != nil {
		return 0, fmt.Errorf("%w: Rebuild - execute state upsert: %v", ErrExecQuery, err)
	}

	return inserted, nil
}

// GetRefreshedAt возвращает время последней пересборки кэша
func (r *Repository) GetRefreshedAt(ctx context.Context) (time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("refreshed_at").
		From("affecting_time_spans_state").
		Where(squirrel.Eq{"id": 1}).
		ToSql()

	if err != nil {
		return time.Time{}, fmt.Errorf("%w: GetRefreshedAt - build select query: %v", ErrBuildQuery, err)
	}

	var refreshedAt time.Time
	err = executor.QueryRowContext(ctx, query, args...).Scan(&refreshedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNeverRefreshed
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: GetRefreshedAt - scan: %v", ErrScanRow, err)
	}

	return refreshedAt, nil
}

// ListAffecting получает записи, затрагивающие хотя бы одну из единиц и
// пересекающиеся своей буферизованной зоной с [start, end).
// Записи бронирований из exclude пропускаются.
func (r *Repository) ListAffecting(ctx context.Context, unitIDs []int64, start, end time.Time, exclude []int64) ([]*domain.AffectingTimeSpan, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(
		"reservation_id",
		"affected_reservation_unit_ids",
		"buffered_start_datetime",
		"buffered_end_datetime",
		"buffer_time_before_minutes",
		"buffer_time_after_minutes",
		"is_blocking",
	).
		From("affecting_time_spans").
		Where("affected_reservation_unit_ids && ?", pq.Array(unitIDs)).
		Where(squirrel.Lt{"buffered_start_datetime": end}).
		Where(squirrel.Gt{"buffered_end_datetime": start}).
		OrderBy("buffered_start_datetime ASC", "reservation_id ASC")

	if len(exclude) > 0 {
		builder = builder.Where(squirrel.NotEq{"reservation_id": exclude})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListAffecting - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAffecting - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	spans := make([]*domain.AffectingTimeSpan, 0)
	for rows.Next() {
		var (
			span                      domain.AffectingTimeSpan
			units                     pq.Int64Array
			bufferBefore, bufferAfter int
		)
		if err := rows.Scan(
			&span.ReservationID,
			&units,
			&span.BufferedStart,
			&span.BufferedEnd,
			&bufferBefore,
			&bufferAfter,
			&span.IsBlocking,
		); err != nil {
			return nil, fmt.Errorf("%w: ListAffecting - scan row: %v", ErrScanRow, err)
		}
		span.AffectedReservationUnitIDs = []int64(units)
		span.BufferTimeBefore = time.Duration(bufferBefore) * time.Minute
		span.BufferTimeAfter = time.Duration(bufferAfter) * time.Minute
		spans = append(spans, &span)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListAffecting - rows error: %v", ErrScanRow, err)
	}

	return spans, nil
}
