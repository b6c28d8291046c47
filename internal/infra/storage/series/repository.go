package series

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/varaamo-core/internal/domain"
	"github.com/m04kA/varaamo-core/pkg/dbmetrics"
	"github.com/m04kA/varaamo-core/pkg/psqlbuilder"
)

// Repository репозиторий серий бронирований и отклонённых вхождений
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория серий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет серию и заполняет ID и CreatedAt
func (r *Repository) Create(ctx context.Context, s *domain.ReservationSeries) (*domain.ReservationSeries, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservation_series").
		Columns(
			"name",
			"description",
			"begin_date",
			"end_date",
			"begin_time",
			"end_time",
			"weekdays",
			"recurrence_in_days",
			"reservation_unit_id",
			"allocated_time_slot_id",
		).
		Values(
			s.Name,
			s.Description,
			s.BeginDate.Format(domain.DateFormat),
			s.EndDate.Format(domain.DateFormat),
			s.BeginTime,
			s.EndTime,
			pq.Array(weekdaysToInts(s.Weekdays)),
			s.RecurrenceInDays,
			s.ReservationUnitID,
			s.AllocatedTimeSlotID,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return s, nil
}

// GetByID получает серию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ReservationSeries, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"description",
		"begin_date",
		"end_date",
		"begin_time",
		"end_time",
		"weekdays",
		"recurrence_in_days",
		"reservation_unit_id",
		"allocated_time_slot_id",
		"created_at",
	).
		From("reservation_series").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		s           domain.ReservationSeries
		weekdays    pq.Int64Array
		allocatedID sql.NullInt64
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.BeginDate,
		&s.EndDate,
		&s.BeginTime,
		&s.EndTime,
		&weekdays,
		&s.RecurrenceInDays,
		&s.ReservationUnitID,
		&allocatedID,
		&s.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSeriesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan series: %v", ErrScanRow, err)
	}

	s.Weekdays = make([]domain.Weekday, len(weekdays))
	for i, w := range weekdays {
		s.Weekdays[i] = domain.Weekday(w)
	}
	if allocatedID.Valid {
		s.AllocatedTimeSlotID = &allocatedID.Int64
	}

	return &s, nil
}

// CreateRejectedOccurrences сохраняет отклонённые вхождения серии одним запросом
func (r *Repository) CreateRejectedOccurrences(ctx context.Context, occurrences []*domain.RejectedOccurrence) error {
	if len(occurrences) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Insert("rejected_occurrences").
		Columns("begin_datetime", "end_datetime", "rejection_reason", "reservation_series_id")
	for _, o := range occurrences {
		builder = builder.Values(o.BeginDatetime, o.EndDatetime, string(o.RejectionReason), o.ReservationSeriesID)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateRejectedOccurrences - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreateRejectedOccurrences - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListRejectedOccurrences получает отклонённые вхождения серии в хронологическом порядке
func (r *Repository) ListRejectedOccurrences(ctx context.Context, seriesID int64) ([]*domain.RejectedOccurrence, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"begin_datetime",
		"end_datetime",
		"rejection_reason",
		"reservation_series_id",
		"created_at",
	).
		From("rejected_occurrences").
		Where(squirrel.Eq{"reservation_series_id": seriesID}).
		OrderBy("begin_datetime ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListRejectedOccurrences - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListRejectedOccurrences - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	occurrences := make([]*domain.RejectedOccurrence, 0)
	for rows.Next() {
		var (
			o      domain.RejectedOccurrence
			reason string
		)
		if err := rows.Scan(&o.ID, &o.BeginDatetime, &o.EndDatetime, &reason, &o.ReservationSeriesID, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListRejectedOccurrences - scan row: %v", ErrScanRow, err)
		}
		o.RejectionReason = domain.RejectionReason(reason)
		occurrences = append(occurrences, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListRejectedOccurrences - rows error: %v", ErrScanRow, err)
	}

	return occurrences, nil
}

func weekdaysToInts(weekdays []domain.Weekday) []int64 {
	result := make([]int64, len(weekdays))
	for i, w := range weekdays {
		result[i] = int64(w)
	}
	return result
}
