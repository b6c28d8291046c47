package application

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/varaamo-core/internal/domain"
	"github.com/m04kA/varaamo-core/pkg/dbmetrics"
	"github.com/m04kA/varaamo-core/pkg/psqlbuilder"
)

var sectionColumns = []string{
	"s.id",
	"s.application_id",
	"a.application_round_id",
	"a.status",
	"s.name",
	"s.num_persons",
	"s.reservations_begin_date",
	"s.reservations_end_date",
	"s.reservation_min_duration_minutes",
	"s.reservation_max_duration_minutes",
	"s.applied_reservations_per_week",
}

var slotColumns = []string{
	"ats.id",
	"ats.reservation_unit_option_id",
	"ats.day_of_week",
	"ats.begin_time",
	"ats.end_time",
	"ats.reservation_series_id",
	"ats.created_at",
	"ruo.reservation_unit_id",
	"ruo.application_section_id",
}

// Repository репозиторий заявок сезонного распределения
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заявок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListSectionsByRound получает секции раунда вместе с опциями и подходящими интервалами
func (r *Repository) ListSectionsByRound(ctx context.Context, roundID int64) ([]*domain.ApplicationSection, error) {
	query, args, err := psqlbuilder.Select(sectionColumns...).
		From("application_sections s").
		Join("applications a ON a.id = s.application_id").
		Where(squirrel.Eq{"a.application_round_id": roundID}).
		OrderBy("s.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListSectionsByRound - build select query: %v", ErrBuildQuery, err)
	}

	sections, err := r.querySections(ctx, "ListSectionsByRound", query, args)
	if err != nil {
		return nil, err
	}

	if err := r.attachChildren(ctx, sections); err != nil {
		return nil, err
	}

	return sections, nil
}

// GetSectionByID получает секцию вместе с опциями и подходящими интервалами
func (r *Repository) GetSectionByID(ctx context.Context, id int64) (*domain.ApplicationSection, error) {
	query, args, err := psqlbuilder.Select(sectionColumns...).
		From("application_sections s").
		Join("applications a ON a.id = s.application_id").
		Where(squirrel.Eq{"s.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetSectionByID - build select query: %v", ErrBuildQuery, err)
	}

	sections, err := r.querySections(ctx, "GetSectionByID", query, args)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, ErrSectionNotFound
	}

	if err := r.attachChildren(ctx, sections); err != nil {
		return nil, err
	}

	return sections[0], nil
}

// ListAllocatedSlotsByRound получает все выделенные слоты раунда
func (r *Repository) ListAllocatedSlotsByRound(ctx context.Context, roundID int64) ([]*domain.AllocatedTimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("allocated_time_slots ats").
		Join("reservation_unit_options ruo ON ruo.id = ats.reservation_unit_option_id").
		Join("application_sections s ON s.id = ruo.application_section_id").
		Join("applications a ON a.id = s.application_id").
		Where(squirrel.Eq{"a.application_round_id": roundID}).
		OrderBy("ats.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListAllocatedSlotsByRound - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAllocatedSlotsByRound - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.AllocatedTimeSlot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListAllocatedSlotsByRound - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListAllocatedSlotsByRound - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// GetAllocatedSlot получает выделенный слот по ID
func (r *Repository) GetAllocatedSlot(ctx context.Context, id int64) (*domain.AllocatedTimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("allocated_time_slots ats").
		Join("reservation_unit_options ruo ON ruo.id = ats.reservation_unit_option_id").
		Where(squirrel.Eq{"ats.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllocatedSlot - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAllocatedSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllocatedSlot - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// CreateAllocatedSlots сохраняет выделенные слоты одним запросом и заполняет ID
func (r *Repository) CreateAllocatedSlots(ctx context.Context, slots []*domain.AllocatedTimeSlot) error {
	if len(slots) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Insert("allocated_time_slots").
		Columns("reservation_unit_option_id", "day_of_week", "begin_time", "end_time")
	for _, slot := range slots {
		builder = builder.Values(slot.ReservationUnitOptionID, int(slot.DayOfWeek), slot.BeginTime, slot.EndTime)
	}

	query, args, err := builder.Suffix("RETURNING id, created_at").ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateAllocatedSlots - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: CreateAllocatedSlots - execute insert: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() && i < len(slots) {
		if err := rows.Scan(&slots[i].ID, &slots[i].CreatedAt); err != nil {
			return fmt.Errorf("%w: CreateAllocatedSlots - scan row: %v", ErrScanRow, err)
		}
		i++
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: CreateAllocatedSlots - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// SetAllocatedSlotSeries привязывает серию к слоту.
// Слот, у которого уже есть серия, не перезаписывается.
func (r *Repository) SetAllocatedSlotSeries(ctx context.Context, slotID, seriesID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("allocated_time_slots").
		Set("reservation_series_id", seriesID).
		Where(squirrel.Eq{"id": slotID}).
		Where(squirrel.Eq{"reservation_series_id": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetAllocatedSlotSeries - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetAllocatedSlotSeries - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetAllocatedSlotSeries - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrSlotAlreadyMaterialized
	}

	return nil
}

func (r *Repository) querySections(ctx context.Context, op, query string, args []interface{}) ([]*domain.ApplicationSection, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	sections := make([]*domain.ApplicationSection, 0)
	for rows.Next() {
		var (
			s                        domain.ApplicationSection
			status                   string
			minDuration, maxDuration int
		)
		if err := rows.Scan(
			&s.ID,
			&s.ApplicationID,
			&s.ApplicationRoundID,
			&status,
			&s.Name,
			&s.NumPersons,
			&s.ReservationsBeginDate,
			&s.ReservationsEndDate,
			&minDuration,
			&maxDuration,
			&s.AppliedReservationsPerWeek,
		); err != nil {
			return nil, fmt.Errorf("%w: %s - scan section: %v", ErrScanRow, op, err)
		}
		s.ApplicationStatus = domain.ApplicationStatus(status)
		s.ReservationMinDuration = time.Duration(minDuration) * time.Minute
		s.ReservationMaxDuration = time.Duration(maxDuration) * time.Minute
		sections = append(sections, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return sections, nil
}

// attachChildren загружает опции и интервалы для всех секций двумя запросами
func (r *Repository) attachChildren(ctx context.Context, sections []*domain.ApplicationSection) error {
	if len(sections) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	ids := make([]int64, len(sections))
	byID := make(map[int64]*domain.ApplicationSection, len(sections))
	for i, s := range sections {
		ids[i] = s.ID
		byID[s.ID] = s
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"application_section_id",
		"reservation_unit_id",
		"preferred_order",
		"is_locked",
		"is_rejected",
	).
		From("reservation_unit_options").
		Where(squirrel.Eq{"application_section_id": ids}).
		OrderBy("application_section_id ASC", "preferred_order ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: attachChildren - build options query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachChildren - execute options query: %v", ErrExecQuery, err)
	}
	for rows.Next() {
		var o domain.ReservationUnitOption
		if err := rows.Scan(&o.ID, &o.ApplicationSectionID, &o.ReservationUnitID, &o.PreferredOrder, &o.Locked, &o.Rejected); err != nil {
			rows.Close()
			return fmt.Errorf("%w: attachChildren - scan option: %v", ErrScanRow, err)
		}
		if s, ok := byID[o.ApplicationSectionID]; ok {
			s.Options = append(s.Options, o)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("%w: attachChildren - options rows error: %v", ErrScanRow, err)
	}
	rows.Close()

	query, args, err = psqlbuilder.Select(
		"id",
		"application_section_id",
		"day_of_week",
		"begin_time",
		"end_time",
		"priority",
	).
		From("suitable_time_ranges").
		Where(squirrel.Eq{"application_section_id": ids}).
		OrderBy("application_section_id ASC", "id ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: attachChildren - build ranges query: %v", ErrBuildQuery, err)
	}

	rows, err = executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachChildren - execute ranges query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			tr       domain.SuitableTimeRange
			day      int
			priority string
		)
		if err := rows.Scan(&tr.ID, &tr.ApplicationSectionID, &day, &tr.BeginTime, &tr.EndTime, &priority); err != nil {
			return fmt.Errorf("%w: attachChildren - scan range: %v", ErrScanRow, err)
		}
		tr.DayOfWeek = domain.Weekday(day)
		tr.Priority = domain.Priority(priority)
		if s, ok := byID[tr.ApplicationSectionID]; ok {
			s.SuitableTimeRanges = append(s.SuitableTimeRanges, tr)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachChildren - ranges rows error: %v", ErrScanRow, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.AllocatedTimeSlot, error) {
	var (
		slot     domain.AllocatedTimeSlot
		day      int
		seriesID sql.NullInt64
	)
	if err := row.Scan(
		&slot.ID,
		&slot.ReservationUnitOptionID,
		&day,
		&slot.BeginTime,
		&slot.EndTime,
		&seriesID,
		&slot.CreatedAt,
		&slot.ReservationUnitID,
		&slot.ApplicationSectionID,
	); err != nil {
		return nil, err
	}
	slot.DayOfWeek = domain.Weekday(day)
	if seriesID.Valid {
		slot.ReservationSeriesID = &seriesID.Int64
	}
	return &slot, nil
}
