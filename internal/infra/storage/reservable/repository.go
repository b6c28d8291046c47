package reservable

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/varaamo-core/internal/domain"
	"github.com/m04kA/varaamo-core/pkg/dbmetrics"
	"github.com/m04kA/varaamo-core/pkg/psqlbuilder"
)

// Repository репозиторий интервалов работы (reservable time spans)
// Таблица заполняется внешним заданием импорта часов работы, ядро только читает
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория интервалов работы
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListOverlapping получает интервалы ресурса, пересекающиеся с [start, end)
// Касание границ не считается пересечением
func (r *Repository) ListOverlapping(ctx context.Context, resourceID string, start, end time.Time) ([]*domain.ReservableTimeSpan, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"resource_id",
		"start_datetime",
		"end_datetime",
	).
		From("reservable_time_spans").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.Lt{"start_datetime": end}).
		Where(squirrel.Gt{"end_datetime": start}).
		OrderBy("start_datetime ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	spans := make([]*domain.ReservableTimeSpan, 0)
	for rows.Next() {
		var span domain.ReservableTimeSpan
		if err := rows.Scan(&span.ID, &span.ResourceID, &span.Start, &span.End); err != nil {
			return nil, fmt.Errorf("%w: ListOverlapping - scan row: %v", ErrScanRow, err)
		}
		spans = append(spans, &span)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - rows error: %v", ErrScanRow, err)
	}

	return spans, nil
}
