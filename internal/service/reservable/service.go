package reservable

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/varaamo-core/internal/domain"
)

// Index индекс интервалов работы ресурсов (allow-list для проверки вхождений)
type Index struct {
	repo Repository
}

// NewIndex создает новый экземпляр индекса интервалов работы
func NewIndex(repo Repository) *Index {
	return &Index{repo: repo}
}

// OverlappingWithPeriod возвращает открытые интервалы ресурса, пересекающиеся с [start, end).
// Пустой resourceID означает, что у единицы нет часов работы: результат пуст.
func (i *Index) OverlappingWithPeriod(ctx context.Context, resourceID string, start, end time.Time) ([]domain.TimeSpan, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start=%s end=%s", ErrInvalidPeriod, start, end)
	}
	if resourceID == "" {
		return []domain.TimeSpan{}, nil
	}

	rows, err := i.repo.ListOverlapping(ctx, resourceID, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: OverlappingWithPeriod - repository error: %v", ErrInternal, err)
	}

	spans := make([]domain.TimeSpan, 0, len(rows))
	for _, row := range rows {
		spans = append(spans, row.TimeSpan())
	}
	domain.SortSpans(spans)

	return spans, nil
}
