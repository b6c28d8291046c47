package reservation_unit

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/m04kA/varaamo-core/internal/domain"
)

// Getter источник единиц бронирования
type Getter interface {
	GetByID(ctx context.Context, id int64) (*domain.ReservationUnit, error)
}

// CachedRepository кэширует единицы бронирования в LRU с TTL
// Мастер-данные меняются редко, а читаются на каждое вычисление слотов
type CachedRepository struct {
	source Getter
	cache  *expirable.LRU[int64, domain.ReservationUnit]
}

// NewCachedRepository создает кэширующую обёртку над source
func NewCachedRepository(source Getter, size int, ttl time.Duration) (*CachedRepository, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidCacheConfig, size)
	}
	return &CachedRepository{
		source: source,
		cache:  expirable.NewLRU[int64, domain.ReservationUnit](size, nil, ttl),
	}, nil
}

// GetByID возвращает копию единицы из кэша или загружает её из source
func (r *CachedRepository) GetByID(ctx context.Context, id int64) (*domain.ReservationUnit, error) {
	if unit, ok := r.cache.Get(id); ok {
		return cloneUnit(unit), nil
	}

	unit, err := r.source.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cache.Add(id, *cloneUnit(*unit))
	return unit, nil
}

func cloneUnit(unit domain.ReservationUnit) *domain.ReservationUnit {
	unit.ResourceIDs = append([]int64(nil), unit.ResourceIDs...)
	return &unit
}
