package affecting

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/m04kA/varaamo-core/internal/domain"
	affectingRepo "github.com/m04kA/varaamo-core/internal/infra/storage/affecting"
)

const refreshKey = "refresh"

// Index кэш буферизованных следов активных бронирований с политикой максимального возраста
type Index struct {
	repo           Repository
	txManager      TransactionManager
	metrics        Metrics
	timeProvider   TimeProvider
	logger         Logger
	maxAge         time.Duration
	refreshTimeout time.Duration

	group    singleflight.Group
	inflight sync.WaitGroup
}

// NewIndex создает новый экземпляр индекса
func NewIndex(
	repo Repository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
	maxAge time.Duration,
	refreshTimeout time.Duration,
) *Index {
	return &Index{
		repo:           repo,
		txManager:      txManager,
		metrics:        metrics,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
		maxAge:         maxAge,
		refreshTimeout: refreshTimeout,
	}
}

// WithTimeProvider подменяет источник времени
func (i *Index) WithTimeProvider(tp TimeProvider) *Index {
	i.timeProvider = tp
	return i
}

// IsValid сообщает, моложе ли кэш допустимого возраста
func (i *Index) IsValid(ctx context.Context) (bool, error) {
	refreshedAt, err := i.repo.GetRefreshedAt(ctx)
	if errors.Is(err, affectingRepo.ErrNeverRefreshed) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: IsValid - repository error: %v", ErrInternal, err)
	}

	return i.timeProvider.Now().Sub(refreshedAt) < i.maxAge, nil
}

// RefreshedAt возвращает время последней пересборки
func (i *Index) RefreshedAt(ctx context.Context) (time.Time, error) {
	refreshedAt, err := i.repo.GetRefreshedAt(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: RefreshedAt - repository error: %v", ErrInternal, err)
	}
	return refreshedAt, nil
}

// Refresh пересобирает кэш в одной транзакции.
// Одновременные вызовы в процессе объединяются в одну пересборку.
func (i *Index) Refresh(ctx context.Context) error {
	_, err, shared := i.group.Do(refreshKey, func() (interface{}, error) {
		started := i.timeProvider.Now()

		var inserted int64
		err := i.txManager.Do(ctx, func(ctx context.Context) error {
			n, err := i.repo.Rebuild(ctx, domain.AffectingStates, started)
			if err != nil {
				return err
			}
			inserted = n
			return nil
		})

		duration := i.timeProvider.Now().Sub(started)
		i.metrics.ObserveAffectingRefresh(duration, err)

		if err != nil {
			i.logger.Error("Refresh: rebuild failed after %s: %v", duration, err)
			return nil, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
		}

		i.logger.Info("Refresh: rebuilt affecting time spans, rows=%d, duration=%s", inserted, duration)
		return nil, nil
	})

	if shared {
		i.logger.Info("Refresh: joined in-flight refresh")
	}

	return err
}

// RequestRefresh запускает пересборку в фоне и сразу возвращает управление
func (i *Index) RequestRefresh() {
	i.inflight.Add(1)
	go func() {
		defer i.inflight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), i.refreshTimeout)
		defer cancel()

		if err := i.Refresh(ctx); err != nil {
			i.logger.Warn("RequestRefresh: background refresh failed: %v", err)
		}
	}()
}

// Wait дожидается завершения фоновых пересборок
func (i *Index) Wait() {
	i.inflight.Wait()
}

// SpansAffecting возвращает интервалы бронирований, влияющих на единицы в [start, end).
// Устаревший кэш не используется: возвращается ErrIndexStale.
func (i *Index) SpansAffecting(ctx context.Context, unitIDs []int64, start, end time.Time, exclude []int64) ([]domain.TimeSpan, error) {
	if len(unitIDs) == 0 {
		return []domain.TimeSpan{}, nil
	}

	valid, err := i.IsValid(ctx)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, ErrIndexStale
	}

	rows, err := i.repo.ListAffecting(ctx, unitIDs, start, end, exclude)
	if err != nil {
		return nil, fmt.Errorf("%w: SpansAffecting - repository error: %v", ErrInternal, err)
	}

	now := i.timeProvider.Now()
	spans := make([]domain.TimeSpan, 0, len(rows))
	for _, row := range rows {
		// Строки, истёкшие после последней пересборки, уже не влияют
		if !row.IsValid(now) || !row.Affects(unitIDs) {
			continue
		}
		spans = append(spans, row.TimeSpan())
	}
	domain.SortSpans(spans)

	return spans, nil
}
