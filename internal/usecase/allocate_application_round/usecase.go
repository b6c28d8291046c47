package allocate_application_round

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/varaamo-core/internal/domain"
	"github.com/m04kA/varaamo-core/internal/service/allocation"
)

// UseCase use case распределения раунда заявок
type UseCase struct {
	applicationRepo ApplicationRepository
	unitRepo        ReservationUnitRepository
	engine          Engine
	txManager       TransactionManager
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	applicationRepo ApplicationRepository,
	unitRepo ReservationUnitRepository,
	engine Engine,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		applicationRepo: applicationRepo,
		unitRepo:        unitRepo,
		engine:          engine,
		txManager:       txManager,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute выполняет распределение в сериализуемой транзакции:
// чтение секций и слотов, запуск движка и запись новых слотов видят один снимок
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("AllocateApplicationRound: round=%d, dryRun=%t", req.ApplicationRoundID, req.DryRun)

	// 1. Валидация входных данных
	if req.ApplicationRoundID <= 0 {
		uc.logger.Warn("AllocateApplicationRound: invalid round id=%d", req.ApplicationRoundID)
		return nil, fmt.Errorf("%w: applicationRoundID must be positive", ErrInvalidInput)
	}

	var output allocation.Output

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Загружаем секции раунда
		sections, err := uc.applicationRepo.ListSectionsByRound(txCtx, req.ApplicationRoundID)
		if err != nil {
			uc.logger.Error("AllocateApplicationRound: failed to list sections of round id=%d: %v", req.ApplicationRoundID, err)
			return fmt.Errorf("%w: failed to list sections: %v", ErrInternal, err)
		}

		for _, section := range sections {
			if err := section.ValidatePreferredOrder(); err != nil {
				uc.logger.Warn("AllocateApplicationRound: %v", err)
				return fmt.Errorf("%w: %v", ErrInvalidSection, err)
			}
		}

		// 3. Загружаем уже выделенные слоты
		existing, err := uc.applicationRepo.ListAllocatedSlotsByRound(txCtx, req.ApplicationRoundID)
		if err != nil {
			uc.logger.Error("AllocateApplicationRound: failed to list slots of round id=%d: %v", req.ApplicationRoundID, err)
			return fmt.Errorf("%w: failed to list allocated slots: %v", ErrInternal, err)
		}

		// 4. Интервалы начала единиц из опций
		intervals, err := uc.startIntervals(txCtx, sections)
		if err != nil {
			return err
		}

		// 5. Распределяем
		output = uc.engine.Allocate(allocation.Input{
			Sections:       sections,
			Existing:       existing,
			StartIntervals: intervals,
		})

		if req.DryRun || len(output.Slots) == 0 {
			return nil
		}

		// 6. Сохраняем новые слоты
		if err := uc.applicationRepo.CreateAllocatedSlots(txCtx, output.Slots); err != nil {
			uc.logger.Error("AllocateApplicationRound: failed to store %d slots: %v", len(output.Slots), err)
			return fmt.Errorf("%w: failed to create allocated slots: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if !req.DryRun {
		uc.metrics.ObserveAllocatedSlots(len(output.Slots))
	}

	skipped := output.SkippedSections()
	uc.logger.Info("AllocateApplicationRound: round=%d, allocated=%d, sections short of quota=%d",
		req.ApplicationRoundID, len(output.Slots), len(skipped))

	return &Response{
		Slots:           output.Slots,
		Unallocated:     output.Unallocated,
		SkippedSections: skipped,
	}, nil
}

// startIntervals загружает интервал начала каждой единицы, упомянутой в опциях секций
func (uc *UseCase) startIntervals(ctx context.Context, sections []*domain.ApplicationSection) (map[int64]time.Duration, error) {
	ids := make([]int64, 0)
	seen := make(map[int64]bool)
	for _, section := range sections {
		for _, option := range section.Options {
			if !seen[option.ReservationUnitID] {
				seen[option.ReservationUnitID] = true
				ids = append(ids, option.ReservationUnitID)
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	intervals := make(map[int64]time.Duration, len(ids))
	for _, id := range ids {
		unit, err := uc.unitRepo.GetByID(ctx, id)
		if err != nil {
			uc.logger.Error("AllocateApplicationRound: failed to get reservation unit id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: failed to get reservation unit %d: %v", ErrInternal, id, err)
		}
		intervals[id] = unit.StartInterval()
	}
	return intervals, nil
}
