package create_series_from_allocation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/varaamo-core/internal/domain"
	applicationRepo "github.com/m04kA/varaamo-core/internal/infra/storage/application"
	"github.com/m04kA/varaamo-core/internal/usecase/create_reservation_series"
	"github.com/m04kA/varaamo-core/pkg/ptr"
)

// UseCase use case материализации выделенного слота в серию бронирований.
// Отклонённые вхождения не прерывают создание, а сохраняются отдельно.
type UseCase struct {
	applicationRepo ApplicationRepository
	seriesCreator   SeriesCreator
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(applicationRepo ApplicationRepository, seriesCreator SeriesCreator, logger Logger) *UseCase {
	return &UseCase{
		applicationRepo: applicationRepo,
		seriesCreator:   seriesCreator,
		logger:          logger,
	}
}

// Execute выполняет use case
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateSeriesFromAllocation: slot=%d", req.AllocatedTimeSlotID)

	// 1. Валидация входных данных
	if req.AllocatedTimeSlotID <= 0 {
		uc.logger.Warn("CreateSeriesFromAllocation: invalid slot id=%d", req.AllocatedTimeSlotID)
		return nil, fmt.Errorf("%w: allocatedTimeSlotID must be positive", ErrInvalidInput)
	}

	// 2. Получаем слот
	slot, err := uc.applicationRepo.GetAllocatedSlot(ctx, req.AllocatedTimeSlotID)
	if err != nil {
		if errors.Is(err, applicationRepo.ErrAllocatedSlotNotFound) {
			uc.logger.Warn("CreateSeriesFromAllocation: slot id=%d not found", req.AllocatedTimeSlotID)
			return nil, ErrAllocatedSlotNotFound
		}
		uc.logger.Error("CreateSeriesFromAllocation: failed to get slot id=%d: %v", req.AllocatedTimeSlotID, err)
		return nil, fmt.Errorf("%w: failed to get allocated time slot: %v", ErrInternal, err)
	}

	if slot.IsMaterialized() {
		uc.logger.Warn("CreateSeriesFromAllocation: slot id=%d already has series id=%d", slot.ID, *slot.ReservationSeriesID)
		return nil, ErrAlreadyMaterialized
	}

	// 3. Получаем секцию заявки, она задаёт период серии
	section, err := uc.applicationRepo.GetSectionByID(ctx, slot.ApplicationSectionID)
	if err != nil {
		if errors.Is(err, applicationRepo.ErrSectionNotFound) {
			uc.logger.Warn("CreateSeriesFromAllocation: section id=%d not found", slot.ApplicationSectionID)
			return nil, ErrSectionNotFound
		}
		uc.logger.Error("CreateSeriesFromAllocation: failed to get section id=%d: %v", slot.ApplicationSectionID, err)
		return nil, fmt.Errorf("%w: failed to get application section: %v", ErrInternal, err)
	}

	// 4. Создаём серию с сохранением отклонённых вхождений
	response, err := uc.seriesCreator.Execute(ctx, buildSeriesRequest(slot, section, req))
	if err != nil {
		if errors.Is(err, create_reservation_series.ErrAllocatedSlotTaken) {
			uc.logger.Warn("CreateSeriesFromAllocation: slot id=%d was materialized concurrently", slot.ID)
			return nil, ErrAlreadyMaterialized
		}
		uc.logger.Warn("CreateSeriesFromAllocation: failed to create series for slot id=%d: %v", slot.ID, err)
		return nil, err
	}

	uc.logger.Info("CreateSeriesFromAllocation: slot=%d materialized into series id=%d, reservations=%d, rejected=%d",
		slot.ID, response.Series.ID, len(response.Reservations), len(response.Rejected))

	return response, nil
}

func buildSeriesRequest(slot *domain.AllocatedTimeSlot, section *domain.ApplicationSection, req *Request) *create_reservation_series.Request {
	reserveeName := req.ReserveeName
	if reserveeName == "" {
		reserveeName = section.Name
	}

	return &create_reservation_series.Request{
		ReservationUnitID: slot.ReservationUnitID,
		Name:              section.Name,
		BeginDate:         section.ReservationsBeginDate,
		EndDate:           section.ReservationsEndDate,
		BeginTime:         slot.BeginTime,
		EndTime:           slot.EndTime,
		Weekdays:          []domain.Weekday{slot.DayOfWeek},
		RecurrenceInDays:  domain.DefaultRecurrenceInDays,
		SkipDates:         req.SkipDates,
		ClosedHours:       req.ClosedHours,
		Details: domain.ReservationDetails{
			Name:         section.Name,
			ReserveeName: reserveeName,
			NumPersons:   section.NumPersons,
			State:        domain.StateConfirmed,
			Type:         domain.TypeSeasonal,
		},
		AllocatedTimeSlotID: ptr.Ptr(slot.ID),
		Policy:              create_reservation_series.PolicyPersistPartial,
		RefreshStaleIndex:   req.RefreshStaleIndex,
	}
}
