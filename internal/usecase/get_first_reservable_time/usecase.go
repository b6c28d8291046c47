package get_first_reservable_time

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/varaamo-core/internal/domain"
	unitRepo "github.com/m04kA/varaamo-core/internal/infra/storage/reservation_unit"
	"github.com/m04kA/varaamo-core/internal/service/affecting"
	"github.com/m04kA/varaamo-core/internal/service/firstreservable"
	"github.com/m04kA/varaamo-core/pkg/ptr"
)

// UseCase use case поиска первого свободного времени единицы
type UseCase struct {
	unitRepo        ReservationUnitRepository
	reservableIndex ReservableIndex
	affectingIndex  AffectingIndex
	timeProvider    TimeProvider
	location        *time.Location
	searchHorizon   time.Duration
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// searchHorizon ограничивает поиск, если у единицы нет максимального срока бронирования.
func NewUseCase(
	unitRepo ReservationUnitRepository,
	reservableIndex ReservableIndex,
	affectingIndex AffectingIndex,
	location *time.Location,
	searchHorizon time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		unitRepo:        unitRepo,
		reservableIndex: reservableIndex,
		affectingIndex:  affectingIndex,
		timeProvider:    &RealTimeProvider{},
		location:        location,
		searchHorizon:   searchHorizon,
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetFirstReservableTime: unit=%d, minDuration=%s", req.ReservationUnitID, req.MinimumDuration)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetFirstReservableTime: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now().In(uc.location)

	// 3. Получаем единицу
	unit, err := uc.unitRepo.GetByID(ctx, req.ReservationUnitID)
	if err != nil {
		if errors.Is(err, unitRepo.ErrReservationUnitNotFound) {
			uc.logger.Warn("GetFirstReservableTime: reservation unit id=%d not found", req.ReservationUnitID)
			return nil, ErrReservationUnitNotFound
		}
		uc.logger.Error("GetFirstReservableTime: failed to get reservation unit id=%d: %v", req.ReservationUnitID, err)
		return nil, fmt.Errorf("%w: failed to get reservation unit: %v", ErrInternal, err)
	}

	// 4. Окно поиска
	start, end := uc.searchWindow(unit, req.Filter, now)
	if !start.Before(end) {
		uc.logger.Info("GetFirstReservableTime: unit=%d, empty search window", unit.ID)
		return &Response{Status: firstreservable.StatusClosed}, nil
	}

	// 5. Интервалы работы
	reservable, err := uc.reservableIndex.OverlappingWithPeriod(ctx, unit.OpeningHoursResourceID, start, end)
	if err != nil {
		uc.logger.Error("GetFirstReservableTime: failed to get reservable spans for unit=%d: %v", unit.ID, err)
		return nil, fmt.Errorf("%w: failed to get reservable spans: %v", ErrInternal, err)
	}

	// 6. Влияющие бронирования, включая единицы с общими ресурсами.
	// Интервал работы может выходить за end, бронирования берутся до его конца
	reservations, err := uc.affectingIndex.SpansAffecting(ctx, []int64{unit.ID}, start, affectingEnd(unit, reservable, end), nil)
	if err != nil {
		if errors.Is(err, affecting.ErrIndexStale) {
			uc.logger.Warn("GetFirstReservableTime: affecting index is stale, refresh requested")
			uc.affectingIndex.RequestRefresh()
			return nil, ErrIndexStale
		}
		uc.logger.Error("GetFirstReservableTime: failed to get affecting spans for unit=%d: %v", unit.ID, err)
		return nil, fmt.Errorf("%w: failed to get affecting spans: %v", ErrInternal, err)
	}

	// 7. Поиск
	result := firstreservable.Resolve(firstreservable.Input{
		Unit:            unit,
		ReservableSpans: reservable,
		Reservations:    reservations,
		ClosedSpans:     req.ClosedSpans,
		MinimumDuration: req.MinimumDuration,
		Filter:          req.Filter,
		Now:             now,
		Location:        uc.location,
	})

	response := &Response{Status: result.Status}
	if result.Found() {
		response.StartTime = ptr.Ptr(result.StartTime)
		uc.logger.Info("GetFirstReservableTime: unit=%d, first reservable time=%s", unit.ID, result.StartTime.Format(time.RFC3339))
	} else {
		uc.logger.Info("GetFirstReservableTime: unit=%d, status=%s", unit.ID, result.Status)
	}

	return response, nil
}

// searchWindow ограничивает выборку интервалов фильтром, горизонтом единицы или searchHorizon
func (uc *UseCase) searchWindow(unit *domain.ReservationUnit, f firstreservable.Filter, now time.Time) (time.Time, time.Time) {
	start := now
	if !f.BeginDate.IsZero() {
		if day := dayStart(f.BeginDate, uc.location); day.After(start) {
			start = day
		}
	}

	var end time.Time
	switch {
	case !f.EndDate.IsZero():
		end = dayStart(f.EndDate, uc.location).AddDate(0, 0, 1)
	case unit.ReservationsMaxDaysBefore > 0:
		end = dayStart(now, uc.location).AddDate(0, 0, unit.ReservationsMaxDaysBefore+1)
	default:
		end = now.Add(uc.searchHorizon)
	}

	return start, end
}

// affectingEnd конец выборки бронирований: максимум из end и концов интервалов работы плюс буфер после
func affectingEnd(unit *domain.ReservationUnit, reservable []domain.TimeSpan, end time.Time) time.Time {
	for _, span := range reservable {
		if span.End.After(end) {
			end = span.End
		}
	}
	return end.Add(unit.BufferTimeAfter)
}

func dayStart(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
