package get_reservation_series

import (
	"context"
	"errors"
	"fmt"

	seriesRepo "github.com/m04kA/varaamo-core/internal/infra/storage/series"
	"github.com/m04kA/varaamo-core/internal/usecase/create_reservation_series"
)

// UseCase use case чтения серии с бронированиями и отклонёнными вхождениями
type UseCase struct {
	seriesRepo      SeriesRepository
	reservationRepo ReservationRepository
	txManager       TransactionManager
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(seriesRepo SeriesRepository, reservationRepo ReservationRepository, txManager TransactionManager, logger Logger) *UseCase {
	return &UseCase{
		seriesRepo:      seriesRepo,
		reservationRepo: reservationRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// Execute возвращает серию в одном снимке данных
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.SeriesID <= 0 {
		uc.logger.Warn("GetReservationSeries: invalid series id=%d", req.SeriesID)
		return nil, fmt.Errorf("%w: seriesID must be positive", ErrInvalidInput)
	}

	response := &Response{State: create_reservation_series.StatePersisted}

	err := uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		series, err := uc.seriesRepo.GetByID(txCtx, req.SeriesID)
		if err != nil {
			if errors.Is(err, seriesRepo.ErrSeriesNotFound) {
				return ErrSeriesNotFound
			}
			return fmt.Errorf("%w: failed to get series: %v", ErrInternal, err)
		}

		reservations, err := uc.reservationRepo.ListBySeries(txCtx, series.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to list reservations: %v", ErrInternal, err)
		}

		rejected, err := uc.seriesRepo.ListRejectedOccurrences(txCtx, series.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to list rejected occurrences: %v", ErrInternal, err)
		}

		response.Series = series
		response.Reservations = reservations
		response.Rejected = rejected
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSeriesNotFound) {
			uc.logger.Warn("GetReservationSeries: series id=%d not found", req.SeriesID)
		} else {
			uc.logger.Error("GetReservationSeries: series id=%d: %v", req.SeriesID, err)
		}
		return nil, err
	}

	response.Outcome = outcome(len(response.Reservations), len(response.Rejected))
	return response, nil
}

func outcome(reservations, rejected int) create_reservation_series.State {
	switch {
	case rejected == 0:
		return create_reservation_series.StateAllAccepted
	case reservations == 0:
		return create_reservation_series.StateAllRejected
	default:
		return create_reservation_series.StatePartiallyRejected
	}
}
