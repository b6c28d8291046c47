package create_reservation_series

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/varaamo-core/internal/api/handlers"
	createSeries "github.com/m04kA/varaamo-core/internal/usecase/create_reservation_series"
	"github.com/m04kA/varaamo-core/pkg/txmanager"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidRequestFields = "некорректные даты, время или периоды в запросе"
	msgInvalidInput         = "некорректные параметры серии"
	msgUnitNotFound         = "единица бронирования не найдена"
	msgSlotTaken            = "для выделенного слота уже создана серия"
	msgIndexStale           = "данные о бронированиях обновляются, повторите запрос позже"
	msgConcurrentUpdate     = "бронирования единицы изменились параллельно, повторите запрос"
)

type Handler struct {
	useCase  CreateReservationSeriesUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase CreateReservationSeriesUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/reservation-series
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationSeriesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservation-series - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(h.location)
	if err != nil {
		h.logger.Warn("POST /reservation-series - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestFields)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		RespondUseCaseError(w, h.logger, "POST /reservation-series", err)
		return
	}

	h.logger.Info("POST /reservation-series - Series created: series_id=%d, unit_id=%d, reservations=%d, rejected=%d",
		result.Series.ID, req.ReservationUnitID, len(result.Reservations), len(result.Rejected))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// RespondUseCaseError переводит ошибку создания серии в HTTP ответ
func RespondUseCaseError(w http.ResponseWriter, logger Logger, route string, err error) {
	var verr *createSeries.SeriesValidationError
	switch {
	case errors.As(err, &verr):
		logger.Warn("%s - Series rejected: code=%s, periods=%d", route, verr.Code, len(verr.Periods))
		handlers.RespondValidationError(w, string(verr.Code), verr.Message, handlers.FromPeriods(verr.Periods))

	case errors.Is(err, createSeries.ErrReservationUnitNotFound):
		logger.Warn("%s - Reservation unit not found", route)
		handlers.RespondNotFound(w, msgUnitNotFound)

	case errors.Is(err, createSeries.ErrInvalidInput):
		logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	case errors.Is(err, createSeries.ErrAllocatedSlotTaken):
		logger.Warn("%s - Allocated slot already materialized", route)
		handlers.RespondConflict(w, msgSlotTaken)

	case errors.Is(err, createSeries.ErrIndexStale):
		logger.Warn("%s - Affecting index is stale", route)
		handlers.RespondError(w, http.StatusServiceUnavailable, msgIndexStale)

	case errors.Is(err, txmanager.ErrSerializationFailure):
		logger.Warn("%s - Serialization conflict: %v", route, err)
		handlers.RespondConflict(w, msgConcurrentUpdate)

	default:
		logger.Error("%s - Failed to create series: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
