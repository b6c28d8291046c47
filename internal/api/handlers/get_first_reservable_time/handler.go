package get_first_reservable_time

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/varaamo-core/internal/api/handlers"
	firstReservable "github.com/m04kA/varaamo-core/internal/usecase/get_first_reservable_time"
)

const (
	msgInvalidUnitID = "некорректный ID единицы бронирования"
	msgInvalidQuery  = "некорректные параметры поиска"
	msgUnitNotFound  = "единица бронирования не найдена"
	msgIndexStale    = "данные о бронированиях обновляются, повторите запрос позже"
)

type Handler struct {
	useCase  GetFirstReservableTimeUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase GetFirstReservableTimeUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/reservation-units/{unitId}/first-reservable-time
// Query params: minimumDuration, weekdays, beginTime, endTime, beginDate, endDate (все необязательные)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	unitID, err := strconv.ParseInt(mux.Vars(r)["unitId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /reservation-units/{id}/first-reservable-time - Invalid unit ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUnitID)
		return
	}

	useCaseReq, err := ToUseCaseRequest(unitID, r.URL.Query(), h.location)
	if err != nil {
		h.logger.Warn("GET /reservation-units/{id}/first-reservable-time - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, firstReservable.ErrInvalidInput):
			h.logger.Warn("GET /reservation-units/{id}/first-reservable-time - Invalid input: unit_id=%d, error=%v", unitID, err)
			handlers.RespondBadRequest(w, msgInvalidQuery)

		case errors.Is(err, firstReservable.ErrReservationUnitNotFound):
			h.logger.Warn("GET /reservation-units/{id}/first-reservable-time - Unit not found: unit_id=%d", unitID)
			handlers.RespondNotFound(w, msgUnitNotFound)

		case errors.Is(err, firstReservable.ErrIndexStale):
			h.logger.Warn("GET /reservation-units/{id}/first-reservable-time - Affecting index is stale: unit_id=%d", unitID)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgIndexStale)

		default:
			h.logger.Error("GET /reservation-units/{id}/first-reservable-time - Failed to resolve: unit_id=%d, error=%v", unitID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /reservation-units/{id}/first-reservable-time - Resolved: unit_id=%d, status=%s", unitID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(unitID, result))
}
