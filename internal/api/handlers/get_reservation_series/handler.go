package get_reservation_series

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/varaamo-core/internal/api/handlers"
	seriesHandler "github.com/m04kA/varaamo-core/internal/api/handlers/create_reservation_series"
	getSeries "github.com/m04kA/varaamo-core/internal/usecase/get_reservation_series"
)

const (
	msgInvalidSeriesID = "некорректный ID серии"
	msgSeriesNotFound  = "серия бронирований не найдена"
)

type Handler struct {
	useCase GetReservationSeriesUseCase
	logger  Logger
}

func NewHandler(useCase GetReservationSeriesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/reservation-series/{seriesId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	seriesID, err := strconv.ParseInt(mux.Vars(r)["seriesId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /reservation-series/{id} - Invalid series ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSeriesID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getSeries.Request{SeriesID: seriesID})
	if err != nil {
		switch {
		case errors.Is(err, getSeries.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidSeriesID)
		case errors.Is(err, getSeries.ErrSeriesNotFound):
			h.logger.Warn("GET /reservation-series/{id} - Series not found: series_id=%d", seriesID)
			handlers.RespondNotFound(w, msgSeriesNotFound)
		default:
			h.logger.Error("GET /reservation-series/{id} - Failed to get series: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, seriesHandler.FromUseCaseResponse(result))
}
