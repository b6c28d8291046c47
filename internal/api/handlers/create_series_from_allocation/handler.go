package create_series_from_allocation

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/varaamo-core/internal/api/handlers"
	seriesHandler "github.com/m04kA/varaamo-core/internal/api/handlers/create_reservation_series"
	fromAllocation "github.com/m04kA/varaamo-core/internal/usecase/create_series_from_allocation"
)

const (
	msgInvalidSlotID        = "некорректный ID выделенного слота"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidRequestFields = "некорректные даты или периоды в запросе"
	msgSlotNotFound         = "выделенный слот не найден"
	msgSectionNotFound      = "секция заявки не найдена"
	msgAlreadyMaterialized  = "для выделенного слота уже создана серия"
)

type Handler struct {
	useCase  CreateSeriesFromAllocationUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase CreateSeriesFromAllocationUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/allocated-time-slots/{slotId}/reservation-series
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := strconv.ParseInt(mux.Vars(r)["slotId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /allocated-time-slots/{id}/reservation-series - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req CreateSeriesFromAllocationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /allocated-time-slots/{id}/reservation-series - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(slotID, h.location)
	if err != nil {
		h.logger.Warn("POST /allocated-time-slots/{id}/reservation-series - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestFields)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, fromAllocation.ErrInvalidInput):
			h.logger.Warn("POST /allocated-time-slots/{id}/reservation-series - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSlotID)

		case errors.Is(err, fromAllocation.ErrAllocatedSlotNotFound):
			h.logger.Warn("POST /allocated-time-slots/{id}/reservation-series - Slot not found: slot_id=%d", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, fromAllocation.ErrSectionNotFound):
			h.logger.Warn("POST /allocated-time-slots/{id}/reservation-series - Section not found: slot_id=%d", slotID)
			handlers.RespondNotFound(w, msgSectionNotFound)

		case errors.Is(err, fromAllocation.ErrAlreadyMaterialized):
			h.logger.Warn("POST /allocated-time-slots/{id}/reservation-series - Already materialized: slot_id=%d", slotID)
			handlers.RespondConflict(w, msgAlreadyMaterialized)

		default:
			seriesHandler.RespondUseCaseError(w, h.logger, "POST /allocated-time-slots/{id}/reservation-series", err)
		}
		return
	}

	h.logger.Info("POST /allocated-time-slots/{id}/reservation-series - Series created: slot_id=%d, series_id=%d, reservations=%d, rejected=%d",
		slotID, result.Series.ID, len(result.Reservations), len(result.Rejected))
	handlers.RespondJSON(w, http.StatusCreated, seriesHandler.FromUseCaseResponse(result))
}
