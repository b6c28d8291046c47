package allocate_application_round

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/varaamo-core/internal/api/handlers"
	allocateRound "github.com/m04kA/varaamo-core/internal/usecase/allocate_application_round"
)

const (
	msgInvalidRoundID = "некорректный ID раунда заявок"
	msgInvalidDryRun  = "некорректное значение dryRun"
	msgInvalidSection = "некорректный порядок предпочтений в секции заявки"
)

type Handler struct {
	useCase AllocateApplicationRoundUseCase
	logger  Logger
}

func NewHandler(useCase AllocateApplicationRoundUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/application-rounds/{roundId}/allocate
// Query params: dryRun (optional, bool)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	roundID, err := strconv.ParseInt(mux.Vars(r)["roundId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /application-rounds/{id}/allocate - Invalid round ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRoundID)
		return
	}

	dryRun := false
	if raw := r.URL.Query().Get("dryRun"); raw != "" {
		dryRun, err = strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("POST /application-rounds/{id}/allocate - Invalid dryRun: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDryRun)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &allocateRound.Request{ApplicationRoundID: roundID, DryRun: dryRun})
	if err != nil {
		switch {
		case errors.Is(err, allocateRound.ErrInvalidInput):
			h.logger.Warn("POST /application-rounds/{id}/allocate - Invalid input: round_id=%d", roundID)
			handlers.RespondBadRequest(w, msgInvalidRoundID)

		case errors.Is(err, allocateRound.ErrInvalidSection):
			h.logger.Warn("POST /application-rounds/{id}/allocate - Invalid section: round_id=%d, error=%v", roundID, err)
			handlers.RespondBadRequest(w, msgInvalidSection)

		default:
			h.logger.Error("POST /application-rounds/{id}/allocate - Failed to allocate: round_id=%d, error=%v", roundID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /application-rounds/{id}/allocate - Round allocated: round_id=%d, slots=%d, dry_run=%t",
		roundID, len(result.Slots), dryRun)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(roundID, dryRun, result))
}
