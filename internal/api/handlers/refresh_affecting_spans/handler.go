package refresh_affecting_spans

import (
	"net/http"
	"time"

	"github.com/m04kA/varaamo-core/internal/api/handlers"
)

type Handler struct {
	index  AffectingIndex
	logger Logger
}

func NewHandler(index AffectingIndex, logger Logger) *Handler {
	return &Handler{
		index:  index,
		logger: logger,
	}
}

// Handle POST /api/v1/affecting-time-spans/refresh
// Пересобирает кэш синхронно, параллельные вызовы объединяются в одну пересборку
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if err := h.index.Refresh(r.Context()); err != nil {
		h.logger.Error("POST /affecting-time-spans/refresh - Failed to refresh: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	refreshedAt, err := h.index.RefreshedAt(r.Context())
	if err != nil {
		h.logger.Error("POST /affecting-time-spans/refresh - Failed to read refresh time: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /affecting-time-spans/refresh - Index refreshed at %s", refreshedAt.Format(time.RFC3339))
	handlers.RespondJSON(w, http.StatusOK, RefreshResponse{RefreshedAt: refreshedAt.Format(time.RFC3339)})
}
