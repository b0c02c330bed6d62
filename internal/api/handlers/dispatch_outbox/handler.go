package dispatch_outbox

import (
	"net/http"
	"strconv"

	"github.com/mesterhub/MH-SchedulingService/internal/api/handlers"
	"github.com/mesterhub/MH-SchedulingService/internal/service/outbox"
)

const msgInvalidLimit = "некорректный параметр limit"

// DispatchOutboxResponse результат прогона отправки событий
type DispatchOutboxResponse struct {
	Dispatched int `json:"dispatched"`
	Failed     int `json:"failed"`
}

type Handler struct {
	service OutboxService
	logger  Logger
}

func NewHandler(service OutboxService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /internal/outbox/dispatch
// Query params: limit (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	limit := uint64(outbox.DefaultDispatchLimit)
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil || parsed == 0 {
			h.logger.Warn("POST /internal/outbox/dispatch - Invalid limit: %q", v)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		limit = parsed
	}

	dispatched, failed, err := h.service.DispatchPending(r.Context(), limit)
	if err != nil {
		h.logger.Error("POST /internal/outbox/dispatch - Dispatch failed: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /internal/outbox/dispatch - Dispatch completed: dispatched=%d, failed=%d", dispatched, failed)
	handlers.RespondJSON(w, http.StatusOK, DispatchOutboxResponse{Dispatched: dispatched, Failed: failed})
}
