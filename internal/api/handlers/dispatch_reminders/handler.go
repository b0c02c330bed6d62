package dispatch_reminders

import (
	"net/http"
	"strconv"

	"github.com/mesterhub/MH-SchedulingService/internal/api/handlers"
	"github.com/mesterhub/MH-SchedulingService/internal/service/reminders"
)

const msgInvalidLimit = "некорректный параметр limit"

// DispatchRemindersResponse результат прогона отправки напоминаний
type DispatchRemindersResponse struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

type Handler struct {
	service ReminderService
	logger  Logger
}

func NewHandler(service ReminderService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /internal/reminders/dispatch
// Query params: limit (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	limit := uint64(reminders.DefaultDispatchLimit)
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil || parsed == 0 {
			h.logger.Warn("POST /internal/reminders/dispatch - Invalid limit: %q", v)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		limit = parsed
	}

	sent, failed, err := h.service.DispatchDue(r.Context(), limit)
	if err != nil {
		h.logger.Error("POST /internal/reminders/dispatch - Dispatch failed: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /internal/reminders/dispatch - Dispatch completed: sent=%d, failed=%d", sent, failed)
	handlers.RespondJSON(w, http.StatusOK, DispatchRemindersResponse{Sent: sent, Failed: failed})
}
