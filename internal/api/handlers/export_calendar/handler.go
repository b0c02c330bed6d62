package export_calendar

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/mesterhub/MH-SchedulingService/internal/api/handlers"
	"github.com/mesterhub/MH-SchedulingService/internal/domain"
)

const (
	msgInvalidProfessionalID = "некорректный ID мастера"
	msgInvalidPeriod         = "некорректный период, ожидается формат YYYY-MM-DD"
)

// Период выгрузки по умолчанию: месяц назад и полгода вперёд
const (
	defaultExportPastDays   = 30
	defaultExportFutureDays = 180
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/professionals/{professionalId}/calendar.ics
// Query params: from, to (опционально, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	professionalID, err := strconv.ParseInt(vars["professionalId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/calendar.ics - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -defaultExportPastDays)
	to := now.AddDate(0, 0, defaultExportFutureDays)

	if v := r.URL.Query().Get("from"); v != "" {
		from, err = time.Parse(domain.DateFormat, v)
		if err != nil {
			h.logger.Warn("GET /professionals/{id}/calendar.ics - Invalid from: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
	}

	if v := r.URL.Query().Get("to"); v != "" {
		to, err = time.Parse(domain.DateFormat, v)
		if err != nil {
			h.logger.Warn("GET /professionals/{id}/calendar.ics - Invalid to: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
	}

	calendar, err := h.service.ExportICal(r.Context(), professionalID, from, to)
	if err != nil {
		h.logger.Error("GET /professionals/{id}/calendar.ics - Failed to export: professional_id=%d, error=%v",
			professionalID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /professionals/{id}/calendar.ics - Calendar exported successfully: professional_id=%d",
		professionalID)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\"calendar.ics\"")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(calendar))
}
