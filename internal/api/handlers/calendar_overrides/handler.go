package calendar_overrides

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/mesterhub/MH-SchedulingService/internal/api/handlers"
	"github.com/mesterhub/MH-SchedulingService/internal/api/middleware"
	"github.com/mesterhub/MH-SchedulingService/internal/service/calendar"
)

const (
	msgInvalidProfessionalID = "некорректный ID мастера"
	msgInvalidOverrideID     = "некорректный ID блока"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidPeriod         = "некорректный период, ожидается from и to в формате RFC 3339"
	msgForbidden             = "доступ запрещен"
	msgInvalidOverride       = "некорректный блок доступности"
	msgOverrideNotFound      = "блок доступности не найден"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleCreate POST /api/v1/calendar/{professionalId}/overrides
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	professionalID, ok := h.professionalID(w, r, "POST /calendar/{id}/overrides")
	if !ok {
		return
	}

	var req CreateOverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /calendar/{id}/overrides - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateOverride(r.Context(), professionalID, req.ToServiceRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrAccessDenied):
			h.logger.Warn("POST /calendar/{id}/overrides - Access denied: professional_id=%d, user_id=%d",
				professionalID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, calendar.ErrInvalidInput):
			h.logger.Warn("POST /calendar/{id}/overrides - Invalid override: professional_id=%d, error=%v",
				professionalID, err)
			handlers.RespondBadRequest(w, msgInvalidOverride)

		default:
			h.logger.Error("POST /calendar/{id}/overrides - Failed to create override: professional_id=%d, user_id=%d, error=%v",
				professionalID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /calendar/{id}/overrides - Override created successfully: override_id=%d, professional_id=%d",
		result.ID, professionalID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// HandleList GET /api/v1/calendar/{professionalId}/overrides
// Query params: from, to (обязательны, RFC 3339)
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	professionalID, ok := h.professionalID(w, r, "GET /calendar/{id}/overrides")
	if !ok {
		return
	}

	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		h.logger.Warn("GET /calendar/{id}/overrides - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		h.logger.Warn("GET /calendar/{id}/overrides - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	result, err := h.service.ListOverrides(r.Context(), professionalID, userID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrAccessDenied):
			h.logger.Warn("GET /calendar/{id}/overrides - Access denied: professional_id=%d, user_id=%d",
				professionalID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, calendar.ErrInvalidInput):
			h.logger.Warn("GET /calendar/{id}/overrides - Invalid period: professional_id=%d, error=%v",
				professionalID, err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		default:
			h.logger.Error("GET /calendar/{id}/overrides - Failed to list overrides: professional_id=%d, user_id=%d, error=%v",
				professionalID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /calendar/{id}/overrides - Overrides retrieved successfully: professional_id=%d, count=%d",
		professionalID, len(result.Overrides))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleDelete DELETE /api/v1/calendar/{professionalId}/overrides/{overrideId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	professionalID, ok := h.professionalID(w, r, "DELETE /calendar/{id}/overrides/{id}")
	if !ok {
		return
	}

	vars := mux.Vars(r)
	overrideID, err := strconv.ParseInt(vars["overrideId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /calendar/{id}/overrides/{id} - Invalid override ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOverrideID)
		return
	}

	err = h.service.DeleteOverride(r.Context(), professionalID, overrideID, userID)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrAccessDenied):
			h.logger.Warn("DELETE /calendar/{id}/overrides/{id} - Access denied: professional_id=%d, user_id=%d",
				professionalID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, calendar.ErrOverrideNotFound):
			h.logger.Warn("DELETE /calendar/{id}/overrides/{id} - Override not found: override_id=%d", overrideID)
			handlers.RespondNotFound(w, msgOverrideNotFound)

		default:
			h.logger.Error("DELETE /calendar/{id}/overrides/{id} - Failed to delete override: override_id=%d, user_id=%d, error=%v",
				overrideID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /calendar/{id}/overrides/{id} - Override deleted successfully: override_id=%d, professional_id=%d",
		overrideID, professionalID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}

func (h *Handler) professionalID(w http.ResponseWriter, r *http.Request, op string) (int64, bool) {
	vars := mux.Vars(r)
	professionalID, err := strconv.ParseInt(vars["professionalId"], 10, 64)
	if err != nil {
		h.logger.Warn("%s - Invalid professional ID: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return 0, false
	}
	return professionalID, true
}
