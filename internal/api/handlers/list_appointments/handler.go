package list_appointments

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/mesterhub/MH-SchedulingService/internal/api/handlers"
	"github.com/mesterhub/MH-SchedulingService/internal/api/middleware"
	"github.com/mesterhub/MH-SchedulingService/internal/service/appointments"
	"github.com/mesterhub/MH-SchedulingService/internal/service/appointments/models"
)

const (
	msgInvalidProfessionalID = "некорректный ID мастера"
	msgInvalidCustomerID     = "некорректный ID клиента"
	msgInvalidStatus         = "некорректный статус записи"
	msgInvalidDate           = "некорректный формат даты, ожидается RFC 3339"
	msgMissingOwnerFilter    = "требуется фильтр professionalId или customerId"
	msgForbidden             = "доступ запрещен"
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

// Handle GET /api/v1/appointments
// Query params: professionalId | customerId (один обязателен),
// status, startDate, endDate (опционально, RFC 3339)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	req := &models.ListAppointmentsRequest{UserID: userID}
	query := r.URL.Query()

	if v := query.Get("professionalId"); v != "" {
		professionalID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.logger.Warn("GET /appointments - Invalid professional ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidProfessionalID)
			return
		}
		req.ProfessionalID = &professionalID
	}

	if v := query.Get("customerId"); v != "" {
		customerID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.logger.Warn("GET /appointments - Invalid customer ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidCustomerID)
			return
		}
		req.CustomerID = &customerID
	}

	if v := query.Get("status"); v != "" {
		req.Status = &v
	}

	if v := query.Get("startDate"); v != "" {
		startDate, err := time.Parse(time.RFC3339, v)
		if err != nil {
			h.logger.Warn("GET /appointments - Invalid start date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.StartDate = &startDate
	}

	if v := query.Get("endDate"); v != "" {
		endDate, err := time.Parse(time.RFC3339, v)
		if err != nil {
			h.logger.Warn("GET /appointments - Invalid end date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.EndDate = &endDate
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidStatus):
			h.logger.Warn("GET /appointments - Invalid status filter: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /appointments - Missing owner filter: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgMissingOwnerFilter)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /appointments - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /appointments - Failed to list appointments: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments - Appointments retrieved successfully: user_id=%d, count=%d",
		userID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
