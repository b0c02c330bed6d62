package list_proposals

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mesterhub/MH-SchedulingService/internal/api/handlers"
	"github.com/mesterhub/MH-SchedulingService/internal/api/middleware"
	"github.com/mesterhub/MH-SchedulingService/internal/service/proposals"
	"github.com/mesterhub/MH-SchedulingService/internal/service/proposals/models"
)

const (
	msgInvalidThreadID       = "некорректный ID переписки"
	msgInvalidProfessionalID = "некорректный ID мастера"
	msgInvalidStatus         = "некорректный статус предложения"
	msgThreadNotFound        = "переписка не найдена"
	msgForbidden             = "доступ запрещен"
)

type Handler struct {
	service ProposalService
	logger  Logger
}

func NewHandler(service ProposalService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleByThread GET /api/v1/threads/{threadId}/proposals
// Query params: status (опционально)
func (h *Handler) HandleByThread(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	vars := mux.Vars(r)
	threadID, err := strconv.ParseInt(vars["threadId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /threads/{id}/proposals - Invalid thread ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidThreadID)
		return
	}

	req := &models.ListProposalsRequest{
		UserID:   userID,
		ThreadID: &threadID,
		Status:   statusParam(r),
	}

	h.respondList(w, r, req, "GET /threads/{id}/proposals")
}

// HandleByProfessional GET /api/v1/professionals/{professionalId}/proposals
// Query params: status (опционально)
func (h *Handler) HandleByProfessional(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	vars := mux.Vars(r)
	professionalID, err := strconv.ParseInt(vars["professionalId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/proposals - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	req := &models.ListProposalsRequest{
		UserID:         userID,
		ProfessionalID: &professionalID,
		Status:         statusParam(r),
	}

	h.respondList(w, r, req, "GET /professionals/{id}/proposals")
}

func (h *Handler) respondList(w http.ResponseWriter, r *http.Request, req *models.ListProposalsRequest, op string) {
	result, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidStatus):
			h.logger.Warn("%s - Invalid status filter: user_id=%d", op, req.UserID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, proposals.ErrThreadNotFound):
			h.logger.Warn("%s - Thread not found: user_id=%d", op, req.UserID)
			handlers.RespondNotFound(w, msgThreadNotFound)

		case errors.Is(err, proposals.ErrAccessDenied):
			h.logger.Warn("%s - Access denied: user_id=%d", op, req.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, proposals.ErrInvalidInput):
			h.logger.Warn("%s - Invalid input: user_id=%d, error=%v", op, req.UserID, err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("%s - Failed to list proposals: user_id=%d, error=%v", op, req.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Proposals retrieved successfully: user_id=%d, count=%d",
		op, req.UserID, len(result.Proposals))
	handlers.RespondJSON(w, http.StatusOK, result)
}

func statusParam(r *http.Request) *string {
	status := r.URL.Query().Get("status")
	if status == "" {
		return nil
	}
	return &status
}
