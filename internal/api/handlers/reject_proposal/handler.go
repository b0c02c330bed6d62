package reject_proposal

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mesterhub/MH-SchedulingService/internal/api/handlers"
	"github.com/mesterhub/MH-SchedulingService/internal/api/middleware"
	"github.com/mesterhub/MH-SchedulingService/internal/service/proposals"
)

const (
	msgInvalidProposalID  = "некорректный ID предложения"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "предложение не найдено"
	msgThreadNotFound     = "переписка не найдена"
	msgForbidden          = "доступ запрещен"
	msgInvalidTransition  = "предложение уже обработано"
	msgExpired            = "срок действия предложения истёк"
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

// Handle POST /api/v1/proposals/{proposalId}/reject
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	vars := mux.Vars(r)
	proposalID, err := strconv.ParseInt(vars["proposalId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /proposals/{id}/reject - Invalid proposal ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProposalID)
		return
	}

	// Тело опционально: отклонение без сообщения - пустое тело
	var req RejectProposalRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /proposals/{id}/reject - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err = h.service.Reject(r.Context(), proposalID, req.ToServiceRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, proposals.ErrProposalNotFound):
			h.logger.Warn("POST /proposals/{id}/reject - Proposal not found: proposal_id=%d", proposalID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, proposals.ErrThreadNotFound):
			h.logger.Warn("POST /proposals/{id}/reject - Thread not found: proposal_id=%d", proposalID)
			handlers.RespondNotFound(w, msgThreadNotFound)

		case errors.Is(err, proposals.ErrAccessDenied):
			h.logger.Warn("POST /proposals/{id}/reject - Access denied: proposal_id=%d, user_id=%d", proposalID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, proposals.ErrInvalidTransition):
			h.logger.Warn("POST /proposals/{id}/reject - Invalid transition: proposal_id=%d", proposalID)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, proposals.ErrProposalExpired):
			h.logger.Warn("POST /proposals/{id}/reject - Proposal expired: proposal_id=%d", proposalID)
			handlers.RespondGone(w, msgExpired)

		default:
			h.logger.Error("POST /proposals/{id}/reject - Failed to reject proposal: proposal_id=%d, user_id=%d, error=%v",
				proposalID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /proposals/{id}/reject - Proposal rejected successfully: proposal_id=%d, user_id=%d",
		proposalID, userID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
