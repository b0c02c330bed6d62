package cancel_proposal

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mesterhub/MH-SchedulingService/internal/api/handlers"
	"github.com/mesterhub/MH-SchedulingService/internal/api/middleware"
	"github.com/mesterhub/MH-SchedulingService/internal/service/proposals"
)

const (
	msgInvalidProposalID = "некорректный ID предложения"
	msgNotFound          = "предложение не найдено"
	msgForbidden         = "доступ запрещен"
	msgInvalidTransition = "предложение уже обработано"
	msgExpired           = "срок действия предложения истёк"
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

// Handle POST /api/v1/proposals/{proposalId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	vars := mux.Vars(r)
	proposalID, err := strconv.ParseInt(vars["proposalId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /proposals/{id}/cancel - Invalid proposal ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProposalID)
		return
	}

	err = h.service.Cancel(r.Context(), proposalID, userID)
	if err != nil {
		switch {
		case errors.Is(err, proposals.ErrProposalNotFound):
			h.logger.Warn("POST /proposals/{id}/cancel - Proposal not found: proposal_id=%d", proposalID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, proposals.ErrAccessDenied):
			h.logger.Warn("POST /proposals/{id}/cancel - Access denied: proposal_id=%d, user_id=%d", proposalID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, proposals.ErrInvalidTransition):
			h.logger.Warn("POST /proposals/{id}/cancel - Invalid transition: proposal_id=%d", proposalID)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, proposals.ErrProposalExpired):
			h.logger.Warn("POST /proposals/{id}/cancel - Proposal expired: proposal_id=%d", proposalID)
			handlers.RespondGone(w, msgExpired)

		default:
			h.logger.Error("POST /proposals/{id}/cancel - Failed to cancel proposal: proposal_id=%d, user_id=%d, error=%v",
				proposalID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /proposals/{id}/cancel - Proposal cancelled successfully: proposal_id=%d, user_id=%d",
		proposalID, userID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
