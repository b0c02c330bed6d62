package accept_proposal

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mesterhub/MH-SchedulingService/internal/api/handlers"
	"github.com/mesterhub/MH-SchedulingService/internal/api/middleware"
	acceptProposal "github.com/mesterhub/MH-SchedulingService/internal/usecase/accept_proposal"
)

const (
	msgInvalidProposalID  = "некорректный ID предложения"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "предложение не найдено"
	msgThreadNotFound     = "переписка не найдена"
	msgForbidden          = "доступ запрещен"
	msgInvalidTransition  = "предложение уже обработано"
	msgExpired            = "срок действия предложения истёк"
	msgStartInPast        = "предложенное время уже прошло"
)

type Handler struct {
	useCase AcceptProposalUseCase
	logger  Logger
}

func NewHandler(useCase AcceptProposalUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/proposals/{proposalId}/accept
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	vars := mux.Vars(r)
	proposalID, err := strconv.ParseInt(vars["proposalId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /proposals/{id}/accept - Invalid proposal ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProposalID)
		return
	}

	// Тело опционально: принятие без сообщения - пустое тело
	var req AcceptProposalRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /proposals/{id}/accept - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &acceptProposal.Request{
		ProposalID:      proposalID,
		UserID:          userID,
		ResponseMessage: req.ResponseMessage,
	})
	if err != nil {
		switch {
		case errors.Is(err, acceptProposal.ErrProposalNotFound):
			h.logger.Warn("POST /proposals/{id}/accept - Proposal not found: proposal_id=%d", proposalID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, acceptProposal.ErrThreadNotFound):
			h.logger.Warn("POST /proposals/{id}/accept - Thread not found: proposal_id=%d", proposalID)
			handlers.RespondNotFound(w, msgThreadNotFound)

		case errors.Is(err, acceptProposal.ErrAccessDenied):
			h.logger.Warn("POST /proposals/{id}/accept - Access denied: proposal_id=%d, user_id=%d", proposalID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, acceptProposal.ErrInvalidTransition):
			h.logger.Warn("POST /proposals/{id}/accept - Invalid transition: proposal_id=%d", proposalID)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, acceptProposal.ErrProposalExpired):
			h.logger.Warn("POST /proposals/{id}/accept - Proposal expired: proposal_id=%d", proposalID)
			handlers.RespondGone(w, msgExpired)

		case errors.Is(err, acceptProposal.ErrStartInPast):
			h.logger.Warn("POST /proposals/{id}/accept - Start in past: proposal_id=%d", proposalID)
			handlers.RespondBadRequest(w, msgStartInPast)

		case errors.Is(err, acceptProposal.ErrInvalidInput):
			h.logger.Warn("POST /proposals/{id}/accept - Invalid input: proposal_id=%d, error=%v", proposalID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /proposals/{id}/accept - Failed to accept proposal: proposal_id=%d, user_id=%d, error=%v",
				proposalID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /proposals/{id}/accept - Proposal accepted successfully: proposal_id=%d, user_id=%d",
		proposalID, userID)
	handlers.RespondJSON(w, http.StatusOK, response)
}
