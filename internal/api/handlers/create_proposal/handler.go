package create_proposal

import (
	"errors"
	"net/http"

	"github.com/mesterhub/MH-SchedulingService/internal/api/handlers"
	"github.com/mesterhub/MH-SchedulingService/internal/api/middleware"
	createProposal "github.com/mesterhub/MH-SchedulingService/internal/usecase/create_proposal"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStart       = "некорректный формат времени начала, ожидается RFC 3339"
	msgThreadNotFound     = "переписка не найдена"
	msgForbidden          = "доступ запрещен"
	msgLeadNotPurchased   = "лид не выкуплен"
	msgStartInPast        = "время начала должно быть в будущем"
	msgInvalidInput       = "некорректные данные предложения"
)

type Handler struct {
	useCase CreateProposalUseCase
	logger  Logger
}

func NewHandler(useCase CreateProposalUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/proposals
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var req CreateProposalRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /proposals - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /proposals - Failed to parse proposed start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createProposal.ErrThreadNotFound):
			h.logger.Warn("POST /proposals - Thread not found: thread_id=%d", req.ThreadID)
			handlers.RespondNotFound(w, msgThreadNotFound)

		case errors.Is(err, createProposal.ErrAccessDenied):
			h.logger.Warn("POST /proposals - Access denied: user_id=%d, thread_id=%d", userID, req.ThreadID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createProposal.ErrLeadNotPurchased):
			h.logger.Warn("POST /proposals - Lead not purchased: user_id=%d, thread_id=%d", userID, req.ThreadID)
			handlers.RespondPaymentRequired(w, msgLeadNotPurchased)

		case errors.Is(err, createProposal.ErrStartInPast):
			h.logger.Warn("POST /proposals - Start in past: user_id=%d, thread_id=%d", userID, req.ThreadID)
			handlers.RespondBadRequest(w, msgStartInPast)

		case errors.Is(err, createProposal.ErrInvalidInput):
			h.logger.Warn("POST /proposals - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /proposals - Failed to create proposal: user_id=%d, thread_id=%d, error=%v",
				userID, req.ThreadID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /proposals - Proposal created successfully: proposal_id=%d, user_id=%d, thread_id=%d",
		result.ID, userID, req.ThreadID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
