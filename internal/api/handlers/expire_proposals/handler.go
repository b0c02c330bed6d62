package expire_proposals

import (
	"net/http"

	"github.com/mesterhub/MH-SchedulingService/internal/api/handlers"
)

// ExpireProposalsResponse результат прогона истечения предложений
type ExpireProposalsResponse struct {
	Expired int64 `json:"expired"`
}

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

// Handle POST /internal/proposals/expire
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	expired, err := h.service.ExpireDue(r.Context())
	if err != nil {
		h.logger.Error("POST /internal/proposals/expire - Sweep failed: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /internal/proposals/expire - Sweep completed: expired=%d", expired)
	handlers.RespondJSON(w, http.StatusOK, ExpireProposalsResponse{Expired: expired})
}
