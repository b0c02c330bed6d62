package reject_proposal

import (
	"github.com/mesterhub/MH-SchedulingService/internal/service/proposals/models"
)

// RejectProposalRequest HTTP request model
type RejectProposalRequest struct {
	ResponseMessage *string `json:"responseMessage,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *RejectProposalRequest) ToServiceRequest(userID int64) *models.RejectProposalRequest {
	return &models.RejectProposalRequest{
		UserID:          userID,
		ResponseMessage: r.ResponseMessage,
	}
}
