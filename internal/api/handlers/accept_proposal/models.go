package accept_proposal

import (
	"time"

	acceptProposal "github.com/mesterhub/MH-SchedulingService/internal/usecase/accept_proposal"
)

// AcceptProposalRequest HTTP request model
type AcceptProposalRequest struct {
	ResponseMessage *string `json:"responseMessage,omitempty"`
}

// AcceptProposalResponse HTTP response model
type AcceptProposalResponse struct {
	ProposalID     int64  `json:"proposalId"`
	ProposalStatus string `json:"proposalStatus"`

	AppointmentID   *int64     `json:"appointmentId,omitempty"`
	ScheduledStart  *time.Time `json:"scheduledStart,omitempty"`
	ScheduledEnd    *time.Time `json:"scheduledEnd,omitempty"`
	DurationMinutes *int       `json:"durationMinutes,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(result *acceptProposal.Response) *AcceptProposalResponse {
	return &AcceptProposalResponse{
		ProposalID:      result.ProposalID,
		ProposalStatus:  result.ProposalStatus,
		AppointmentID:   result.AppointmentID,
		ScheduledStart:  result.ScheduledStart,
		ScheduledEnd:    result.ScheduledEnd,
		DurationMinutes: result.DurationMinutes,
	}
}
