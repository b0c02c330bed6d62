package reject_proposal

import (
	"context"

	"github.com/mesterhub/MH-SchedulingService/internal/service/proposals/models"
)

type ProposalService interface {
	Reject(ctx context.Context, proposalID int64, req *models.RejectProposalRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
