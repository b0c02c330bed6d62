package list_proposals

import (
	"context"

	"github.com/mesterhub/MH-SchedulingService/internal/service/proposals/models"
)

type ProposalService interface {
	List(ctx context.Context, req *models.ListProposalsRequest) (*models.ProposalListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
