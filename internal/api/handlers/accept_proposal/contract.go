package accept_proposal

import (
	"context"

	acceptProposal "github.com/mesterhub/MH-SchedulingService/internal/usecase/accept_proposal"
)

type AcceptProposalUseCase interface {
	Execute(ctx context.Context, req *acceptProposal.Request) (*acceptProposal.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
