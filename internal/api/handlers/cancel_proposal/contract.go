package cancel_proposal

import "context"

type ProposalService interface {
	Cancel(ctx context.Context, proposalID int64, userID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
