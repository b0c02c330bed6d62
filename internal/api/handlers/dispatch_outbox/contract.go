package dispatch_outbox

import "context"

type OutboxService interface {
	DispatchPending(ctx context.Context, limit uint64) (dispatched int, failed int, err error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
