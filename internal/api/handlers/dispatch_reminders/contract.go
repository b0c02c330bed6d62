package dispatch_reminders

import "context"

type ReminderService interface {
	DispatchDue(ctx context.Context, limit uint64) (sent int, failed int, err error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
