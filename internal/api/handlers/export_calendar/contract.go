package export_calendar

import (
	"context"
	"time"
)

type AppointmentService interface {
	ExportICal(ctx context.Context, professionalID int64, from, to time.Time) (string, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
