package reschedule_appointment

import (
	"time"

	rescheduleAppointment "github.com/mesterhub/MH-SchedulingService/internal/usecase/reschedule_appointment"
)

// RescheduleAppointmentRequest HTTP request model
type RescheduleAppointmentRequest struct {
	NewStart        string  `json:"newStart"` // RFC 3339
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	Reason          *string `json:"reason,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case (с парсингом времени)
func (r *RescheduleAppointmentRequest) ToUseCaseRequest(appointmentID, userID int64) (*rescheduleAppointment.Request, error) {
	newStart, err := time.Parse(time.RFC3339, r.NewStart)
	if err != nil {
		return nil, err
	}

	return &rescheduleAppointment.Request{
		AppointmentID:   appointmentID,
		UserID:          userID,
		NewStart:        newStart,
		DurationMinutes: r.DurationMinutes,
		Reason:          r.Reason,
	}, nil
}
