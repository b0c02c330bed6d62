package complete_appointment

import (
	"github.com/mesterhub/MH-SchedulingService/internal/service/appointments/models"
)

// CompleteAppointmentRequest HTTP request model
type CompleteAppointmentRequest struct {
	Notes *string `json:"notes,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CompleteAppointmentRequest) ToServiceRequest(userID int64) *models.CompleteAppointmentRequest {
	return &models.CompleteAppointmentRequest{
		UserID: userID,
		Notes:  r.Notes,
	}
}
