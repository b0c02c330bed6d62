package calendar_overrides

import (
	"time"

	"github.com/mesterhub/MH-SchedulingService/internal/service/calendar/models"
)

// CreateOverrideRequest HTTP request model
type CreateOverrideRequest struct {
	StartAt     time.Time `json:"startAt"`
	EndAt       time.Time `json:"endAt"`
	IsAvailable bool      `json:"isAvailable"`

	Reason *string `json:"reason,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CreateOverrideRequest) ToServiceRequest(userID int64) *models.CreateOverrideRequest {
	return &models.CreateOverrideRequest{
		UserID:      userID,
		StartAt:     r.StartAt,
		EndAt:       r.EndAt,
		IsAvailable: r.IsAvailable,
		Reason:      r.Reason,
		Notes:       r.Notes,
	}
}
