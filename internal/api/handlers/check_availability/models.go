package check_availability

import (
	"time"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
	getOpenSlots "github.com/mesterhub/MH-SchedulingService/internal/usecase/get_open_slots"
)

// CheckAvailabilityRequest HTTP request model
type CheckAvailabilityRequest struct {
	Date            string `json:"date"` // YYYY-MM-DD
	DurationMinutes *int   `json:"durationMinutes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case (с парсингом даты)
func (r *CheckAvailabilityRequest) ToUseCaseRequest(professionalID int64) (*getOpenSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &getOpenSlots.Request{
		ProfessionalID:  professionalID,
		Date:            date,
		DurationMinutes: r.DurationMinutes,
	}, nil
}

// SlotResponse доступный слот
type SlotResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// CheckAvailabilityResponse HTTP response model
type CheckAvailabilityResponse struct {
	ProfessionalID  int64          `json:"professionalId"`
	Date            string         `json:"date"`
	Timezone        string         `json:"timezone"`
	DurationMinutes int            `json:"durationMinutes"`
	Slots           []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(result *getOpenSlots.Response) *CheckAvailabilityResponse {
	slots := make([]SlotResponse, len(result.Slots))
	for i, slot := range result.Slots {
		slots[i] = SlotResponse{Start: slot.Start, End: slot.End}
	}

	return &CheckAvailabilityResponse{
		ProfessionalID:  result.ProfessionalID,
		Date:            result.Date,
		Timezone:        result.Timezone,
		DurationMinutes: result.DurationMinutes,
		Slots:           slots,
	}
}
