package create_proposal

import (
	"time"

	createProposal "github.com/mesterhub/MH-SchedulingService/internal/usecase/create_proposal"
)

// CreateProposalRequest HTTP request model
type CreateProposalRequest struct {
	ThreadID int64 `json:"threadId"`

	ProposedStart   string  `json:"proposedStart"` // RFC 3339
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	Location        *string `json:"location,omitempty"`
	Notes           *string `json:"notes,omitempty"`

	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	QuoteMessage *string `json:"quoteMessage,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case (с парсингом времени)
func (r *CreateProposalRequest) ToUseCaseRequest(userID int64) (*createProposal.Request, error) {
	proposedStart, err := time.Parse(time.RFC3339, r.ProposedStart)
	if err != nil {
		return nil, err
	}

	return &createProposal.Request{
		UserID:          userID,
		ThreadID:        r.ThreadID,
		ProposedStart:   proposedStart,
		DurationMinutes: r.DurationMinutes,
		Location:        r.Location,
		Notes:           r.Notes,
		Price:           r.Price,
		Currency:        r.Currency,
		QuoteMessage:    r.QuoteMessage,
	}, nil
}

// CreateProposalResponse HTTP response model
type CreateProposalResponse struct {
	ID             int64 `json:"id"`
	ThreadID       int64 `json:"threadId"`
	ProfessionalID int64 `json:"professionalId"`
	RequestID      int64 `json:"requestId"`

	ProposedStart   time.Time `json:"proposedStart"`
	DurationMinutes *int      `json:"durationMinutes,omitempty"`
	Location        *string   `json:"location,omitempty"`
	Notes           *string   `json:"notes,omitempty"`

	QuoteID  int64   `json:"quoteId"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`

	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expiresAt"`

	CreatedAt time.Time `json:"createdAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(result *createProposal.Response) *CreateProposalResponse {
	return &CreateProposalResponse{
		ID:              result.ID,
		ThreadID:        result.ThreadID,
		ProfessionalID:  result.ProfessionalID,
		RequestID:       result.RequestID,
		ProposedStart:   result.ProposedStart,
		DurationMinutes: result.DurationMinutes,
		Location:        result.Location,
		Notes:           result.Notes,
		QuoteID:         result.QuoteID,
		Price:           result.Price,
		Currency:        result.Currency,
		Status:          result.Status,
		ExpiresAt:       result.ExpiresAt,
		CreatedAt:       result.CreatedAt,
	}
}
