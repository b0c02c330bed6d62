package models

import (
	"errors"
	"time"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid proposal status")
)

// Request модели

// RejectProposalRequest запрос на отклонение предложения
type RejectProposalRequest struct {
	UserID          int64   `json:"userId"`
	ResponseMessage *string `json:"responseMessage,omitempty"`
}

// ListProposalsRequest запрос на получение предложений
type ListProposalsRequest struct {
	UserID         int64   `json:"userId"`
	ThreadID       *int64  `json:"threadId,omitempty"`
	ProfessionalID *int64  `json:"professionalId,omitempty"`
	Status         *string `json:"status,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListProposalsRequest) ToDomainFilter() (domain.ProposalFilter, error) {
	filter := domain.ProposalFilter{
		ThreadID:       r.ThreadID,
		ProfessionalID: r.ProfessionalID,
	}

	if r.Status != nil {
		status, err := ToDomainProposalStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// ProposalResponse ответ с данными предложения
type ProposalResponse struct {
	ID             int64  `json:"id"`
	ThreadID       int64  `json:"threadId"`
	ProfessionalID int64  `json:"professionalId"`
	RequestID      int64  `json:"requestId"`
	CustomerID     *int64 `json:"customerId,omitempty"`

	ProposedStart   time.Time `json:"proposedStart"`
	DurationMinutes *int      `json:"durationMinutes,omitempty"`
	Location        *string   `json:"location,omitempty"`
	Notes           *string   `json:"notes,omitempty"`

	QuoteID int64 `json:"quoteId"`

	Status          string  `json:"status"`
	ResponseMessage *string `json:"responseMessage,omitempty"`
	RespondedAt     *string `json:"respondedAt,omitempty"` // ISO 8601
	ExpiresAt       *string `json:"expiresAt,omitempty"`   // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProposalListResponse ответ со списком предложений
type ProposalListResponse struct {
	Proposals []ProposalResponse `json:"proposals"`
}

// FromDomainProposal конвертирует domain модель в DTO
func FromDomainProposal(p *domain.Proposal) *ProposalResponse {
	if p == nil {
		return nil
	}

	resp := &ProposalResponse{
		ID:              p.ID,
		ThreadID:        p.ThreadID,
		ProfessionalID:  p.ProfessionalID,
		RequestID:       p.RequestID,
		CustomerID:      p.CustomerID,
		ProposedStart:   p.ProposedStart,
		DurationMinutes: p.DurationMinutes,
		Location:        p.Location,
		Notes:           p.Notes,
		QuoteID:         p.QuoteID,
		Status:          string(p.Status),
		ResponseMessage: p.ResponseMessage,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}

	if p.RespondedAt != nil {
		respondedStr := p.RespondedAt.Format(time.RFC3339)
		resp.RespondedAt = &respondedStr
	}
	if p.ExpiresAt != nil {
		expiresStr := p.ExpiresAt.Format(time.RFC3339)
		resp.ExpiresAt = &expiresStr
	}

	return resp
}

// FromDomainProposalList конвертирует список domain моделей в DTO
func FromDomainProposalList(proposals []*domain.Proposal) *ProposalListResponse {
	if proposals == nil {
		return &ProposalListResponse{
			Proposals: []ProposalResponse{},
		}
	}

	resp := &ProposalListResponse{
		Proposals: make([]ProposalResponse, len(proposals)),
	}

	for i, proposal := range proposals {
		if proposalResp := FromDomainProposal(proposal); proposalResp != nil {
			resp.Proposals[i] = *proposalResp
		}
	}

	return resp
}

// ToDomainProposalStatus конвертирует строку в domain.ProposalStatus с валидацией
func ToDomainProposalStatus(status string) (domain.ProposalStatus, error) {
	s := domain.ProposalStatus(status)

	validStatuses := []domain.ProposalStatus{
		domain.ProposalStatusProposed,
		domain.ProposalStatusAccepted,
		domain.ProposalStatusRejected,
		domain.ProposalStatusCancelled,
		domain.ProposalStatusExpired,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
