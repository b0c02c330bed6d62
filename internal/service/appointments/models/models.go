package models

import (
	"time"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID int64   `json:"userId"`
	Reason *string `json:"reason,omitempty"`
}

// CompleteAppointmentRequest запрос на завершение записи
type CompleteAppointmentRequest struct {
	UserID int64   `json:"userId"`
	Notes  *string `json:"notes,omitempty"`
}

// ListAppointmentsRequest запрос на получение записей
type ListAppointmentsRequest struct {
	UserID         int64      `json:"userId"`
	ProfessionalID *int64     `json:"professionalId,omitempty"`
	CustomerID     *int64     `json:"customerId,omitempty"`
	Status         *string    `json:"status,omitempty"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListAppointmentsRequest) ToDomainFilter() (domain.AppointmentFilter, error) {
	filter := domain.AppointmentFilter{
		ProfessionalID: r.ProfessionalID,
		CustomerID:     r.CustomerID,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
	}

	if r.Status != nil {
		status, err := ToDomainAppointmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID             int64 `json:"id"`
	ProposalID     int64 `json:"proposalId"`
	ThreadID       int64 `json:"threadId"`
	ProfessionalID int64 `json:"professionalId"`
	CustomerID     int64 `json:"customerId"`
	RequestID      int64 `json:"requestId"`

	ScheduledStart  time.Time `json:"scheduledStart"`
	ScheduledEnd    time.Time `json:"scheduledEnd"`
	DurationMinutes int       `json:"durationMinutes"`

	LocationAddress *string  `json:"locationAddress,omitempty"`
	LocationLat     *float64 `json:"locationLat,omitempty"`
	LocationLng     *float64 `json:"locationLng,omitempty"`

	ProfessionalNotes *string `json:"professionalNotes,omitempty"`
	CustomerNotes     *string `json:"customerNotes,omitempty"`

	Status             string  `json:"status"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601
	CompletedAt        *string `json:"completedAt,omitempty"` // ISO 8601

	RescheduledFromID *int64 `json:"rescheduledFromId,omitempty"`
	RescheduledToID   *int64 `json:"rescheduledToId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		ProposalID:         a.ProposalID,
		ThreadID:           a.ThreadID,
		ProfessionalID:     a.ProfessionalID,
		CustomerID:         a.CustomerID,
		RequestID:          a.RequestID,
		ScheduledStart:     a.ScheduledStart,
		ScheduledEnd:       a.ScheduledEnd,
		DurationMinutes:    a.DurationMinutes,
		LocationAddress:    a.LocationAddress,
		LocationLat:        a.LocationLat,
		LocationLng:        a.LocationLng,
		ProfessionalNotes:  a.ProfessionalNotes,
		CustomerNotes:      a.CustomerNotes,
		Status:             string(a.Status),
		CancellationReason: a.CancellationReason,
		RescheduledFromID:  a.RescheduledFromID,
		RescheduledToID:    a.RescheduledToID,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}
	if a.CompletedAt != nil {
		completedStr := a.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &completedStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	if appointments == nil {
		return &AppointmentListResponse{
			Appointments: []AppointmentResponse{},
		}
	}

	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, len(appointments)),
	}

	for i, appointment := range appointments {
		if appointmentResp := FromDomainAppointment(appointment); appointmentResp != nil {
			resp.Appointments[i] = *appointmentResp
		}
	}

	return resp
}

// ToDomainAppointmentStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainAppointmentStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)

	validStatuses := []domain.AppointmentStatus{
		domain.StatusConfirmed,
		domain.StatusRescheduled,
		domain.StatusCancelledByCustomer,
		domain.StatusCancelledByProfessional,
		domain.StatusCompleted,
		domain.StatusNoShow,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
