package domain

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusConfirmed               AppointmentStatus = "confirmed"
	StatusRescheduled             AppointmentStatus = "rescheduled"
	StatusCancelledByCustomer     AppointmentStatus = "cancelled_by_customer"
	StatusCancelledByProfessional AppointmentStatus = "cancelled_by_professional"
	StatusCompleted               AppointmentStatus = "completed"
	StatusNoShow                  AppointmentStatus = "no_show"
)

// Appointment подтверждённая запись к мастеру.
// Перенос никогда не меняет время существующей строки: создаётся новая строка,
// а старая помечается RESCHEDULED и связывается с новой через
// rescheduled_from_id / rescheduled_to_id (односвязная цепочка).
type Appointment struct {
	ID             int64
	ProposalID     int64
	ThreadID       int64
	ProfessionalID int64
	CustomerID     int64
	RequestID      int64

	ScheduledStart  time.Time
	ScheduledEnd    time.Time
	DurationMinutes int

	LocationAddress *string
	LocationLat     *float64
	LocationLng     *float64

	ProfessionalNotes *string
	CustomerNotes     *string
	InternalNotes     *string

	Status             AppointmentStatus
	CancelledAt        *time.Time
	CancellationReason *string
	CompletedAt        *time.Time

	RescheduledFromID *int64
	RescheduledToID   *int64

	ConfirmedByCustomerAt *time.Time
	ExternalCalendarUID   *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCancelled returns true if the appointment has been cancelled by either party
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelledByCustomer || a.Status == StatusCancelledByProfessional
}

// IsChainHead returns true if the appointment is the current head of its
// reschedule chain and may itself be rescheduled
func (a *Appointment) IsChainHead() bool {
	return a.Status == StatusConfirmed && a.RescheduledToID == nil
}

// CanBeCancelled returns true if the appointment may still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return !a.IsCancelled() && a.Status != StatusCompleted
}

// CanBeCompleted returns true if the appointment may be marked completed.
// Только CONFIRMED и RESCHEDULED могут быть завершены - отменённые
// и no-show записи завершить нельзя.
func (a *Appointment) CanBeCompleted() bool {
	return a.Status == StatusConfirmed || a.Status == StatusRescheduled
}

// BlocksCalendar returns true if the appointment occupies its time slot
// for availability computation. RESCHEDULED rows are excluded: their slot
// is carried by the successor row in the chain.
func (a *Appointment) BlocksCalendar() bool {
	return a.Status == StatusConfirmed || a.Status == StatusCompleted || a.Status == StatusNoShow
}

// BusyStatuses статусы записей, занимающих время в календаре.
// Используется при расчёте доступных слотов.
var BusyStatuses = []AppointmentStatus{
	StatusConfirmed,
	StatusCompleted,
	StatusNoShow,
}

// AppointmentFilter фильтр для получения записей
type AppointmentFilter struct {
	ProfessionalID *int64
	CustomerID     *int64
	Status         *AppointmentStatus
	StartDate      *time.Time // Начало периода по scheduled_start (опционально)
	EndDate        *time.Time // Конец периода по scheduled_start (опционально)
}
