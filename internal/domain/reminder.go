package domain

import "time"

// ReminderStatus represents the status of a reminder
type ReminderStatus string

const (
	ReminderStatusScheduled ReminderStatus = "scheduled"
	ReminderStatusSent      ReminderStatus = "sent"
	ReminderStatusFailed    ReminderStatus = "failed"
	ReminderStatusCancelled ReminderStatus = "cancelled"
)

// RecipientType получатель напоминания
type RecipientType string

const (
	RecipientCustomer     RecipientType = "customer"
	RecipientProfessional RecipientType = "professional"
)

// Reminder запланированное уведомление, привязанное к одной записи
// и одному получателю
type Reminder struct {
	ID            int64
	AppointmentID int64

	RecipientType RecipientType
	RecipientID   int64

	RemindAt      time.Time // scheduled_start - minutes_before
	MinutesBefore int

	SendEmail bool
	SendSMS   bool
	SendPush  bool

	Status       ReminderStatus
	SentAt       *time.Time
	ErrorMessage *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
