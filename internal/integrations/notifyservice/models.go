package notifyservice

import "encoding/json"

// Event доменное событие для доставки уведомлений
type Event struct {
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
}

// ReminderNotification запрос на доставку напоминания получателю
type ReminderNotification struct {
	ReminderID    int64  `json:"reminder_id"`
	AppointmentID int64  `json:"appointment_id"`
	RecipientType string `json:"recipient_type"`
	RecipientID   int64  `json:"recipient_id"`
	MinutesBefore int    `json:"minutes_before"`
	SendEmail     bool   `json:"send_email"`
	SendSMS       bool   `json:"send_sms"`
	SendPush      bool   `json:"send_push"`
}

// ErrorResponse модель ошибки от NotifyService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
