package jobservice

import "time"

// EnsureJobRequest запрос на идемпотентное создание джобы по записи
type EnsureJobRequest struct {
	AppointmentID  int64     `json:"appointment_id"`
	ProfessionalID int64     `json:"professional_id"`
	CustomerID     int64     `json:"customer_id"`
	RequestID      int64     `json:"request_id"`
	ScheduledStart time.Time `json:"scheduled_start"`
	ScheduledEnd   time.Time `json:"scheduled_end"`
}

// Job джоба из JobService
type Job struct {
	ID            int64  `json:"id"`
	AppointmentID int64  `json:"appointment_id"`
	Status        string `json:"status"`
}

// ErrorResponse модель ошибки от JobService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
