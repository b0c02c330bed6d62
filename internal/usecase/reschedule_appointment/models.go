package reschedule_appointment

import "time"

// Request модель запроса на перенос записи
type Request struct {
	AppointmentID   int64     // ID переносимой записи
	UserID          int64     // ID пользователя, выполняющего перенос
	NewStart        time.Time // Новое время начала
	DurationMinutes *int      // Новая длительность (опционально, иначе прежняя)
	Reason          *string   // Причина переноса (опционально)
}

// Response модель ответа на перенос записи
type Response struct {
	AppointmentID     int64     `json:"appointmentId"`
	RescheduledFromID int64     `json:"rescheduledFromId"`
	Status            string    `json:"status"`
	ScheduledStart    time.Time `json:"scheduledStart"`
	ScheduledEnd      time.Time `json:"scheduledEnd"`
	DurationMinutes   int       `json:"durationMinutes"`
}
