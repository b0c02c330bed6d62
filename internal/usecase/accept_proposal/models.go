package accept_proposal

import "time"

// Request модель запроса на принятие предложения
type Request struct {
	ProposalID      int64   // ID предложения
	UserID          int64   // ID клиента
	ResponseMessage *string // Сообщение клиента (опционально)
}

// Response модель ответа с принятым предложением и созданной записью
type Response struct {
	ProposalID     int64
	ProposalStatus string

	AppointmentID   *int64 // NULL, если запись ещё не создана компенсирующим джобом
	ScheduledStart  *time.Time
	ScheduledEnd    *time.Time
	DurationMinutes *int
}
