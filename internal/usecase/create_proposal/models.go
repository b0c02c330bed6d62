package create_proposal

import "time"

// Request модель запроса на создание предложения
type Request struct {
	UserID   int64 // ID мастера-автора предложения
	ThreadID int64 // ID переписки

	ProposedStart   time.Time // Предложенное время начала
	DurationMinutes *int      // Длительность (опционально, иначе из настроек календаря)
	Location        *string   // Место оказания услуги (опционально)
	Notes           *string   // Заметки мастера (опционально)

	Price        float64 // Цена
	Currency     string  // Валюта, ISO 4217
	QuoteMessage *string // Сопроводительное сообщение к цене (опционально)
}

// Response модель ответа с созданным предложением
type Response struct {
	ID             int64
	ThreadID       int64
	ProfessionalID int64
	RequestID      int64

	ProposedStart   time.Time
	DurationMinutes *int
	Location        *string
	Notes           *string

	QuoteID  int64
	Price    float64
	Currency string

	Status    string
	ExpiresAt time.Time

	CreatedAt time.Time
}
