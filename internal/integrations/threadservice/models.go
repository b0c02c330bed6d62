package threadservice

// Thread переписка между клиентом и мастером из ThreadService
type Thread struct {
	ID             int64  `json:"id"`
	ProfessionalID int64  `json:"professional_id"`
	CustomerID     *int64 `json:"customer_id"` // NULL, пока клиент не привязан
	RequestID      int64  `json:"request_id"`
	Status         string `json:"status"`
}

// ErrorResponse модель ошибки от ThreadService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
