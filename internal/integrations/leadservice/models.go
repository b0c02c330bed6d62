package leadservice

// LeadAccess статус доступа мастера к заявке
type LeadAccess struct {
	ProfessionalID int64 `json:"professional_id"`
	RequestID      int64 `json:"request_id"`
	Purchased      bool  `json:"purchased"`
}

// ErrorResponse модель ошибки от LeadService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
