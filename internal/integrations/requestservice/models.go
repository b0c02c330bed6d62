package requestservice

// AdvanceRequest запрос на продвижение заявки в статус BOOKED
type AdvanceRequest struct {
	AppointmentID  int64 `json:"appointment_id"`
	ProfessionalID int64 `json:"professional_id"`
}

// ErrorResponse модель ошибки от RequestService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
