package reschedule_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("reschedule_appointment: appointment not found")

	// ErrAccessDenied возвращается, когда пользователь не является участником записи
	ErrAccessDenied = errors.New("reschedule_appointment: access denied")

	// ErrNotChainHead возвращается при попытке перенести запись,
	// которая не является актуальной головой цепочки переносов
	ErrNotChainHead = errors.New("reschedule_appointment: appointment cannot be rescheduled")

	// ErrStartInPast возвращается, когда новое время начала не в будущем
	ErrStartInPast = errors.New("reschedule_appointment: new start must be in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_appointment: internal error")
)
