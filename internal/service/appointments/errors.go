package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel возвращается, когда запись не может быть отменена
	ErrCannotCancel = errors.New("appointment cannot be cancelled")

	// ErrCannotComplete возвращается, когда запись не может быть завершена
	ErrCannotComplete = errors.New("appointment cannot be completed")

	// ErrCannotMarkNoShow возвращается, когда запись не может быть помечена no-show
	ErrCannotMarkNoShow = errors.New("appointment cannot be marked as no-show")

	// ErrProposalNotAccepted возвращается при попытке создать запись
	// из непринятого предложения
	ErrProposalNotAccepted = errors.New("proposal is not accepted")

	// ErrNotStartedYet возвращается при попытке пометить no-show запись,
	// время начала которой ещё не наступило
	ErrNotStartedYet = errors.New("appointment has not started yet")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
