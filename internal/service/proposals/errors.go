package proposals

import "errors"

var (
	// ErrProposalNotFound возвращается, когда предложение не найдено
	ErrProposalNotFound = errors.New("proposal not found")

	// ErrThreadNotFound возвращается, когда переписка не найдена
	ErrThreadNotFound = errors.New("thread not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("invalid proposal status transition")

	// ErrProposalExpired возвращается, когда срок действия предложения истёк
	ErrProposalExpired = errors.New("proposal expired")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
