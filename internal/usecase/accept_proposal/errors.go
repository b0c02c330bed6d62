package accept_proposal

import "errors"

var (
	// ErrProposalNotFound возвращается, когда предложение не найдено
	ErrProposalNotFound = errors.New("accept_proposal: proposal not found")

	// ErrThreadNotFound возвращается, когда переписка не найдена
	ErrThreadNotFound = errors.New("accept_proposal: thread not found")

	// ErrAccessDenied возвращается, когда предложение принимает не клиент переписки
	ErrAccessDenied = errors.New("accept_proposal: access denied")

	// ErrInvalidTransition возвращается, когда предложение уже в терминальном статусе
	ErrInvalidTransition = errors.New("accept_proposal: invalid proposal status transition")

	// ErrProposalExpired возвращается, когда срок действия предложения истёк
	ErrProposalExpired = errors.New("accept_proposal: proposal expired")

	// ErrStartInPast возвращается, когда предложенное время уже прошло
	ErrStartInPast = errors.New("accept_proposal: proposed start is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("accept_proposal: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("accept_proposal: internal error")
)
