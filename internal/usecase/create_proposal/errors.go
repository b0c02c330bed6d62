package create_proposal

import "errors"

var (
	// ErrThreadNotFound возвращается, когда переписка не найдена
	ErrThreadNotFound = errors.New("create_proposal: thread not found")

	// ErrAccessDenied возвращается, когда переписка не принадлежит мастеру
	ErrAccessDenied = errors.New("create_proposal: access denied")

	// ErrLeadNotPurchased возвращается, когда мастер не выкупил заявку
	ErrLeadNotPurchased = errors.New("create_proposal: lead is not purchased")

	// ErrStartInPast возвращается, когда предложенное время уже прошло
	ErrStartInPast = errors.New("create_proposal: proposed start is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_proposal: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_proposal: internal error")
)
