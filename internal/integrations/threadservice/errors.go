package threadservice

import "errors"

var (
	// ErrThreadNotFound возвращается, когда переписка не найдена
	ErrThreadNotFound = errors.New("thread not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("threadservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("threadservice client: invalid response")
)
