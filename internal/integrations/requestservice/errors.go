package requestservice

import "errors"

var (
	// ErrRequestNotFound возвращается, когда заявка не найдена
	ErrRequestNotFound = errors.New("request not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("requestservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("requestservice client: invalid response")
)
