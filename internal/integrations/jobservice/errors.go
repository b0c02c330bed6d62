package jobservice

import "errors"

var (
	// ErrJobNotFound возвращается, когда джоба не найдена
	ErrJobNotFound = errors.New("job not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("jobservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("jobservice client: invalid response")
)
