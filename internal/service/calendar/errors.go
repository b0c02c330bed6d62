package calendar

import "errors"

var (
	// ErrSettingsNotFound возвращается, когда настройки календаря не найдены
	ErrSettingsNotFound = errors.New("calendar settings not found")

	// ErrOverrideNotFound возвращается, когда блок доступности не найден
	ErrOverrideNotFound = errors.New("availability override not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
