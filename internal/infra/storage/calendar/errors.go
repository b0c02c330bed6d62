package calendar

import "errors"

var (
	// ErrSettingsNotFound возвращается, когда настройки календаря не найдены
	ErrSettingsNotFound = errors.New("calendar.repository: calendar settings not found")

	// ErrOverrideNotFound возвращается, когда блок доступности не найден
	ErrOverrideNotFound = errors.New("calendar.repository: availability override not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("calendar.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("calendar.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("calendar.repository: failed to scan row")

	// ErrMarshalHours возвращается при ошибке сериализации рабочих часов
	ErrMarshalHours = errors.New("calendar.repository: failed to marshal weekly hours")
)
