package domain

import (
	"time"

	"github.com/mesterhub/MH-SchedulingService/pkg/types"
)

// DayHours рабочие часы одного дня недели
type DayHours struct {
	Start   types.TimeString `json:"start"`
	End     types.TimeString `json:"end"`
	Enabled bool             `json:"enabled"`
}

// WeeklyHours таблица рабочих часов по дням недели.
// Ключи - "monday".."sunday". Отсутствующий день трактуется как
// дефолтное окно 09:00-17:00; явно выключенный день (enabled=false) -
// как нерабочий.
type WeeklyHours map[string]DayHours

// CalendarSettings настройки календаря мастера, ровно одна строка на мастера.
// Создаётся лениво при первом обращении с дефолтными значениями.
type CalendarSettings struct {
	ID             int64
	ProfessionalID int64

	Timezone    string
	WeeklyHours WeeklyHours // NULL = дефолтное окно для всех дней

	BufferMinutes          int
	MinAdvanceHours        int
	MaxAdvanceDays         int
	DefaultDurationMinutes int

	OnlineBookingEnabled bool

	// Точка расширения для синхронизации с внешними календарями; не используется
	ExternalCalendarProvider *string
	ExternalCalendarID       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HoursFor возвращает рабочие часы на указанный день недели.
// Если таблица или день отсутствуют - дефолтное окно;
// если день явно выключен - ok=false.
func (s *CalendarSettings) HoursFor(weekday time.Weekday) (DayHours, bool) {
	fallback := DayHours{
		Start:   DefaultWorkDayStart,
		End:     DefaultWorkDayEnd,
		Enabled: true,
	}

	if s.WeeklyHours == nil {
		return fallback, true
	}

	hours, found := s.WeeklyHours[WeekdayKey(weekday)]
	if !found {
		return fallback, true
	}
	if !hours.Enabled {
		return DayHours{}, false
	}
	return hours, true
}

// DefaultCalendarSettings возвращает настройки календаря с дефолтными
// значениями для мастера, у которого ещё нет сохранённой конфигурации
func DefaultCalendarSettings(professionalID int64) *CalendarSettings {
	return &CalendarSettings{
		ProfessionalID:         professionalID,
		Timezone:               DefaultTimezone,
		WeeklyHours:            nil,
		BufferMinutes:          DefaultBufferMinutes,
		MinAdvanceHours:        DefaultMinAdvanceHours,
		MaxAdvanceDays:         DefaultMaxAdvanceDays,
		DefaultDurationMinutes: DefaultDurationMinutes,
		OnlineBookingEnabled:   true,
	}
}

// WeekdayKey возвращает ключ дня недели для таблицы WeeklyHours
func WeekdayKey(weekday time.Weekday) string {
	switch weekday {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}

// AvailabilityOverride явный блок времени, помеченный как доступный или
// недоступный независимо от записей (отпуск, дополнительные вечерние часы).
type AvailabilityOverride struct {
	ID             int64
	ProfessionalID int64

	StartAt     time.Time
	EndAt       time.Time
	IsAvailable bool

	Reason *string
	Notes  *string

	// Правило повторения хранится как опаковые структурированные данные
	// и движком не интерпретируется
	IsRecurring    bool
	RecurrenceRule []byte

	CreatedAt time.Time
	UpdatedAt time.Time
}
