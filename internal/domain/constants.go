package domain

import "github.com/mesterhub/MH-SchedulingService/pkg/types"

// Default calendar settings, применяются при ленивом создании настроек
const (
	DefaultTimezone        = "Europe/Budapest"
	DefaultBufferMinutes   = 15
	DefaultMinAdvanceHours = 24
	DefaultMaxAdvanceDays  = 90
	DefaultDurationMinutes = 60

	DefaultWorkDayStart types.TimeString = "09:00"
	DefaultWorkDayEnd   types.TimeString = "17:00"
)

// Business validation constants
const (
	MinDurationMinutes = 5
	MaxDurationMinutes = 480 // 8 часов

	MaxNotesLength              = 2000
	MaxLocationLength           = 500
	MaxCancellationReasonLength = 500
	MaxResponseMessageLength    = 1000
)

// Proposal lifecycle constants
const (
	// ProposalExpiryDays срок жизни предложения: expires_at = now + 7 дней
	ProposalExpiryDays = 7
)

// Slot computation constants
const (
	// SlotStepMinutes фиксированный шаг перебора кандидатов времени начала
	SlotStepMinutes = 30
)

// ReminderOffsetsMinutes смещения напоминаний до начала записи:
// за сутки и за час. Для каждого смещения создаются напоминания
// обоим участникам (клиенту и мастеру).
var ReminderOffsetsMinutes = []int{1440, 60}

// DateFormat формат дат в API: YYYY-MM-DD
const DateFormat = "2006-01-02"
