package get_open_slots

import (
	"time"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
)

// collectBusyPeriods собирает занятые интервалы дня: записи,
// расширенные буфером с обеих сторон, и явные блоки недоступности
// без буфера. Блоки с is_available=true на расчёт не влияют:
// рабочее окно определяется только недельным расписанием.
func collectBusyPeriods(
	appointments []*domain.Appointment,
	overrides []*domain.AvailabilityOverride,
	bufferMinutes int,
) []domain.Slot {
	buffer := time.Duration(bufferMinutes) * time.Minute

	periods := make([]domain.Slot, 0, len(appointments)+len(overrides))
	for _, appointment := range appointments {
		periods = append(periods, domain.Slot{
			Start: appointment.ScheduledStart.Add(-buffer),
			End:   appointment.ScheduledEnd.Add(buffer),
		})
	}

	for _, override := range overrides {
		if override.IsAvailable {
			continue
		}
		periods = append(periods, domain.Slot{
			Start: override.StartAt,
			End:   override.EndAt,
		})
	}

	return periods
}

// scanSlots перебирает кандидатов времени начала от начала рабочего окна
// с фиксированным шагом и возвращает слоты, которые целиком помещаются
// в окно, не раньше earliest и не пересекают занятые интервалы.
// Кандидат, пересекающий занятый интервал, передвигается на конец этого
// интервала и проверяется заново, дальше перебор продолжается тем же
// шагом: слот, начинающийся ровно на границе занятости, не теряется.
// Соседние слоты могут пересекаться между собой: шаг меньше длительности.
func scanSlots(
	windowStart, windowEnd time.Time,
	earliest time.Time,
	duration time.Duration,
	busy []domain.Slot,
) []domain.Slot {
	step := time.Duration(domain.SlotStepMinutes) * time.Minute
	slots := make([]domain.Slot, 0)

	for candidate := windowStart; ; {
		candidateEnd := candidate.Add(duration)
		if candidateEnd.After(windowEnd) {
			break
		}

		if candidate.Before(earliest) {
			candidate = candidate.Add(step)
			continue
		}

		// Конец занятости строго позже кандидата: перебор всегда движется вперёд
		if busyEnd, blocked := latestOverlapEnd(candidate, candidateEnd, busy); blocked {
			candidate = busyEnd
			continue
		}

		slots = append(slots, domain.Slot{Start: candidate, End: candidateEnd})
		candidate = candidate.Add(step)
	}

	return slots
}

// latestOverlapEnd возвращает самый поздний конец среди занятых интервалов,
// пересекающих кандидата [start, end)
func latestOverlapEnd(start, end time.Time, busy []domain.Slot) (time.Time, bool) {
	var latest time.Time
	blocked := false

	for _, period := range busy {
		if period.Overlaps(start, end) && period.End.After(latest) {
			latest = period.End
			blocked = true
		}
	}

	return latest, blocked
}

// maxTime возвращает более позднее из двух времён
func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
