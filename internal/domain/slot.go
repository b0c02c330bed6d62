package domain

import "time"

// Slot непрерывный интервал времени [Start, End). Используется и для
// свободных слотов в выдаче доступности, и для занятых интервалов при
// их расчёте. Слоты в выдаче могут пересекаться между собой: контракт -
// "любое из этих времён начала подходит", а не разбиение дня на
// непересекающиеся интервалы.
type Slot struct {
	Start time.Time
	End   time.Time
}

// Overlaps returns true if the slot really intersects the [start, end) period.
// Граничные случаи (конец одного совпадает с началом другого) пересечением
// не считаются.
func (s Slot) Overlaps(start, end time.Time) bool {
	return s.Start.Before(end) && s.End.After(start)
}
