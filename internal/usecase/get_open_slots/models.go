package get_open_slots

import "time"

// Request модель запроса на расчёт доступных слотов
type Request struct {
	ProfessionalID  int64     // ID мастера
	Date            time.Time // Дата, на которую ищутся слоты
	DurationMinutes *int      // Длительность (опционально, иначе из настроек календаря)
}

// Slot доступный слот
type Slot struct {
	Start time.Time
	End   time.Time
}

// Response модель ответа с доступными слотами
type Response struct {
	ProfessionalID  int64
	Date            string // YYYY-MM-DD в таймзоне мастера
	Timezone        string
	DurationMinutes int
	Slots           []Slot
}
