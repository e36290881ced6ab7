package domain

import (
	"time"
)

// AvailabilityEvent — проекция окна доступности на конкретную неделю
// календаря. События не хранятся: при смене недели или списка окон они
// строятся заново. Поля окна дублируются, чтобы событие можно было
// превратить обратно в окно.
type AvailabilityEvent struct {
	Title        string    `json:"title"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	DayOfWeek    Weekday   `json:"dayOfWeek,omitempty"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	Recurring    *bool     `json:"recurring,omitempty"`
	SpecificDate string    `json:"specificDate,omitempty"`
}

func (e AvailabilityEvent) Window() AvailabilityWindow {
	return AvailabilityWindow{
		DayOfWeek:    e.DayOfWeek,
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
		Recurring:    e.Recurring,
		SpecificDate: e.SpecificDate,
	}
}

func (e AvailabilityEvent) IsRecurring() bool {
	return e.Recurring == nil || *e.Recurring
}

// Complete отсекает события с неполными данными: календарь должен
// переживать частично испорченные данные, а не падать.
func (e AvailabilityEvent) Complete() bool {
	return e.Title != "" && !e.Start.IsZero() && !e.End.IsZero()
}
