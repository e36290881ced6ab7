package domain

import (
	"errors"
	"time"
)

const (
	TimeLayout = "15:04"
	DateLayout = "2006-01-02"

	// минимальная длительность окна доступности
	MinWindowMinutes = 15
)

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

var weekdays = map[Weekday]time.Weekday{
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
	Saturday:  time.Saturday,
	Sunday:    time.Sunday,
}

func (d Weekday) Valid() bool {
	_, ok := weekdays[d]
	return ok
}

func (d Weekday) Time() time.Weekday {
	return weekdays[d]
}

func WeekdayOf(t time.Time) Weekday {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

var (
	ErrBadTimeFormat        = errors.New("неверный формат времени, ожидается HH:MM")
	ErrEndNotAfterStart     = errors.New("время окончания должно быть позже времени начала")
	ErrWindowTooShort       = errors.New("длительность окна должна быть не меньше 15 минут")
	ErrRecurringMissingDay  = errors.New("для еженедельного окна не указан день недели")
	ErrOneTimeMissingDate   = errors.New("для разового окна не указана дата")
	ErrConflictingFlags     = errors.New("еженедельное окно не может иметь конкретную дату")
	ErrDuplicateWindow      = errors.New("такое окно доступности уже существует")
	ErrPastTimeSelected     = errors.New("нельзя выбрать время в прошлом")
	ErrModifyPastOccurrence = errors.New("нельзя перемещать прошедшее окно")
	ErrSyncFailed           = errors.New("не удалось сохранить изменения, попробуйте еще раз")
	ErrEditorNotFound       = errors.New("сессия редактирования не найдена")
)

// AvailabilityWindow описывает интервал [StartTime, EndTime) либо еженедельно
// в DayOfWeek (Recurring), либо однократно в SpecificDate. Поля Recurring и
// SpecificDate образуют размеченное объединение: ровно один из вариантов
// действителен в любой момент. Отсутствующий флаг Recurring означает true.
type AvailabilityWindow struct {
	DayOfWeek    Weekday `json:"dayOfWeek,omitempty"`
	StartTime    string  `json:"startTime"`
	EndTime      string  `json:"endTime"`
	Recurring    *bool   `json:"recurring,omitempty"`
	SpecificDate string  `json:"specificDate,omitempty"`
}

func (w AvailabilityWindow) IsRecurring() bool {
	return w.Recurring == nil || *w.Recurring
}

func (w AvailabilityWindow) Validate() error {
	start, err := time.Parse(TimeLayout, w.StartTime)
	if err != nil {
		return ErrBadTimeFormat
	}

	end, err := time.Parse(TimeLayout, w.EndTime)
	if err != nil {
		return ErrBadTimeFormat
	}

	if !end.After(start) {
		return ErrEndNotAfterStart
	}

	if end.Sub(start) < MinWindowMinutes*time.Minute {
		return ErrWindowTooShort
	}

	if w.IsRecurring() {
		if w.SpecificDate != "" {
			return ErrConflictingFlags
		}
		if !w.DayOfWeek.Valid() {
			return ErrRecurringMissingDay
		}
		return nil
	}

	if w.SpecificDate == "" {
		return ErrOneTimeMissingDate
	}
	if _, err := time.Parse(DateLayout, w.SpecificDate); err != nil {
		return ErrOneTimeMissingDate
	}

	return nil
}

// IsDuplicateOf сравнивает окна по структуре: у окон нет постоянных
// идентификаторов, поэтому поиск цели для обновления и удаления идет
// по совпадению полей.
func (w AvailabilityWindow) IsDuplicateOf(other AvailabilityWindow) bool {
	if w.IsRecurring() != other.IsRecurring() {
		return false
	}

	if w.StartTime != other.StartTime || w.EndTime != other.EndTime {
		return false
	}

	if w.IsRecurring() {
		return w.DayOfWeek == other.DayOfWeek
	}

	return w.SpecificDate == other.SpecificDate
}
