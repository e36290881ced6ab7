package calendar

import (
	"time"

	"tandem/internal/domain"
)

const eventTitle = "Свободное время"

// WeekStart возвращает понедельник 00:00 недели, содержащей t.
// Чистая функция даты: проекция и отображаемый диапазон всегда
// считают границы недели одинаково.
func WeekStart(t time.Time) time.Time {
	year, month, day := t.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	offset := (int(midnight.Weekday()) + 6) % 7
	return midnight.AddDate(0, 0, -offset)
}

// Project строит события календаря для недели, содержащей reference.
// Результат зависит только от списка окон и самой недели, поэтому любая
// дата внутри одной недели дает одинаковый набор событий.
func Project(windows []domain.AvailabilityWindow, reference time.Time) []domain.AvailabilityEvent {
	from := WeekStart(reference)
	return ProjectRange(windows, from, from.AddDate(0, 0, 7))
}

// ProjectRange строит события для диапазона [from, to). Еженедельное окно
// дает по событию на каждую неделю диапазона, разовое — одно событие, и
// только если его дата видна. Окна за пределами диапазона не показываются,
// но и не трогаются. Неполные события отбрасываются: календарь должен
// деградировать, а не падать.
func ProjectRange(windows []domain.AvailabilityWindow, from, to time.Time) []domain.AvailabilityEvent {
	events := make([]domain.AvailabilityEvent, 0, len(windows))

	for _, w := range windows {
		if w.IsRecurring() {
			if !w.DayOfWeek.Valid() {
				continue
			}

			for week := WeekStart(from); week.Before(to); week = week.AddDate(0, 0, 7) {
				day := week.AddDate(0, 0, weekdayOffset(w.DayOfWeek))
				event, ok := eventOn(w, day)
				if !ok || event.Start.Before(from) || !event.Start.Before(to) {
					continue
				}
				events = append(events, event)
			}
			continue
		}

		date, err := time.ParseInLocation(domain.DateLayout, w.SpecificDate, from.Location())
		if err != nil {
			continue
		}

		event, ok := eventOn(w, date)
		if !ok || event.Start.Before(from) || !event.Start.Before(to) {
			continue
		}
		events = append(events, event)
	}

	return events
}

// ToWindow превращает нарисованный на календаре интервал в окно
// доступности. Обе границы привязываются к ближайшей четверти часа,
// день недели и дата выводятся из start. Свеженарисованные окна по
// умолчанию еженедельные.
func ToWindow(start, end time.Time, recurring bool) domain.AvailabilityWindow {
	start = RoundToQuarterHour(start)
	end = RoundToQuarterHour(end)

	window := domain.AvailabilityWindow{
		StartTime: start.Format(domain.TimeLayout),
		EndTime:   end.Format(domain.TimeLayout),
	}

	if recurring {
		window.DayOfWeek = domain.WeekdayOf(start)
		return window
	}

	oneTime := false
	window.Recurring = &oneTime
	window.SpecificDate = start.Format(domain.DateLayout)

	return window
}

func RoundToQuarterHour(t time.Time) time.Time {
	return t.Round(15 * time.Minute)
}

// IsValidDuration отсекает нулевые и слишком короткие интервалы
// до того, как жест попадет в контроллер.
func IsValidDuration(start, end time.Time, minimumMinutes int) bool {
	if !end.After(start) {
		return false
	}
	return end.Sub(start) >= time.Duration(minimumMinutes)*time.Minute
}

func weekdayOffset(d domain.Weekday) int {
	return (int(d.Time()) + 6) % 7
}

func eventOn(w domain.AvailabilityWindow, day time.Time) (domain.AvailabilityEvent, bool) {
	start, err := time.Parse(domain.TimeLayout, w.StartTime)
	if err != nil {
		return domain.AvailabilityEvent{}, false
	}

	end, err := time.Parse(domain.TimeLayout, w.EndTime)
	if err != nil {
		return domain.AvailabilityEvent{}, false
	}

	event := domain.AvailabilityEvent{
		Title:        eventTitle,
		Start:        time.Date(day.Year(), day.Month(), day.Day(), start.Hour(), start.Minute(), 0, 0, day.Location()),
		End:          time.Date(day.Year(), day.Month(), day.Day(), end.Hour(), end.Minute(), 0, 0, day.Location()),
		DayOfWeek:    w.DayOfWeek,
		StartTime:    w.StartTime,
		EndTime:      w.EndTime,
		Recurring:    w.Recurring,
		SpecificDate: w.SpecificDate,
	}

	if !event.Complete() {
		return domain.AvailabilityEvent{}, false
	}

	return event, true
}
