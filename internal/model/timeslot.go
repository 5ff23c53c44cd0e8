package model

import (
	"fmt"
	"time"
)

// TimeSlot ограниченный интервал времени в конкретный день,
// границы в минутах от полуночи. Сравнение интервалов закрыто-открытое:
// конец одного может совпадать с началом другого без пересечения.
type TimeSlot struct {
	Date         time.Time
	StartMinutes int
	EndMinutes   int
}

// NewTimeSlot собирает интервал из даты и времени в формате HH:MM
func NewTimeSlot(date time.Time, start, end string) (TimeSlot, error) {
	startMin, err := ParseHHMM(start)
	if err != nil {
		return TimeSlot{}, fmt.Errorf("parse start time: %w", err)
	}

	endMin, err := ParseHHMM(end)
	if err != nil {
		return TimeSlot{}, fmt.Errorf("parse end time: %w", err)
	}

	if endMin <= startMin {
		return TimeSlot{}, fmt.Errorf("end time %q is not after start time %q", end, start)
	}

	return TimeSlot{
		Date:         DateOnly(date),
		StartMinutes: startMin,
		EndMinutes:   endMin,
	}, nil
}

// Overlaps проверяет пересечение двух интервалов: a.start < b.end && b.start < a.end.
// Интервалы в разные дни не пересекаются. Касание границ не считается пересечением.
func (t TimeSlot) Overlaps(other TimeSlot) bool {
	if !t.Date.Equal(other.Date) {
		return false
	}
	return t.StartMinutes < other.EndMinutes && other.StartMinutes < t.EndMinutes
}

// ParseHHMM разбирает время вида "14:30" в минуты от полуночи.
// Принимаются только пять символов с цифрами на своих местах, без знаков и пробелов.
func ParseHHMM(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	for _, i := range [4]int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
		}
	}
	hour := int(s[0]-'0')*10 + int(s[1]-'0')
	minute := int(s[3]-'0')*10 + int(s[4]-'0')
	if hour > 23 || minute > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return hour*60 + minute, nil
}

// FormatHHMM форматирует минуты от полуночи обратно в "HH:MM"
func FormatHHMM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// DateOnly обрезает время до начала дня в UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
