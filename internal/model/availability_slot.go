package model

import "time"

// AvailabilitySlot окно доступности преподавателя в рамках одной недели.
// После подтверждения (is_confirmed) набор слотов недели становится неизменяемым.
type AvailabilitySlot struct {
	ID            int64     `json:"id"`
	InstructorID  int64     `json:"instructor_id"`
	TrackID       int64     `json:"track_id"`
	WeekStartDate time.Time `json:"week_start_date"`
	DayOfWeek     int       `json:"day_of_week"` // 0-6 от начала недели
	StartHour     int       `json:"start_hour"`
	EndHour       int       `json:"end_hour"`
	IsBooked      bool      `json:"is_booked"` // кеш, источник правды - bookings
	IsConfirmed   bool      `json:"is_confirmed"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Заполняется при выдаче списка, не из таблицы слотов
	Bookings []*Booking `json:"bookings,omitempty"`
}

// Date возвращает календарный день слота
func (s *AvailabilitySlot) Date() time.Time {
	return DateOnly(s.WeekStartDate).AddDate(0, 0, s.DayOfWeek)
}

// StartTime и EndTime - границы слота в формате HH:MM
func (s *AvailabilitySlot) StartTime() string {
	return FormatHHMM(s.StartHour * 60)
}

func (s *AvailabilitySlot) EndTime() string {
	return FormatHHMM(s.EndHour * 60)
}

// AvailabilityFilter фильтры выборки слотов
type AvailabilityFilter struct {
	InstructorID *int64
	TrackID      *int64
	WeekStart    *time.Time
}
