package model

import "time"

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// Valid проверяет что статус из поддерживаемого набора
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	default:
		return false
	}
}

// AttendanceRecord запись посещаемости, уникальна по (session_id, student_id)
type AttendanceRecord struct {
	ID        int64            `json:"id"`
	SessionID int64            `json:"session_id"`
	StudentID int64            `json:"student_id"`
	Status    AttendanceStatus `json:"status"`
	Notes     string           `json:"notes,omitempty"`
	MarkedBy  *int64           `json:"marked_by,omitempty"`
	MarkedAt  time.Time        `json:"marked_at"`

	// Заполняется при выдаче списка
	StudentName string `json:"student_name,omitempty"`
}

// AttendanceStats агрегированная статистика по сессии, всегда считается заново
type AttendanceStats struct {
	Total   int     `json:"total"`
	Present int     `json:"present"`
	Absent  int     `json:"absent"`
	Late    int     `json:"late"`
	Excused int     `json:"excused"`
	Rate    float64 `json:"rate"`
}

// ComputeRate выставляет долю присутствующих, 0 при пустой сессии
func (s *AttendanceStats) ComputeRate() {
	if s.Total == 0 {
		s.Rate = 0
		return
	}
	s.Rate = float64(s.Present) / float64(s.Total)
}
