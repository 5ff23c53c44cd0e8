package model

import "time"

// Track учебный поток: привязан к одному grade и одному преподавателю
type Track struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	GradeID      int64     `json:"grade_id"`
	InstructorID int64     `json:"instructor_id"`
	CreatedAt    time.Time `json:"created_at"`
}

type Grade struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
