package model

import "time"

type Role string

const (
	RoleStudent     Role = "student"
	RoleInstructor  Role = "instructor"
	RoleCoordinator Role = "coordinator"
	RoleCEO         Role = "ceo"
)

// IsStaff проверяет может ли роль управлять сессиями и посещаемостью
func (r Role) IsStaff() bool {
	return r == RoleCoordinator || r == RoleCEO
}

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	GradeID   *int64    `json:"grade_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
