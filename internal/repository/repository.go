package repository

import "github.com/jackc/pgx/v5/pgxpool"

// Repository агрегат всех репозиториев
type Repository struct {
	Users        UserRepository
	Tracks       TrackRepository
	Availability AvailabilityRepository
	Bookings     BookingRepository
	Sessions     SessionRepository
	Attendance   AttendanceRepository
}

// NewRepository создаёт агрегат поверх одного пула
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Users:        NewUserRepo(pool),
		Tracks:       NewTrackRepo(pool),
		Availability: NewAvailabilityRepo(pool),
		Bookings:     NewBookingRepo(pool),
		Sessions:     NewSessionRepo(pool),
		Attendance:   NewAttendanceRepo(pool),
	}
}
