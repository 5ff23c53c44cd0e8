package model

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
)

// Booking заявка студента на слот доступности.
// Пара (availability_slot_id, student_id) уникальна, но один слот
// могут занять несколько разных студентов.
type Booking struct {
	ID                 int64         `json:"id"`
	AvailabilitySlotID int64         `json:"availability_slot_id"`
	StudentID          int64         `json:"student_id"`
	TrackID            int64         `json:"track_id"`
	Status             BookingStatus `json:"status"`
	StudentNotes       string        `json:"student_notes,omitempty"`
	InstructorNotes    string        `json:"instructor_notes,omitempty"`
	FeedbackGivenAt    *time.Time    `json:"feedback_given_at,omitempty"`
	SessionID          *int64        `json:"session_id,omitempty"` // появляется после материализации сессии
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`

	// Заполняется при выдаче списка
	StudentName string `json:"student_name,omitempty"`
}
