package httpapi

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/MAminn/andrino-academy-sub002/internal/model"
)

const dateLayout = "2006-01-02"

// RegisterValidators регистрирует кастомные правила для binding-тегов
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := model.ParseHHMM(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(dateLayout, fl.Field().String())
		return err == nil
	})
}

func parseDate(s string) time.Time {
	t, _ := time.Parse(dateLayout, s)
	return t
}

type slotRequest struct {
	DayOfWeek int `json:"day_of_week" binding:"min=0,max=6"`
	StartHour int `json:"start_hour" binding:"min=0,max=23"`
	EndHour   int `json:"end_hour" binding:"min=1,max=24"`
}

type submitAvailabilityRequest struct {
	InstructorID  *int64        `json:"instructor_id"`
	TrackID       int64         `json:"track_id" binding:"required"`
	WeekStartDate string        `json:"week_start_date" binding:"required,date"`
	Slots         []slotRequest `json:"slots" binding:"required,min=1,dive"`
}

type confirmAvailabilityRequest struct {
	InstructorID  *int64 `json:"instructor_id"`
	TrackID       int64  `json:"track_id" binding:"required"`
	WeekStartDate string `json:"week_start_date" binding:"required,date"`
}

type createBookingRequest struct {
	AvailabilitySlotID int64  `json:"availability_slot_id" binding:"required"`
	Notes              string `json:"notes"`
}

type feedbackRequest struct {
	Note string `json:"note" binding:"required"`
}

type createSessionRequest struct {
	Title        string `json:"title" binding:"required"`
	TrackID      int64  `json:"track_id" binding:"required"`
	InstructorID int64  `json:"instructor_id" binding:"required"`
	Date         string `json:"date" binding:"required,date"`
	StartTime    string `json:"start_time" binding:"required,hhmm"`
	EndTime      string `json:"end_time" binding:"required,hhmm"`
	Materials    string `json:"materials"`
	Notes        string `json:"notes"`
}

type attachLinkRequest struct {
	BookingID          *int64 `json:"booking_id"`
	AvailabilitySlotID *int64 `json:"availability_slot_id"`
	URL                string `json:"url" binding:"required"`
	Title              string `json:"title"`
}

type transitionRequest struct {
	Action string `json:"action" binding:"required"`
	Note   string `json:"note"`
}

type markAttendanceRequest struct {
	StudentID int64  `json:"student_id" binding:"required"`
	Status    string `json:"status" binding:"required"`
	Notes     string `json:"notes"`
}

type bulkAttendanceRequest struct {
	Records []markAttendanceRequest `json:"records" binding:"required,min=1,dive"`
}
