package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/MAminn/andrino-academy-sub002/internal/apperr"
	"github.com/MAminn/andrino-academy-sub002/internal/model"
	"github.com/MAminn/andrino-academy-sub002/internal/render"
	"github.com/MAminn/andrino-academy-sub002/internal/repository"
)

// SlotInput слот из запроса на публикацию доступности
type SlotInput struct {
	DayOfWeek int
	StartHour int
	EndHour   int
}

// AvailabilityService управляет недельной доступностью преподавателей
type AvailabilityService struct {
	availRepo   repository.AvailabilityRepository
	bookingRepo repository.BookingRepository
	trackRepo   repository.TrackRepository
	logger      *zap.Logger

	weekStartDay time.Weekday
	hourMin      int
	hourMax      int
}

func NewAvailabilityService(
	availRepo repository.AvailabilityRepository,
	bookingRepo repository.BookingRepository,
	trackRepo repository.TrackRepository,
	logger *zap.Logger,
	weekStartDay time.Weekday,
	hourMin, hourMax int,
) *AvailabilityService {
	return &AvailabilityService{
		availRepo:    availRepo,
		bookingRepo:  bookingRepo,
		trackRepo:    trackRepo,
		logger:       logger,
		weekStartDay: weekStartDay,
		hourMin:      hourMin,
		hourMax:      hourMax,
	}
}

// Submit публикует набор слотов преподавателя на неделю.
// Прежние неподтверждённые слоты тройки (преподаватель, поток, неделя)
// заменяются; подтверждённая неделя неизменяема.
func (s *AvailabilityService) Submit(ctx context.Context, instructorID, trackID int64, weekStart time.Time, inputs []SlotInput) ([]*model.AvailabilitySlot, error) {
	weekStart = model.DateOnly(weekStart)

	if weekStart.Weekday() != s.weekStartDay {
		return nil, apperr.Validation("week start date must fall on %s, got %s",
			s.weekStartDay, weekStart.Weekday())
	}
	if len(inputs) == 0 {
		return nil, apperr.Validation("at least one slot is required")
	}

	slots := make([]*model.AvailabilitySlot, 0, len(inputs))
	for i, in := range inputs {
		if err := s.validateSlot(in); err != nil {
			return nil, apperr.Validation("slot %d: %v", i, err)
		}
		slots = append(slots, &model.AvailabilitySlot{
			DayOfWeek: in.DayOfWeek,
			StartHour: in.StartHour,
			EndHour:   in.EndHour,
		})
	}

	if err := s.checkInstructorTrack(ctx, instructorID, trackID); err != nil {
		return nil, err
	}

	confirmed, err := s.availRepo.HasConfirmed(ctx, instructorID, trackID, weekStart)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if confirmed {
		return nil, apperr.Conflict("availability for this week is already confirmed and cannot be changed")
	}

	if err := s.availRepo.ReplaceUnconfirmed(ctx, instructorID, trackID, weekStart, slots); err != nil {
		if errors.Is(err, repository.ErrWeekConfirmed) {
			return nil, apperr.Conflict("availability for this week is already confirmed and cannot be changed")
		}
		return nil, apperr.Internal(err)
	}

	s.logger.Info("Availability submitted",
		zap.Int64("instructor_id", instructorID),
		zap.Int64("track_id", trackID),
		zap.Time("week_start", weekStart),
		zap.Int("slot_count", len(slots)),
	)

	return slots, nil
}

func (s *AvailabilityService) validateSlot(in SlotInput) error {
	if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
		return fmt.Errorf("day of week %d is out of range 0-6", in.DayOfWeek)
	}
	if in.StartHour < s.hourMin || in.StartHour > s.hourMax {
		return fmt.Errorf("start hour %d is outside the teaching window %d-%d", in.StartHour, s.hourMin, s.hourMax)
	}
	if in.EndHour < s.hourMin || in.EndHour > s.hourMax {
		return fmt.Errorf("end hour %d is outside the teaching window %d-%d", in.EndHour, s.hourMin, s.hourMax)
	}
	if in.EndHour <= in.StartHour {
		return fmt.Errorf("end hour %d must be after start hour %d", in.EndHour, in.StartHour)
	}
	return nil
}

func (s *AvailabilityService) checkInstructorTrack(ctx context.Context, instructorID, trackID int64) error {
	track, err := s.trackRepo.GetByID(ctx, trackID)
	if err != nil {
		return apperr.Internal(err)
	}
	if track == nil {
		return apperr.NotFound("track %d not found", trackID)
	}
	if track.InstructorID != instructorID {
		return apperr.Forbidden("instructor is not assigned to this track")
	}
	return nil
}

// Confirm подтверждает неделю доступности; действие необратимо
func (s *AvailabilityService) Confirm(ctx context.Context, instructorID, trackID int64, weekStart time.Time) error {
	weekStart = model.DateOnly(weekStart)

	if err := s.checkInstructorTrack(ctx, instructorID, trackID); err != nil {
		return err
	}

	affected, err := s.availRepo.Confirm(ctx, instructorID, trackID, weekStart)
	if err != nil {
		return apperr.Internal(err)
	}
	if affected == 0 {
		return apperr.NotFound("no unconfirmed availability found for this week")
	}

	s.logger.Info("Availability confirmed",
		zap.Int64("instructor_id", instructorID),
		zap.Int64("track_id", trackID),
		zap.Time("week_start", weekStart),
		zap.Int64("slot_count", affected),
	)

	return nil
}

// List выдаёт слоты по фильтру с вложенными заявками и именами студентов
func (s *AvailabilityService) List(ctx context.Context, filter model.AvailabilityFilter) ([]*model.AvailabilitySlot, error) {
	if filter.WeekStart != nil {
		week := model.DateOnly(*filter.WeekStart)
		filter.WeekStart = &week
	}

	slots, err := s.availRepo.List(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(slots) == 0 {
		return slots, nil
	}

	ids := make([]int64, 0, len(slots))
	byID := make(map[int64]*model.AvailabilitySlot, len(slots))
	for _, slot := range slots {
		ids = append(ids, slot.ID)
		byID[slot.ID] = slot
	}

	bookings, err := s.bookingRepo.ListBySlotIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	for _, booking := range bookings {
		slot := byID[booking.AvailabilitySlotID]
		slot.Bookings = append(slot.Bookings, booking)
	}

	return slots, nil
}

// WeekImage рисует недельную сетку слотов преподавателя в PNG
func (s *AvailabilityService) WeekImage(ctx context.Context, instructorID int64, weekStart time.Time) ([]byte, error) {
	week := model.DateOnly(weekStart)
	filter := model.AvailabilityFilter{InstructorID: &instructorID, WeekStart: &week}

	slots, err := s.availRepo.List(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(slots) == 0 {
		return nil, apperr.NotFound("no availability found for this week")
	}

	png, err := render.WeekImage(slots, week, s.hourMin, s.hourMax)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return png, nil
}
