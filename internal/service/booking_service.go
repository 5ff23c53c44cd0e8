package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/MAminn/andrino-academy-sub002/internal/apperr"
	"github.com/MAminn/andrino-academy-sub002/internal/model"
	"github.com/MAminn/andrino-academy-sub002/internal/repository"
	"github.com/MAminn/andrino-academy-sub002/internal/repository/base"
)

// BookingService управляет заявками студентов на слоты доступности
type BookingService struct {
	availRepo   repository.AvailabilityRepository
	bookingRepo repository.BookingRepository
	trackRepo   repository.TrackRepository
	logger      *zap.Logger
}

func NewBookingService(
	availRepo repository.AvailabilityRepository,
	bookingRepo repository.BookingRepository,
	trackRepo repository.TrackRepository,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		availRepo:   availRepo,
		bookingRepo: bookingRepo,
		trackRepo:   trackRepo,
		logger:      logger,
	}
}

// Book создаёт заявку студента на подтверждённый слот.
// Один слот могут занять несколько студентов, но каждый - только один раз.
func (s *BookingService) Book(ctx context.Context, studentID, slotID int64, notes string) (*model.Booking, error) {
	slot, err := s.availRepo.GetByID(ctx, slotID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if slot == nil {
		return nil, apperr.NotFound("availability slot %d not found", slotID)
	}
	if !slot.IsConfirmed {
		return nil, apperr.Precondition("availability slot is not confirmed yet")
	}

	exists, err := s.bookingRepo.ExistsForSlotAndStudent(ctx, slotID, studentID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if exists {
		return nil, apperr.Conflict("student already booked this slot")
	}

	booking := &model.Booking{
		AvailabilitySlotID: slotID,
		StudentID:          studentID,
		TrackID:            slot.TrackID,
		Status:             model.BookingStatusConfirmed,
		StudentNotes:       notes,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		// Гонка двух одинаковых заявок: проиграв её, получаем нарушение
		// уникального индекса вместо испорченного состояния
		if base.IsUniqueViolation(err) {
			return nil, apperr.Conflict("student already booked this slot")
		}
		return nil, apperr.Internal(err)
	}

	s.logger.Info("Slot booked",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("student_id", studentID),
		zap.Int64("slot_id", slotID),
	)

	return booking, nil
}

// Cancel удаляет заявку владельца. После материализации сессии отмена
// невозможна - отменять нужно саму сессию.
func (s *BookingService) Cancel(ctx context.Context, studentID, bookingID int64) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return apperr.Internal(err)
	}
	if booking == nil {
		return apperr.NotFound("booking %d not found", bookingID)
	}
	if booking.StudentID != studentID {
		return apperr.Forbidden("only the booking owner can cancel it")
	}
	if booking.Status == model.BookingStatusCompleted {
		return apperr.Precondition("completed booking cannot be cancelled")
	}
	if booking.SessionID != nil {
		return apperr.Precondition("a session exists for this booking; cancel the session instead")
	}

	if err := s.bookingRepo.DeleteAndRefreshSlot(ctx, bookingID, booking.AvailabilitySlotID); err != nil {
		return apperr.Internal(err)
	}

	s.logger.Info("Booking cancelled",
		zap.Int64("booking_id", bookingID),
		zap.Int64("student_id", studentID),
		zap.Int64("slot_id", booking.AvailabilitySlotID),
	)

	return nil
}

// SubmitFeedback сохраняет заметку стороны и помечает заявку завершённой.
// Студент пишет в student_notes, преподаватель потока - в instructor_notes.
func (s *BookingService) SubmitFeedback(ctx context.Context, actor *model.User, bookingID int64, note string) (*model.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if booking == nil {
		return nil, apperr.NotFound("booking %d not found", bookingID)
	}

	switch actor.Role {
	case model.RoleStudent:
		if booking.StudentID != actor.ID {
			return nil, apperr.Forbidden("only the booking owner can leave student feedback")
		}
		now := time.Now()
		booking.StudentNotes = note
		booking.FeedbackGivenAt = &now

	case model.RoleInstructor:
		track, err := s.trackRepo.GetByID(ctx, booking.TrackID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if track == nil || track.InstructorID != actor.ID {
			return nil, apperr.Forbidden("only the track instructor can leave instructor feedback")
		}
		booking.InstructorNotes = note

	default:
		return nil, apperr.Forbidden("role %s cannot leave booking feedback", actor.Role)
	}

	booking.Status = model.BookingStatusCompleted

	if err := s.bookingRepo.UpdateFeedback(ctx, booking); err != nil {
		return nil, apperr.Internal(err)
	}

	s.logger.Info("Booking feedback submitted",
		zap.Int64("booking_id", bookingID),
		zap.Int64("actor_id", actor.ID),
		zap.String("role", string(actor.Role)),
	)

	return booking, nil
}
