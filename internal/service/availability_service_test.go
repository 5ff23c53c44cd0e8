package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MAminn/andrino-academy-sub002/internal/apperr"
	"github.com/MAminn/andrino-academy-sub002/internal/model"
	"github.com/MAminn/andrino-academy-sub002/internal/repository"
)

// воскресенье
var weekStart = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func newAvailabilityService(avail *fakeAvailabilityRepo, bookings *fakeBookingRepo, tracks *fakeTrackRepo) *AvailabilityService {
	return NewAvailabilityService(avail, bookings, tracks, zap.NewNop(), time.Sunday, 13, 22)
}

func ownTrack(instructorID int64) *fakeTrackRepo {
	return &fakeTrackRepo{
		getByID: func(_ context.Context, id int64) (*model.Track, error) {
			return &model.Track{ID: id, InstructorID: instructorID}, nil
		},
	}
}

func TestSubmitAvailability(t *testing.T) {
	ctx := context.Background()
	inputs := []SlotInput{{DayOfWeek: 1, StartHour: 14, EndHour: 16}}

	t.Run("replaces unconfirmed slots", func(t *testing.T) {
		var replaced []*model.AvailabilitySlot
		avail := &fakeAvailabilityRepo{
			replaceUnconfirmed: func(_ context.Context, _, _ int64, _ time.Time, slots []*model.AvailabilitySlot) error {
				replaced = slots
				return nil
			},
		}
		svc := newAvailabilityService(avail, &fakeBookingRepo{}, ownTrack(10))

		slots, err := svc.Submit(ctx, 10, 1, weekStart, inputs)
		require.NoError(t, err)
		require.Len(t, slots, 1)
		assert.Equal(t, replaced, slots)
		assert.Equal(t, 14, slots[0].StartHour)
	})

	t.Run("rejects wrong week start day", func(t *testing.T) {
		svc := newAvailabilityService(&fakeAvailabilityRepo{}, &fakeBookingRepo{}, ownTrack(10))

		_, err := svc.Submit(ctx, 10, 1, weekStart.AddDate(0, 0, 1), inputs)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("rejects empty slot set", func(t *testing.T) {
		svc := newAvailabilityService(&fakeAvailabilityRepo{}, &fakeBookingRepo{}, ownTrack(10))

		_, err := svc.Submit(ctx, 10, 1, weekStart, nil)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("rejects hours outside teaching window", func(t *testing.T) {
		svc := newAvailabilityService(&fakeAvailabilityRepo{}, &fakeBookingRepo{}, ownTrack(10))

		for _, in := range []SlotInput{
			{DayOfWeek: 0, StartHour: 9, EndHour: 10},
			{DayOfWeek: 0, StartHour: 21, EndHour: 23},
			{DayOfWeek: 0, StartHour: 16, EndHour: 14},
			{DayOfWeek: 7, StartHour: 14, EndHour: 15},
		} {
			_, err := svc.Submit(ctx, 10, 1, weekStart, []SlotInput{in})
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), "%+v", in)
		}
	})

	t.Run("unknown track", func(t *testing.T) {
		tracks := &fakeTrackRepo{
			getByID: func(context.Context, int64) (*model.Track, error) { return nil, nil },
		}
		svc := newAvailabilityService(&fakeAvailabilityRepo{}, &fakeBookingRepo{}, tracks)

		_, err := svc.Submit(ctx, 10, 1, weekStart, inputs)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("foreign track is forbidden", func(t *testing.T) {
		svc := newAvailabilityService(&fakeAvailabilityRepo{}, &fakeBookingRepo{}, ownTrack(99))

		_, err := svc.Submit(ctx, 10, 1, weekStart, inputs)
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	})

	t.Run("confirmed week is immutable", func(t *testing.T) {
		avail := &fakeAvailabilityRepo{
			hasConfirmed: func(context.Context, int64, int64, time.Time) (bool, error) { return true, nil },
		}
		svc := newAvailabilityService(avail, &fakeBookingRepo{}, ownTrack(10))

		_, err := svc.Submit(ctx, 10, 1, weekStart, inputs)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})

	t.Run("confirmation winning the race surfaces as conflict", func(t *testing.T) {
		avail := &fakeAvailabilityRepo{
			replaceUnconfirmed: func(context.Context, int64, int64, time.Time, []*model.AvailabilitySlot) error {
				return repository.ErrWeekConfirmed
			},
		}
		svc := newAvailabilityService(avail, &fakeBookingRepo{}, ownTrack(10))

		_, err := svc.Submit(ctx, 10, 1, weekStart, inputs)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})
}

func TestConfirmAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("confirms pending week", func(t *testing.T) {
		avail := &fakeAvailabilityRepo{
			confirm: func(context.Context, int64, int64, time.Time) (int64, error) { return 3, nil },
		}
		svc := newAvailabilityService(avail, &fakeBookingRepo{}, ownTrack(10))

		require.NoError(t, svc.Confirm(ctx, 10, 1, weekStart))
	})

	t.Run("nothing to confirm", func(t *testing.T) {
		svc := newAvailabilityService(&fakeAvailabilityRepo{}, &fakeBookingRepo{}, ownTrack(10))

		err := svc.Confirm(ctx, 10, 1, weekStart)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("repeated confirm is not found", func(t *testing.T) {
		// Повторное подтверждение не затрагивает строк: is_confirmed уже TRUE
		calls := 0
		avail := &fakeAvailabilityRepo{
			confirm: func(context.Context, int64, int64, time.Time) (int64, error) {
				calls++
				if calls == 1 {
					return 2, nil
				}
				return 0, nil
			},
		}
		svc := newAvailabilityService(avail, &fakeBookingRepo{}, ownTrack(10))

		require.NoError(t, svc.Confirm(ctx, 10, 1, weekStart))
		err := svc.Confirm(ctx, 10, 1, weekStart)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestListAvailability(t *testing.T) {
	ctx := context.Background()

	avail := &fakeAvailabilityRepo{
		list: func(context.Context, model.AvailabilityFilter) ([]*model.AvailabilitySlot, error) {
			return []*model.AvailabilitySlot{
				{ID: 1, IsConfirmed: true},
				{ID: 2, IsConfirmed: true, IsBooked: true},
			}, nil
		},
	}
	bookings := &fakeBookingRepo{
		listBySlotIDs: func(_ context.Context, slotIDs []int64) ([]*model.Booking, error) {
			assert.Equal(t, []int64{1, 2}, slotIDs)
			return []*model.Booking{
				{ID: 7, AvailabilitySlotID: 2, StudentID: 100, StudentName: "Lina"},
				{ID: 8, AvailabilitySlotID: 2, StudentID: 101},
			}, nil
		},
	}
	svc := newAvailabilityService(avail, bookings, ownTrack(10))

	slots, err := svc.List(ctx, model.AvailabilityFilter{})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Empty(t, slots[0].Bookings)
	assert.Len(t, slots[1].Bookings, 2)
}
