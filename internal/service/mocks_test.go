package service

import (
	"context"
	"time"

	"github.com/MAminn/andrino-academy-sub002/internal/model"
)

// Ручные фейки репозиториев: тесты задают только нужные функции,
// остальные методы возвращают нулевые значения.

type fakeAvailabilityRepo struct {
	getByID            func(ctx context.Context, id int64) (*model.AvailabilitySlot, error)
	hasConfirmed       func(ctx context.Context, instructorID, trackID int64, weekStart time.Time) (bool, error)
	replaceUnconfirmed func(ctx context.Context, instructorID, trackID int64, weekStart time.Time, slots []*model.AvailabilitySlot) error
	confirm            func(ctx context.Context, instructorID, trackID int64, weekStart time.Time) (int64, error)
	list               func(ctx context.Context, filter model.AvailabilityFilter) ([]*model.AvailabilitySlot, error)
}

func (f *fakeAvailabilityRepo) GetByID(ctx context.Context, id int64) (*model.AvailabilitySlot, error) {
	if f.getByID == nil {
		return nil, nil
	}
	return f.getByID(ctx, id)
}

func (f *fakeAvailabilityRepo) HasConfirmed(ctx context.Context, instructorID, trackID int64, weekStart time.Time) (bool, error) {
	if f.hasConfirmed == nil {
		return false, nil
	}
	return f.hasConfirmed(ctx, instructorID, trackID, weekStart)
}

func (f *fakeAvailabilityRepo) ReplaceUnconfirmed(ctx context.Context, instructorID, trackID int64, weekStart time.Time, slots []*model.AvailabilitySlot) error {
	if f.replaceUnconfirmed == nil {
		return nil
	}
	return f.replaceUnconfirmed(ctx, instructorID, trackID, weekStart, slots)
}

func (f *fakeAvailabilityRepo) Confirm(ctx context.Context, instructorID, trackID int64, weekStart time.Time) (int64, error) {
	if f.confirm == nil {
		return 0, nil
	}
	return f.confirm(ctx, instructorID, trackID, weekStart)
}

func (f *fakeAvailabilityRepo) List(ctx context.Context, filter model.AvailabilityFilter) ([]*model.AvailabilitySlot, error) {
	if f.list == nil {
		return nil, nil
	}
	return f.list(ctx, filter)
}

type fakeBookingRepo struct {
	getByID                 func(ctx context.Context, id int64) (*model.Booking, error)
	existsForSlotAndStudent func(ctx context.Context, slotID, studentID int64) (bool, error)
	create                  func(ctx context.Context, booking *model.Booking) error
	deleteAndRefreshSlot    func(ctx context.Context, bookingID, slotID int64) error
	listBySlotIDs           func(ctx context.Context, slotIDs []int64) ([]*model.Booking, error)
	listConfirmedBySlot     func(ctx context.Context, slotID int64) ([]*model.Booking, error)
	updateFeedback          func(ctx context.Context, booking *model.Booking) error
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	if f.getByID == nil {
		return nil, nil
	}
	return f.getByID(ctx, id)
}

func (f *fakeBookingRepo) ExistsForSlotAndStudent(ctx context.Context, slotID, studentID int64) (bool, error) {
	if f.existsForSlotAndStudent == nil {
		return false, nil
	}
	return f.existsForSlotAndStudent(ctx, slotID, studentID)
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	if f.create == nil {
		return nil
	}
	return f.create(ctx, booking)
}

func (f *fakeBookingRepo) DeleteAndRefreshSlot(ctx context.Context, bookingID, slotID int64) error {
	if f.deleteAndRefreshSlot == nil {
		return nil
	}
	return f.deleteAndRefreshSlot(ctx, bookingID, slotID)
}

func (f *fakeBookingRepo) ListBySlotIDs(ctx context.Context, slotIDs []int64) ([]*model.Booking, error) {
	if f.listBySlotIDs == nil {
		return nil, nil
	}
	return f.listBySlotIDs(ctx, slotIDs)
}

func (f *fakeBookingRepo) ListConfirmedBySlot(ctx context.Context, slotID int64) ([]*model.Booking, error) {
	if f.listConfirmedBySlot == nil {
		return nil, nil
	}
	return f.listConfirmedBySlot(ctx, slotID)
}

func (f *fakeBookingRepo) UpdateFeedback(ctx context.Context, booking *model.Booking) error {
	if f.updateFeedback == nil {
		return nil
	}
	return f.updateFeedback(ctx, booking)
}

type fakeSessionRepo struct {
	getByID               func(ctx context.Context, id int64) (*model.Session, error)
	createConflictChecked func(ctx context.Context, session *model.Session) ([]*model.Session, error)
	materialize           func(ctx context.Context, session *model.Session, bookingIDs []int64) (*model.Session, []*model.Session, error)
	setLink               func(ctx context.Context, id int64, link *string, addedAt *time.Time, status model.SessionStatus) error
	compareAndSetStatus   func(ctx context.Context, id int64, from, to model.SessionStatus, note string) (bool, error)
	deleteFn              func(ctx context.Context, id int64) (bool, error)
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id int64) (*model.Session, error) {
	if f.getByID == nil {
		return nil, nil
	}
	return f.getByID(ctx, id)
}

func (f *fakeSessionRepo) CreateConflictChecked(ctx context.Context, session *model.Session) ([]*model.Session, error) {
	if f.createConflictChecked == nil {
		return nil, nil
	}
	return f.createConflictChecked(ctx, session)
}

func (f *fakeSessionRepo) Materialize(ctx context.Context, session *model.Session, bookingIDs []int64) (*model.Session, []*model.Session, error) {
	if f.materialize == nil {
		return session, nil, nil
	}
	return f.materialize(ctx, session, bookingIDs)
}

func (f *fakeSessionRepo) SetLink(ctx context.Context, id int64, link *string, addedAt *time.Time, status model.SessionStatus) error {
	if f.setLink == nil {
		return nil
	}
	return f.setLink(ctx, id, link, addedAt, status)
}

func (f *fakeSessionRepo) CompareAndSetStatus(ctx context.Context, id int64, from, to model.SessionStatus, note string) (bool, error) {
	if f.compareAndSetStatus == nil {
		return true, nil
	}
	return f.compareAndSetStatus(ctx, id, from, to, note)
}

func (f *fakeSessionRepo) Delete(ctx context.Context, id int64) (bool, error) {
	if f.deleteFn == nil {
		return true, nil
	}
	return f.deleteFn(ctx, id)
}

type fakeTrackRepo struct {
	getByID              func(ctx context.Context, id int64) (*model.Track, error)
	listEnrolledStudents func(ctx context.Context, trackID int64) ([]*model.User, error)
}

func (f *fakeTrackRepo) GetByID(ctx context.Context, id int64) (*model.Track, error) {
	if f.getByID == nil {
		return nil, nil
	}
	return f.getByID(ctx, id)
}

func (f *fakeTrackRepo) ListEnrolledStudents(ctx context.Context, trackID int64) ([]*model.User, error) {
	if f.listEnrolledStudents == nil {
		return nil, nil
	}
	return f.listEnrolledStudents(ctx, trackID)
}

type fakeUserRepo struct {
	getByID func(ctx context.Context, id int64) (*model.User, error)
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if f.getByID == nil {
		return nil, nil
	}
	return f.getByID(ctx, id)
}

type fakeAttendanceRepo struct {
	listBySession  func(ctx context.Context, sessionID int64) ([]*model.AttendanceRecord, error)
	insertMissing  func(ctx context.Context, sessionID int64, studentIDs []int64) (int64, error)
	upsert         func(ctx context.Context, record *model.AttendanceRecord) error
	upsertBulk     func(ctx context.Context, records []*model.AttendanceRecord) error
	statsBySession func(ctx context.Context, sessionID int64) (model.AttendanceStats, error)
}

func (f *fakeAttendanceRepo) ListBySession(ctx context.Context, sessionID int64) ([]*model.AttendanceRecord, error) {
	if f.listBySession == nil {
		return nil, nil
	}
	return f.listBySession(ctx, sessionID)
}

func (f *fakeAttendanceRepo) InsertMissing(ctx context.Context, sessionID int64, studentIDs []int64) (int64, error) {
	if f.insertMissing == nil {
		return 0, nil
	}
	return f.insertMissing(ctx, sessionID, studentIDs)
}

func (f *fakeAttendanceRepo) Upsert(ctx context.Context, record *model.AttendanceRecord) error {
	if f.upsert == nil {
		return nil
	}
	return f.upsert(ctx, record)
}

func (f *fakeAttendanceRepo) UpsertBulk(ctx context.Context, records []*model.AttendanceRecord) error {
	if f.upsertBulk == nil {
		return nil
	}
	return f.upsertBulk(ctx, records)
}

func (f *fakeAttendanceRepo) StatsBySession(ctx context.Context, sessionID int64) (model.AttendanceStats, error) {
	if f.statsBySession == nil {
		return model.AttendanceStats{}, nil
	}
	return f.statsBySession(ctx, sessionID)
}

type fakeReconciler struct {
	reconcile func(ctx context.Context, sessionID int64) (int64, error)
	stats     func(ctx context.Context, sessionID int64) (model.AttendanceStats, error)
}

func (f *fakeReconciler) Reconcile(ctx context.Context, sessionID int64) (int64, error) {
	if f.reconcile == nil {
		return 0, nil
	}
	return f.reconcile(ctx, sessionID)
}

func (f *fakeReconciler) Stats(ctx context.Context, sessionID int64) (model.AttendanceStats, error) {
	if f.stats == nil {
		return model.AttendanceStats{}, nil
	}
	return f.stats(ctx, sessionID)
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(s string) *string { return &s }
