package attendance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/google/uuid"
)

type passThroughTx struct{}

func (passThroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUsers map[string]user.User

func (f fakeUsers) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

type fakeEmployees map[string]employee.Employee

func (f fakeEmployees) GetByUserID(_ context.Context, userID string) (employee.Employee, error) {
	e, ok := f[userID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f fakeEmployees) ListByManager(_ context.Context, managerUserID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f {
		if e.ManagedBy(managerUserID) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeAttendanceRepo struct {
	records map[string]attendance.Record
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]attendance.Record)}
}

func (f *fakeAttendanceRepo) Create(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	for _, existing := range f.records {
		if existing.UserID == rec.UserID && existing.Date.Equal(rec.Date) {
			return attendance.Record{}, attendance.ErrAlreadyClockedIn
		}
	}
	rec.ID = uuid.NewString()
	f.records[rec.ID] = rec
	return rec, nil
}

func (f *fakeAttendanceRepo) Update(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	if _, ok := f.records[rec.ID]; !ok {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	f.records[rec.ID] = rec
	return rec, nil
}

func (f *fakeAttendanceRepo) GetByID(_ context.Context, id string) (attendance.Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	return rec, nil
}

func (f *fakeAttendanceRepo) GetByUserAndDate(_ context.Context, userID string, date time.Time) (attendance.Record, error) {
	for _, rec := range f.records {
		if rec.UserID == userID && rec.Date.Equal(date) {
			return rec, nil
		}
	}
	return attendance.Record{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) GetByUserAndDateForUpdate(ctx context.Context, userID string, date time.Time) (attendance.Record, error) {
	return f.GetByUserAndDate(ctx, userID, date)
}

// GetAllByIDs fails on malformed ids the way a uuid[] cast does.
func (f *fakeAttendanceRepo) GetAllByIDs(_ context.Context, ids []string) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid input syntax for type uuid: %q", id)
		}
		if rec, ok := f.records[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ListByUser(_ context.Context, userID string, from, to time.Time) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, rec := range f.records {
		if rec.UserID == userID && !rec.Date.Before(from) && !rec.Date.After(to) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeAttendanceRepo) ListByDate(_ context.Context, date time.Time) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, rec := range f.records {
		if rec.Date.Equal(date) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ListIncomplete(_ context.Context, date time.Time) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, rec := range f.records {
		if rec.Date.Equal(date) && rec.ClockIn != nil && rec.ClockOut == nil {
			out = append(out, rec)
		}
	}
	return out, nil
}
