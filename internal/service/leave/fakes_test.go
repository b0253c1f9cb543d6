package leave

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/shopspring/decimal"
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

type fakeLeaveRepo struct {
	requests map[string]leave.Request
	seq      int
}

func newFakeLeaveRepo() *fakeLeaveRepo {
	return &fakeLeaveRepo{requests: make(map[string]leave.Request)}
}

func (f *fakeLeaveRepo) Create(_ context.Context, req leave.Request) (leave.Request, error) {
	f.seq++
	req.ID = fmt.Sprintf("lr-%d", f.seq)
	f.requests[req.ID] = req
	return req, nil
}

func (f *fakeLeaveRepo) Update(_ context.Context, req leave.Request) (leave.Request, error) {
	if _, ok := f.requests[req.ID]; !ok {
		return leave.Request{}, leave.ErrLeaveRequestNotFound
	}
	f.requests[req.ID] = req
	return req, nil
}

func (f *fakeLeaveRepo) GetByID(_ context.Context, id string) (leave.Request, error) {
	req, ok := f.requests[id]
	if !ok {
		return leave.Request{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

func (f *fakeLeaveRepo) GetByIDForUpdate(ctx context.Context, id string) (leave.Request, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeLeaveRepo) ListByUser(_ context.Context, userID string) ([]leave.Request, error) {
	var out []leave.Request
	for _, req := range f.requests {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (f *fakeLeaveRepo) ListOverlapping(_ context.Context, userID string, start, end time.Time) ([]leave.Request, error) {
	var out []leave.Request
	for _, req := range f.requests {
		if req.UserID == userID && req.Overlaps(start, end) {
			out = append(out, req)
		}
	}
	return out, nil
}

func (f *fakeLeaveRepo) SumApprovedDaysByYear(_ context.Context, userID string, year int) (map[leave.Type]decimal.Decimal, error) {
	taken := make(map[leave.Type]decimal.Decimal)
	for _, req := range f.requests {
		if req.UserID == userID && req.Status == leave.StatusApproved && req.StartDate.Year() == year {
			taken[req.Type] = taken[req.Type].Add(req.TotalDays)
		}
	}
	return taken, nil
}

func (f *fakeLeaveRepo) ListPendingForStage(_ context.Context, stage leave.Stage, userIDs []string) ([]leave.Request, error) {
	var out []leave.Request
	for _, req := range f.requests {
		if req.Status.IsFinal() || req.Approval(stage).Status != leave.ApprovalPending {
			continue
		}
		if userIDs != nil && !slices.Contains(userIDs, req.UserID) {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}
