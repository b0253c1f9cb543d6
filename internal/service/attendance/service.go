package attendance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	txManager      database.TxManager
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	userRepo       user.UserRepository
	workingHours   attendance.WorkingHours
	now            func() time.Time
}

func NewAttendanceService(
	txManager database.TxManager,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	userRepo user.UserRepository,
	workingHours attendance.WorkingHours,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		txManager:      txManager,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		userRepo:       userRepo,
		workingHours:   workingHours,
		now:            time.Now,
	}
}

// today returns the current working-hours calendar day as a UTC date, the
// form used for date-only filters.
func (s *AttendanceServiceImpl) today() time.Time {
	d := s.workingHours.DateOf(s.now())
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *AttendanceServiceImpl) respond(rec attendance.Record) attendance.AttendanceResponse {
	return attendance.NewAttendanceResponse(rec, s.workingHours)
}

// ClockIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, userID string, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !u.Role.RequiresTimeTracking() {
		return attendance.AttendanceResponse{}, attendance.ErrRoleNotEligible
	}

	var saved attendance.Record
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		now := s.now()
		date := s.workingHours.DateOf(now)

		rec, err := s.attendanceRepo.GetByUserAndDateForUpdate(ctx, userID, date)
		exists := true
		if err != nil {
			if !errors.Is(err, attendance.ErrAttendanceNotFound) {
				return err
			}
			rec = attendance.Record{UserID: userID, Date: date}
			exists = false
		}

		next, err := attendance.Apply(rec, attendance.ClockInEvent{
			At:         now,
			Status:     req.DeclaredStatus,
			Location:   req.Location,
			Notes:      req.Notes,
			IsRemote:   req.IsRemote,
			IPAddress:  req.IPAddress,
			DeviceInfo: req.DeviceInfo,
		}, s.workingHours)
		if err != nil {
			return err
		}

		if exists {
			saved, err = s.attendanceRepo.Update(ctx, next)
		} else {
			saved, err = s.attendanceRepo.Create(ctx, next)
		}
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Clock in recorded", "user_id", userID, "status", saved.Status, "remote", saved.IsRemote)
	return s.respond(saved), nil
}

// ClockOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, userID string, req attendance.ClockOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	saved, err := s.applyToday(ctx, userID, func(now time.Time) attendance.Event {
		return attendance.ClockOutEvent{At: now, Notes: req.Notes}
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Clock out recorded",
		"user_id", userID,
		"hours_worked", saved.HoursWorked.String(),
		"overtime_hours", saved.OvertimeHours.String(),
		"approved", saved.Approved,
	)
	return s.respond(saved), nil
}

// StartBreak implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) StartBreak(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	saved, err := s.applyToday(ctx, userID, func(now time.Time) attendance.Event {
		return attendance.StartBreakEvent{At: now}
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Break started", "user_id", userID)
	return s.respond(saved), nil
}

// EndBreak implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) EndBreak(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	saved, err := s.applyToday(ctx, userID, func(now time.Time) attendance.Event {
		return attendance.EndBreakEvent{At: now}
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Break ended", "user_id", userID, "break_duration", saved.BreakDuration.String())
	return s.respond(saved), nil
}

// applyToday locks today's record, applies the event and saves the result.
func (s *AttendanceServiceImpl) applyToday(ctx context.Context, userID string, event func(now time.Time) attendance.Event) (attendance.Record, error) {
	var saved attendance.Record
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		now := s.now()

		rec, err := s.attendanceRepo.GetByUserAndDateForUpdate(ctx, userID, s.workingHours.DateOf(now))
		if err != nil {
			if errors.Is(err, attendance.ErrAttendanceNotFound) {
				return attendance.ErrNoClockInFound
			}
			return err
		}

		next, err := attendance.Apply(rec, event(now), s.workingHours)
		if err != nil {
			return err
		}

		saved, err = s.attendanceRepo.Update(ctx, next)
		return err
	})
	return saved, err
}

// ApproveBatch implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ApproveBatch(ctx context.Context, approverID string, req attendance.ApproveRequest) (attendance.ApproveResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.ApproveResult{}, err
	}

	approver, err := s.userRepo.GetByID(ctx, approverID)
	if err != nil {
		return attendance.ApproveResult{}, err
	}
	if !approver.Role.IsManagerRole() {
		return attendance.ApproveResult{}, user.ErrNotAuthorized
	}

	result := attendance.ApproveResult{Approved: []string{}, Skipped: []string{}}

	ids := make([]string, 0, len(req.AttendanceIDs))
	for _, id := range req.AttendanceIDs {
		if validator.IsValidUUID(id) {
			ids = append(ids, id)
		} else {
			result.Skipped = append(result.Skipped, id)
		}
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if len(ids) == 0 {
			return nil
		}

		records, err := s.attendanceRepo.GetAllByIDs(ctx, ids)
		if err != nil {
			return err
		}

		found := make(map[string]bool, len(records))
		for _, rec := range records {
			found[rec.ID] = true

			allowed, err := s.hasAuthority(ctx, approver, rec.UserID)
			if err != nil {
				return err
			}
			if !allowed {
				result.Skipped = append(result.Skipped, rec.ID)
				continue
			}

			next, err := attendance.Apply(rec, attendance.ApproveEvent{At: s.now(), ApproverID: approver.ID}, s.workingHours)
			if err != nil {
				return err
			}
			if _, err := s.attendanceRepo.Update(ctx, next); err != nil {
				return err
			}
			result.Approved = append(result.Approved, rec.ID)
		}

		for _, id := range ids {
			if !found[id] {
				result.Skipped = append(result.Skipped, id)
			}
		}
		return nil
	})
	if err != nil {
		return attendance.ApproveResult{}, err
	}

	slog.Info("Attendance batch approved",
		"approver_id", approverID,
		"approved", len(result.Approved),
		"skipped", len(result.Skipped),
	)
	return result, nil
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	date := s.workingHours.DateOf(s.now())

	rec, err := s.attendanceRepo.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		if !errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, err
		}
		rec = attendance.Record{UserID: userID, Date: date}
	}
	return s.respond(rec), nil
}

// ListUserAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListUserAttendance(ctx context.Context, callerID, targetUserID string, filter attendance.ListFilter) ([]attendance.AttendanceResponse, error) {
	if err := s.authorizeView(ctx, callerID, targetUserID); err != nil {
		return nil, err
	}

	from, to, err := filter.Range(s.today())
	if err != nil {
		return nil, err
	}

	records, err := s.attendanceRepo.ListByUser(ctx, targetUserID, from, to)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, s.respond(rec))
	}
	return responses, nil
}

// GetStats implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetStats(ctx context.Context, callerID, targetUserID string, filter attendance.ListFilter) (attendance.AttendanceStats, error) {
	if err := s.authorizeView(ctx, callerID, targetUserID); err != nil {
		return attendance.AttendanceStats{}, err
	}

	from, to, err := filter.Range(s.today())
	if err != nil {
		return attendance.AttendanceStats{}, err
	}

	records, err := s.attendanceRepo.ListByUser(ctx, targetUserID, from, to)
	if err != nil {
		return attendance.AttendanceStats{}, err
	}

	return attendance.ComputeStats(targetUserID, records, from, to), nil
}

// GetTodayGlobalStats implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetTodayGlobalStats(ctx context.Context, callerID string) (attendance.GlobalStats, error) {
	caller, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return attendance.GlobalStats{}, err
	}
	if !caller.Role.Can(user.CapabilityViewGlobalStats) {
		return attendance.GlobalStats{}, user.ErrNotAuthorized
	}

	date := s.workingHours.DateOf(s.now())
	records, err := s.attendanceRepo.ListByDate(ctx, date)
	if err != nil {
		return attendance.GlobalStats{}, err
	}

	return attendance.ComputeGlobalStats(date, records, s.workingHours), nil
}

// ListIncomplete implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListIncomplete(ctx context.Context, date time.Time) ([]attendance.AttendanceResponse, error) {
	records, err := s.attendanceRepo.ListIncomplete(ctx, date)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, s.respond(rec))
	}
	return responses, nil
}

// authorizeView allows the user themself, HR and directors, and the user's
// line manager.
func (s *AttendanceServiceImpl) authorizeView(ctx context.Context, callerID, targetUserID string) error {
	if callerID == targetUserID {
		return nil
	}

	caller, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return err
	}

	allowed, err := s.hasAuthority(ctx, caller, targetUserID)
	if err != nil {
		return err
	}
	if !allowed {
		return user.ErrNotAuthorized
	}
	return nil
}

func (s *AttendanceServiceImpl) hasAuthority(ctx context.Context, actor user.User, subjectUserID string) (bool, error) {
	if actor.Role.CanManageEmployees() {
		return true, nil
	}

	subject, err := s.employeeRepo.GetByUserID(ctx, subjectUserID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return false, nil
		}
		return false, err
	}
	return employee.HasAuthority(actor, subject), nil
}
