package leave

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/database"
)

type LeaveServiceImpl struct {
	txManager    database.TxManager
	leaveRepo    leave.LeaveRequestRepository
	employeeRepo employee.EmployeeRepository
	userRepo     user.UserRepository
	location     *time.Location
	now          func() time.Time
}

func NewLeaveService(
	txManager database.TxManager,
	leaveRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	userRepo user.UserRepository,
	location *time.Location,
) leave.LeaveService {
	if location == nil {
		location = time.UTC
	}
	return &LeaveServiceImpl{
		txManager:    txManager,
		leaveRepo:    leaveRepo,
		employeeRepo: employeeRepo,
		userRepo:     userRepo,
		location:     location,
		now:          time.Now,
	}
}

// today is the current calendar day in the company timezone as a UTC date.
func (s *LeaveServiceImpl) today() time.Time {
	n := s.now().In(s.location)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *LeaveServiceImpl) respond(r leave.Request) leave.LeaveRequestResponse {
	return leave.NewLeaveRequestResponse(r, s.today())
}

func (s *LeaveServiceImpl) respondAll(requests []leave.Request) []leave.LeaveRequestResponse {
	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, s.respond(r))
	}
	return responses
}

// employeeOf returns the employee record of userID. Users without one are
// treated as having no manager and the default entitlement.
func (s *LeaveServiceImpl) employeeOf(ctx context.Context, userID string) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{UserID: userID}, nil
		}
		return employee.Employee{}, err
	}
	return emp, nil
}

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, userID string, req leave.SubmitRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	emp, err := s.employeeOf(ctx, userID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var created leave.Request
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		draft, err := leave.NewRequest(leave.Draft{
			UserID:            userID,
			Type:              req.Type,
			StartDate:         req.Start,
			EndDate:           req.End,
			Reason:            req.Reason,
			IsUrgent:          req.IsUrgent,
			EmergencyContact:  req.EmergencyContact,
			ReplacementPerson: req.ReplacementPerson,
			HandoverNotes:     req.HandoverNotes,
			HasManager:        emp.HasManager(),
		}, s.today(), s.now())
		if err != nil {
			return err
		}

		overlapping, err := s.leaveRepo.ListOverlapping(ctx, userID, draft.StartDate, draft.EndDate)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return leave.ErrOverlappingRequest
		}

		if draft.Type.IsBalanceChecked() {
			taken, err := s.leaveRepo.SumApprovedDaysByYear(ctx, userID, draft.StartDate.Year())
			if err != nil {
				return err
			}
			if err := leave.CheckBalance(draft, emp.Entitlement(), taken); err != nil {
				return err
			}
		}

		created, err = s.leaveRepo.Create(ctx, draft)
		return err
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request submitted",
		"request_id", created.ID,
		"user_id", userID,
		"leave_type", created.Type,
		"total_days", created.TotalDays.String(),
		"status", created.Status,
	)
	return s.respond(created), nil
}

// ApproveStage implements leave.LeaveService.
func (s *LeaveServiceImpl) ApproveStage(ctx context.Context, requestID string, stage leave.Stage, approverID string, req leave.ReviewRequest) (leave.LeaveRequestResponse, error) {
	if _, err := leave.ParseStage(string(stage)); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	approver, err := s.userRepo.GetByID(ctx, approverID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var saved leave.Request
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.leaveRepo.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}

		if err := s.authorizeStage(ctx, approver, stage, current); err != nil {
			return err
		}

		next, err := current.Decide(leave.Decision{
			Stage:              stage,
			ApproverID:         approver.ID,
			Outcome:            req.Outcome,
			Comments:           req.Comments,
			EscalateToDirector: req.EscalateToDirector,
			At:                 s.now(),
		})
		if err != nil {
			return err
		}

		saved, err = s.leaveRepo.Update(ctx, next)
		return err
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave stage decided",
		"request_id", saved.ID,
		"stage", stage,
		"approver_id", approver.ID,
		"decision", req.Outcome,
		"status", saved.Status,
	)
	return s.respond(saved), nil
}

// authorizeStage checks that approver may decide stage on r. Nobody reviews
// their own request.
func (s *LeaveServiceImpl) authorizeStage(ctx context.Context, approver user.User, stage leave.Stage, r leave.Request) error {
	if approver.ID == r.UserID {
		return user.ErrNotAuthorized
	}

	switch stage {
	case leave.StageManager:
		if !approver.Role.CanApproveLeaves() {
			return user.ErrNotAuthorized
		}
		if approver.Role.CanManageEmployees() {
			return nil
		}
		owner, err := s.employeeOf(ctx, r.UserID)
		if err != nil {
			return err
		}
		if !employee.HasAuthority(approver, owner) {
			return user.ErrNotAuthorized
		}
		return nil
	case leave.StageHR:
		if !approver.Role.Can(user.CapabilityReviewHRStage) {
			return user.ErrNotAuthorized
		}
		return nil
	case leave.StageDirector:
		if !approver.Role.Can(user.CapabilityReviewDirectorStage) {
			return user.ErrNotAuthorized
		}
		return nil
	default:
		return leave.ErrInvalidStage
	}
}

// Cancel implements leave.LeaveService.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, requestID, callerID string, req leave.CancelRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	caller, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var saved leave.Request
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.leaveRepo.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}

		if current.UserID != caller.ID && !caller.Role.CanApproveLeaves() {
			return user.ErrNotAuthorized
		}

		next, err := current.Cancel(req.Reason, s.today(), s.now())
		if err != nil {
			return err
		}

		saved, err = s.leaveRepo.Update(ctx, next)
		return err
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request cancelled", "request_id", saved.ID, "cancelled_by", caller.ID)
	return s.respond(saved), nil
}

// GetBalance implements leave.LeaveService.
func (s *LeaveServiceImpl) GetBalance(ctx context.Context, userID string, year int) ([]leave.BalanceResponse, error) {
	if year <= 0 {
		year = s.today().Year()
	}

	emp, err := s.employeeOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	taken, err := s.leaveRepo.SumApprovedDaysByYear(ctx, userID, year)
	if err != nil {
		return nil, err
	}

	balances := leave.ComputeBalances(emp.Entitlement(), taken)
	responses := make([]leave.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, leave.NewBalanceResponse(b, year))
	}
	return responses, nil
}

// GetRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) GetRequest(ctx context.Context, requestID, callerID string) (leave.LeaveRequestResponse, error) {
	r, err := s.leaveRepo.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if err := s.authorizeView(ctx, callerID, r.UserID); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return s.respond(r), nil
}

// ListUserRequests implements leave.LeaveService.
func (s *LeaveServiceImpl) ListUserRequests(ctx context.Context, targetUserID, callerID string) ([]leave.LeaveRequestResponse, error) {
	if err := s.authorizeView(ctx, callerID, targetUserID); err != nil {
		return nil, err
	}

	requests, err := s.leaveRepo.ListByUser(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	return s.respondAll(requests), nil
}

// ListPendingApprovals implements leave.LeaveService.
func (s *LeaveServiceImpl) ListPendingApprovals(ctx context.Context, callerID string, stage leave.Stage) ([]leave.LeaveRequestResponse, error) {
	caller, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	var userIDs []string
	switch stage {
	case leave.StageManager:
		if !caller.Role.CanApproveLeaves() {
			return nil, user.ErrNotAuthorized
		}
		if !caller.Role.CanManageEmployees() {
			reports, err := s.employeeRepo.ListByManager(ctx, caller.ID)
			if err != nil {
				return nil, err
			}
			if len(reports) == 0 {
				return []leave.LeaveRequestResponse{}, nil
			}
			userIDs = make([]string, 0, len(reports))
			for _, e := range reports {
				userIDs = append(userIDs, e.UserID)
			}
		}
	case leave.StageHR:
		if !caller.Role.Can(user.CapabilityReviewHRStage) {
			return nil, user.ErrNotAuthorized
		}
	case leave.StageDirector:
		if !caller.Role.Can(user.CapabilityReviewDirectorStage) {
			return nil, user.ErrNotAuthorized
		}
	default:
		return nil, leave.ErrInvalidStage
	}

	requests, err := s.leaveRepo.ListPendingForStage(ctx, stage, userIDs)
	if err != nil {
		return nil, err
	}
	return s.respondAll(requests), nil
}

// authorizeView lets the owner, HR and directors, and the owner's line
// manager read leave data.
func (s *LeaveServiceImpl) authorizeView(ctx context.Context, callerID, ownerID string) error {
	if callerID == ownerID {
		return nil
	}

	caller, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return err
	}
	if caller.Role.CanManageEmployees() {
		return nil
	}

	owner, err := s.employeeOf(ctx, ownerID)
	if err != nil {
		return err
	}
	if !employee.HasAuthority(caller, owner) {
		return user.ErrNotAuthorized
	}
	return nil
}
