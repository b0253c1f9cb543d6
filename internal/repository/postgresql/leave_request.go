package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

const leaveRequestColumns = `
	id, user_id, leave_type, start_date, end_date, return_date, total_days, status,
	reason, is_urgent, emergency_contact, replacement_person, handover_notes,
	requires_manager_approval, requires_hr_approval, requires_director_approval,
	manager_status, manager_approver_id, manager_decided_at, manager_comments,
	hr_status, hr_approver_id, hr_decided_at, hr_comments,
	director_status, director_approver_id, director_decided_at, director_comments,
	submitted_date, final_approval_date, cancel_reason, cancelled_date, rejection_reason,
	created_at, updated_at
`

func scanLeaveRequest(row pgx.Row) (leave.Request, error) {
	var r leave.Request
	err := row.Scan(
		&r.ID, &r.UserID, &r.Type, &r.StartDate, &r.EndDate, &r.ReturnDate, &r.TotalDays, &r.Status,
		&r.Reason, &r.IsUrgent, &r.EmergencyContact, &r.ReplacementPerson, &r.HandoverNotes,
		&r.Requires.Manager, &r.Requires.HR, &r.Requires.Director,
		&r.Manager.Status, &r.Manager.ApproverID, &r.Manager.Date, &r.Manager.Comments,
		&r.HR.Status, &r.HR.ApproverID, &r.HR.Date, &r.HR.Comments,
		&r.Director.Status, &r.Director.ApproverID, &r.Director.Date, &r.Director.Comments,
		&r.SubmittedDate, &r.FinalApprovalDate, &r.CancelReason, &r.CancelledDate, &r.RejectionReason,
		&r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func collectLeaveRequests(rows pgx.Rows) ([]leave.Request, error) {
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		r, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}
	return requests, nil
}

func blockingStatusStrings() []string {
	statuses := leave.BlockingStatuses()
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, req leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to generate leave request id: %w", err)
	}
	req.ID = id.String()

	query := `
		INSERT INTO leave_requests (
			id, user_id, leave_type, start_date, end_date, return_date, total_days, status,
			reason, is_urgent, emergency_contact, replacement_person, handover_notes,
			requires_manager_approval, requires_hr_approval, requires_director_approval,
			manager_status, hr_status, director_status,
			submitted_date, final_approval_date
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21
		) RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		req.ID, req.UserID, req.Type, req.StartDate, req.EndDate, req.ReturnDate, req.TotalDays, req.Status,
		req.Reason, req.IsUrgent, req.EmergencyContact, req.ReplacementPerson, req.HandoverNotes,
		req.Requires.Manager, req.Requires.HR, req.Requires.Director,
		req.Manager.Status, req.HR.Status, req.Director.Status,
		req.SubmittedDate, req.FinalApprovalDate,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return req, nil
}

// Update implements leave.LeaveRequestRepository. Only workflow fields change
// after submission.
func (r *leaveRequestRepository) Update(ctx context.Context, req leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests SET
			status = $2,
			requires_director_approval = $3,
			manager_status = $4, manager_approver_id = $5, manager_decided_at = $6, manager_comments = $7,
			hr_status = $8, hr_approver_id = $9, hr_decided_at = $10, hr_comments = $11,
			director_status = $12, director_approver_id = $13, director_decided_at = $14, director_comments = $15,
			final_approval_date = $16, cancel_reason = $17, cancelled_date = $18, rejection_reason = $19,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ID, req.Status, req.Requires.Director,
		req.Manager.Status, req.Manager.ApproverID, req.Manager.Date, req.Manager.Comments,
		req.HR.Status, req.HR.ApproverID, req.HR.Date, req.HR.Comments,
		req.Director.Status, req.Director.ApproverID, req.Director.Date, req.Director.Comments,
		req.FinalApprovalDate, req.CancelReason, req.CancelledDate, req.RejectionReason,
	).Scan(&req.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	return req, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.Request, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetByIDForUpdate(ctx context.Context, id string) (leave.Request, error) {
	return r.getByID(ctx, id, true)
}

func (r *leaveRequestRepository) getByID(ctx context.Context, id string, lock bool) (leave.Request, error) {
	if !validator.IsValidUUID(id) {
		return leave.Request{}, leave.ErrLeaveRequestNotFound
	}

	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	req, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return req, nil
}

// ListByUser implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListByUser(ctx context.Context, userID string) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE user_id = $1
		ORDER BY start_date DESC
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return collectLeaveRequests(rows)
}

// ListOverlapping implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListOverlapping(ctx context.Context, userID string, start, end time.Time) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE user_id = $1
		  AND status = ANY($2)
		  AND start_date <= $4
		  AND end_date >= $3
	`

	rows, err := q.Query(ctx, query, userID, blockingStatusStrings(), start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping leave requests: %w", err)
	}
	return collectLeaveRequests(rows)
}

// SumApprovedDaysByYear implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) SumApprovedDaysByYear(ctx context.Context, userID string, year int) (map[leave.Type]decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT leave_type, COALESCE(SUM(total_days), 0)
		FROM leave_requests
		WHERE user_id = $1
		  AND status = $2
		  AND EXTRACT(YEAR FROM start_date) = $3
		GROUP BY leave_type
	`

	rows, err := q.Query(ctx, query, userID, leave.StatusApproved, year)
	if err != nil {
		return nil, fmt.Errorf("failed to sum approved leave days: %w", err)
	}
	defer rows.Close()

	taken := make(map[leave.Type]decimal.Decimal)
	for rows.Next() {
		var (
			t    leave.Type
			days decimal.Decimal
		)
		if err := rows.Scan(&t, &days); err != nil {
			return nil, fmt.Errorf("failed to scan approved leave days: %w", err)
		}
		taken[t] = days
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate approved leave days: %w", err)
	}

	return taken, nil
}

// ListPendingForStage implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListPendingForStage(ctx context.Context, stage leave.Stage, userIDs []string) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	var statusColumn string
	switch stage {
	case leave.StageManager:
		statusColumn = "manager_status"
	case leave.StageHR:
		statusColumn = "hr_status"
	case leave.StageDirector:
		statusColumn = "director_status"
	default:
		return nil, leave.ErrInvalidStage
	}

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE ` + statusColumn + ` = $1
		  AND status NOT IN ('APPROVED', 'REJECTED', 'CANCELLED')
	`
	args := []any{leave.ApprovalPending}
	if userIDs != nil {
		query += ` AND user_id = ANY($2::uuid[])`
		args = append(args, userIDs)
	}
	query += ` ORDER BY is_urgent DESC, submitted_date`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending leave requests: %w", err)
	}
	return collectLeaveRequests(rows)
}
