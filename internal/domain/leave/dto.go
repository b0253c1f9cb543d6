package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/validator"
)

type SubmitRequest struct {
	LeaveType         string `json:"leave_type"`
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
	Reason            string `json:"reason"`
	IsUrgent          bool   `json:"is_urgent"`
	EmergencyContact  string `json:"emergency_contact,omitempty"`
	ReplacementPerson string `json:"replacement_person,omitempty"`
	HandoverNotes     string `json:"handover_notes,omitempty"`

	// Parsed by Validate
	Type  Type      `json:"-"`
	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveType) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type is required",
		})
	} else if t, err := ParseType(r.LeaveType); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type is not a known leave type",
		})
	} else {
		r.Type = t
	}

	if start, ok := validator.IsValidDate(r.StartDate); ok {
		r.Start = start
	} else {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	if end, ok := validator.IsValidDate(r.EndDate); ok {
		r.End = end
	} else {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}
	if validator.ExceedsLength(r.Reason, 1000) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ReviewRequest struct {
	Decision           string `json:"decision"`
	Comments           string `json:"comments,omitempty"`
	EscalateToDirector bool   `json:"escalate_to_director"`

	Outcome ApprovalStatus `json:"-"`
}

func (r *ReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	outcome, err := ParseDecision(r.Decision)
	if err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "decision",
			Message: "decision must be APPROVED or REJECTED",
		})
	}
	r.Outcome = outcome

	if outcome == ApprovalRejected && validator.IsEmpty(r.Comments) {
		errs = append(errs, validator.ValidationError{
			Field:   "comments",
			Message: "comments are required when rejecting",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

func (r *CancelRequest) Validate() error {
	if validator.IsEmpty(r.Reason) {
		return validator.ValidationErrors{{
			Field:   "reason",
			Message: "reason is required",
		}}
	}
	return nil
}

type ApprovalResponse struct {
	Status     ApprovalStatus `json:"status,omitempty"`
	ApproverID *string        `json:"approver_id,omitempty"`
	Date       *time.Time     `json:"date,omitempty"`
	Comments   string         `json:"comments,omitempty"`
}

type LeaveRequestResponse struct {
	ID                       string           `json:"id"`
	UserID                   string           `json:"user_id"`
	LeaveType                Type             `json:"leave_type"`
	StartDate                string           `json:"start_date"`
	EndDate                  string           `json:"end_date"`
	ReturnDate               string           `json:"return_date"`
	TotalDays                string           `json:"total_days"`
	Status                   Status           `json:"status"`
	Reason                   string           `json:"reason"`
	IsUrgent                 bool             `json:"is_urgent"`
	IsActive                 bool             `json:"is_active"`
	RequiresManagerApproval  bool             `json:"requires_manager_approval"`
	RequiresHRApproval       bool             `json:"requires_hr_approval"`
	RequiresDirectorApproval bool             `json:"requires_director_approval"`
	ManagerApproval          ApprovalResponse `json:"manager_approval"`
	HRApproval               ApprovalResponse `json:"hr_approval"`
	DirectorApproval         ApprovalResponse `json:"director_approval"`
	NextStage                *Stage           `json:"next_stage,omitempty"`
	EmergencyContact         string           `json:"emergency_contact,omitempty"`
	ReplacementPerson        string           `json:"replacement_person,omitempty"`
	HandoverNotes            string           `json:"handover_notes,omitempty"`
	SubmittedDate            time.Time        `json:"submitted_date"`
	FinalApprovalDate        *time.Time       `json:"final_approval_date,omitempty"`
	CancelReason             *string          `json:"cancel_reason,omitempty"`
	CancelledDate            *time.Time       `json:"cancelled_date,omitempty"`
	RejectionReason          *string          `json:"rejection_reason,omitempty"`
}

func toApprovalResponse(a Approval) ApprovalResponse {
	return ApprovalResponse{Status: a.Status, ApproverID: a.ApproverID, Date: a.Date, Comments: a.Comments}
}

func NewLeaveRequestResponse(r Request, today time.Time) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:                       r.ID,
		UserID:                   r.UserID,
		LeaveType:                r.Type,
		StartDate:                r.StartDate.Format(calendar.DateLayout),
		EndDate:                  r.EndDate.Format(calendar.DateLayout),
		ReturnDate:               r.ReturnDate.Format(calendar.DateLayout),
		TotalDays:                r.TotalDays.String(),
		Status:                   r.Status,
		Reason:                   r.Reason,
		IsUrgent:                 r.IsUrgent,
		IsActive:                 r.IsActive(today),
		RequiresManagerApproval:  r.Requires.Manager,
		RequiresHRApproval:       r.Requires.HR,
		RequiresDirectorApproval: r.Requires.Director,
		ManagerApproval:          toApprovalResponse(r.Manager),
		HRApproval:               toApprovalResponse(r.HR),
		DirectorApproval:         toApprovalResponse(r.Director),
		EmergencyContact:         r.EmergencyContact,
		ReplacementPerson:        r.ReplacementPerson,
		HandoverNotes:            r.HandoverNotes,
		SubmittedDate:            r.SubmittedDate,
		FinalApprovalDate:        r.FinalApprovalDate,
		CancelReason:             r.CancelReason,
		CancelledDate:            r.CancelledDate,
		RejectionReason:          r.RejectionReason,
	}
	if stage, ok := r.NextStage(); ok {
		resp.NextStage = &stage
	}
	return resp
}

type BalanceResponse struct {
	LeaveType   Type   `json:"leave_type"`
	Label       string `json:"label"`
	Year        int    `json:"year"`
	Entitlement int    `json:"entitlement"`
	Taken       string `json:"taken"`
	Remaining   string `json:"remaining"`
}

func NewBalanceResponse(b Balance, year int) BalanceResponse {
	return BalanceResponse{
		LeaveType:   b.Type,
		Label:       b.Type.Policy().Label,
		Year:        year,
		Entitlement: b.Entitlement,
		Taken:       b.Taken.String(),
		Remaining:   b.Remaining.String(),
	}
}
