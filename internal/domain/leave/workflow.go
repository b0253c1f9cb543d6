package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/calendar"
	"github.com/shopspring/decimal"
)

// shortSickLeaveDays is the longest sick leave that skips HR review.
const shortSickLeaveDays = 3

// longLeaveDays is the length above which a director must sign off.
const longLeaveDays = 15

// Draft carries the submitter's input plus the org facts needed to build a request.
type Draft struct {
	UserID            string
	Type              Type
	StartDate         time.Time
	EndDate           time.Time
	Reason            string
	IsUrgent          bool
	EmergencyContact  string
	ReplacementPerson string
	HandoverNotes     string
	HasManager        bool
}

func ApprovalRequirements(t Type, totalDays int, isUrgent, hasManager bool) Requirements {
	return Requirements{
		Manager:  hasManager && t.Policy().RequiresManagerApproval,
		HR:       !(t == TypeSick && totalDays <= shortSickLeaveDays),
		Director: totalDays > longLeaveDays || t == TypeUnpaid || t == TypeStudy || isUrgent,
	}
}

// NewRequest validates the date rules and returns the request in its initial
// stage. today is the submission date; now stamps the record.
func NewRequest(d Draft, today, now time.Time) (Request, error) {
	if d.EndDate.Before(d.StartDate) {
		return Request{}, ErrInvalidDateRange
	}
	if !d.StartDate.After(today) {
		return Request{}, ErrTooSoon
	}

	days := calendar.WorkingDays(d.StartDate, d.EndDate)
	if days == 0 {
		return Request{}, ErrNoWorkingDays
	}

	req := Request{
		UserID:            d.UserID,
		Type:              d.Type,
		StartDate:         d.StartDate,
		EndDate:           d.EndDate,
		ReturnDate:        calendar.NextWorkingDay(d.EndDate),
		TotalDays:         decimal.NewFromInt(int64(days)),
		Status:            StatusPending,
		Reason:            d.Reason,
		IsUrgent:          d.IsUrgent,
		EmergencyContact:  d.EmergencyContact,
		ReplacementPerson: d.ReplacementPerson,
		HandoverNotes:     d.HandoverNotes,
		Requires:          ApprovalRequirements(d.Type, days, d.IsUrgent, d.HasManager),
		SubmittedDate:     now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	switch {
	case req.Requires.Manager:
		req.Manager.Status = ApprovalPending
	case req.Requires.HR:
		req.HR.Status = ApprovalPending
	case req.Requires.Director:
		req.Director.Status = ApprovalPending
	default:
		req.Status = StatusApproved
		req.FinalApprovalDate = &now
	}
	return req, nil
}

// Decision is one reviewer's verdict on one stage.
type Decision struct {
	Stage              Stage
	ApproverID         string
	Outcome            ApprovalStatus
	Comments           string
	EscalateToDirector bool
	At                 time.Time
}

// Decide records a stage decision and recomputes the overall status. The
// caller is responsible for checking the reviewer's authority first.
func (r Request) Decide(d Decision) (Request, error) {
	if d.Outcome != ApprovalApproved && d.Outcome != ApprovalRejected {
		return Request{}, ErrInvalidDecision
	}
	if r.Status.IsFinal() {
		return Request{}, ErrRequestFinalized
	}

	current := r.Approval(d.Stage)
	switch {
	case d.Stage == StageHR && r.Requires.Manager && r.Manager.Status != ApprovalApproved:
		return Request{}, ErrPrerequisiteNotMet
	case d.Stage == StageDirector && r.Requires.Director && current.Status == ApprovalNone:
		return Request{}, ErrPrerequisiteNotMet
	case current.Status != ApprovalPending:
		return Request{}, ErrAlreadyReviewed
	}

	approver, at := d.ApproverID, d.At
	r = r.withApproval(d.Stage, Approval{
		Status:     d.Outcome,
		ApproverID: &approver,
		Date:       &at,
		Comments:   d.Comments,
	})

	if d.Outcome == ApprovalRejected && d.Comments != "" {
		reason := d.Comments
		r.RejectionReason = &reason
	}

	if d.EscalateToDirector {
		r.Requires.Director = true
		if d.Stage != StageDirector {
			r.Director = Approval{Status: ApprovalPending}
		}
	}

	if d.Outcome == ApprovalApproved {
		switch d.Stage {
		case StageManager:
			if r.Requires.HR && r.HR.Status == ApprovalNone {
				r.HR.Status = ApprovalPending
			}
		case StageHR:
			if r.Requires.Director && r.Director.Status == ApprovalNone {
				r.Director.Status = ApprovalPending
			}
		}
	}

	r = r.RecomputeStatus(at)
	r.UpdatedAt = at
	return r, nil
}

// RecomputeStatus derives the overall status from the stage statuses and
// requirement flags. Rules are evaluated in order and the first match wins;
// when none matches the status is left unchanged.
func (r Request) RecomputeStatus(at time.Time) Request {
	if r.Status == StatusCancelled {
		return r
	}

	approve := func() {
		r.Status = StatusApproved
		r.FinalApprovalDate = &at
	}

	switch {
	case r.Manager.Status == ApprovalRejected || r.HR.Status == ApprovalRejected || r.Director.Status == ApprovalRejected:
		r.Status = StatusRejected
	case r.Requires.Director && r.Director.Status == ApprovalApproved:
		approve()
	case !r.Requires.Director && r.HR.Status == ApprovalApproved:
		approve()
	case r.Manager.Status == ApprovalApproved && !r.Requires.HR:
		approve()
	case r.Manager.Status == ApprovalApproved && r.Requires.HR:
		r.Status = StatusManagerApproved
	case r.HR.Status == ApprovalApproved && r.Requires.Director:
		r.Status = StatusHRApproved
	}
	return r
}

// CanBeCancelled reports whether the request is still open and starts after today.
func (r Request) CanBeCancelled(today time.Time) bool {
	return r.Status != StatusCancelled && r.Status != StatusRejected && r.StartDate.After(today)
}

func (r Request) Cancel(reason string, today, now time.Time) (Request, error) {
	if !r.CanBeCancelled(today) {
		return Request{}, ErrCannotCancel
	}
	r.Status = StatusCancelled
	r.CancelReason = &reason
	r.CancelledDate = &now
	r.UpdatedAt = now
	return r, nil
}

// Overlaps reports whether the request reserves any date of [start, end].
func (r Request) Overlaps(start, end time.Time) bool {
	for _, s := range BlockingStatuses() {
		if r.Status == s {
			return calendar.Overlaps(r.StartDate, r.EndDate, start, end)
		}
	}
	return false
}

type Balance struct {
	Type        Type
	Entitlement int
	Taken       decimal.Decimal
	Remaining   decimal.Decimal
}

// EntitlementFor returns the yearly allotment of t. Annual leave comes from
// the employee record, every other type from its fixed cap.
func EntitlementFor(t Type, annualEntitlement int) int {
	if t == TypeAnnual {
		return annualEntitlement
	}
	return t.Policy().AnnualCap
}

// ComputeBalances returns one balance per leave type given the approved days
// already taken in the year.
func ComputeBalances(annualEntitlement int, taken map[Type]decimal.Decimal) []Balance {
	balances := make([]Balance, 0, len(typePolicies))
	for _, t := range Types() {
		entitlement := EntitlementFor(t, annualEntitlement)
		used := taken[t]
		balances = append(balances, Balance{
			Type:        t,
			Entitlement: entitlement,
			Taken:       used,
			Remaining:   decimal.NewFromInt(int64(entitlement)).Sub(used),
		})
	}
	return balances
}

// CheckBalance rejects requests for balance-checked types that exceed what is left.
func CheckBalance(req Request, annualEntitlement int, taken map[Type]decimal.Decimal) error {
	if !req.Type.IsBalanceChecked() {
		return nil
	}
	remaining := decimal.NewFromInt(int64(EntitlementFor(req.Type, annualEntitlement))).Sub(taken[req.Type])
	if req.TotalDays.GreaterThan(remaining) {
		return ErrInsufficientBalance
	}
	return nil
}
