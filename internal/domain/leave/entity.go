package leave

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeAnnual        Type = "ANNUAL_LEAVE"
	TypeRTT           Type = "RTT"
	TypeSick          Type = "SICK_LEAVE"
	TypeMaternity     Type = "MATERNITY_LEAVE"
	TypePaternity     Type = "PATERNITY_LEAVE"
	TypeFamilyEvent   Type = "FAMILY_EVENT"
	TypeUnpaid        Type = "UNPAID_LEAVE"
	TypeStudy         Type = "STUDY_LEAVE"
	TypeCompassionate Type = "COMPASSIONATE_LEAVE"
	TypeOther         Type = "OTHER"
)

// TypePolicy is the fixed policy attached to a leave type.
type TypePolicy struct {
	Label                   string
	AnnualCap               int
	RequiresManagerApproval bool
}

var typePolicies = map[Type]TypePolicy{
	TypeAnnual:        {"Annual leave", 25, true},
	TypeRTT:           {"Reduced working time (RTT)", 12, true},
	TypeSick:          {"Sick leave", 365, false},
	TypeMaternity:     {"Maternity leave", 112, false},
	TypePaternity:     {"Paternity leave", 25, false},
	TypeFamilyEvent:   {"Family event", 5, false},
	TypeUnpaid:        {"Unpaid leave", 90, false},
	TypeStudy:         {"Study leave", 30, false},
	TypeCompassionate: {"Compassionate leave", 3, false},
	TypeOther:         {"Other", 0, true},
}

// Types lists every leave type in catalogue order.
func Types() []Type {
	return []Type{
		TypeAnnual, TypeRTT, TypeSick, TypeMaternity, TypePaternity,
		TypeFamilyEvent, TypeUnpaid, TypeStudy, TypeCompassionate, TypeOther,
	}
}

func ParseType(s string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := typePolicies[t]; !ok {
		return "", ErrInvalidLeaveType
	}
	return t, nil
}

func (t Type) Policy() TypePolicy {
	return typePolicies[t]
}

// IsBalanceChecked reports whether submissions of this type are limited by
// the remaining balance.
func (t Type) IsBalanceChecked() bool {
	return t == TypeAnnual || t == TypeRTT
}

type Status string

const (
	StatusPending         Status = "PENDING"
	StatusManagerApproved Status = "MANAGER_APPROVED"
	StatusHRApproved      Status = "HR_APPROVED"
	StatusApproved        Status = "APPROVED"
	StatusRejected        Status = "REJECTED"
	StatusCancelled       Status = "CANCELLED"
)

// IsFinal reports whether no further stage decision can change the status.
func (s Status) IsFinal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// BlockingStatuses are the statuses that reserve a date range for the owner.
func BlockingStatuses() []Status {
	return []Status{StatusPending, StatusManagerApproved, StatusHRApproved, StatusApproved}
}

// ApprovalStatus is the state of one stage. The empty value means the stage
// has not been opened.
type ApprovalStatus string

const (
	ApprovalNone     ApprovalStatus = ""
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// ParseDecision accepts APPROVED or REJECTED.
func ParseDecision(s string) (ApprovalStatus, error) {
	d := ApprovalStatus(strings.ToUpper(strings.TrimSpace(s)))
	if d != ApprovalApproved && d != ApprovalRejected {
		return "", ErrInvalidDecision
	}
	return d, nil
}

type Stage string

const (
	StageManager  Stage = "manager"
	StageHR       Stage = "hr"
	StageDirector Stage = "director"
)

func ParseStage(s string) (Stage, error) {
	stage := Stage(strings.ToLower(strings.TrimSpace(s)))
	switch stage {
	case StageManager, StageHR, StageDirector:
		return stage, nil
	}
	return "", ErrInvalidStage
}

type Approval struct {
	Status     ApprovalStatus
	ApproverID *string
	Date       *time.Time
	Comments   string
}

// Requirements records which stages a request must pass. Fixed at creation,
// except that escalation can switch Director on.
type Requirements struct {
	Manager  bool
	HR       bool
	Director bool
}

type Request struct {
	ID                string
	UserID            string
	Type              Type
	StartDate         time.Time
	EndDate           time.Time
	ReturnDate        time.Time
	TotalDays         decimal.Decimal
	Status            Status
	Reason            string
	IsUrgent          bool
	EmergencyContact  string
	ReplacementPerson string
	HandoverNotes     string
	Requires          Requirements
	Manager           Approval
	HR                Approval
	Director          Approval
	SubmittedDate     time.Time
	FinalApprovalDate *time.Time
	CancelReason      *string
	CancelledDate     *time.Time
	RejectionReason   *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (r Request) Approval(stage Stage) Approval {
	switch stage {
	case StageManager:
		return r.Manager
	case StageHR:
		return r.HR
	default:
		return r.Director
	}
}

func (r Request) withApproval(stage Stage, a Approval) Request {
	switch stage {
	case StageManager:
		r.Manager = a
	case StageHR:
		r.HR = a
	default:
		r.Director = a
	}
	return r
}

func (r Request) IsPending() bool {
	return r.Status == StatusPending || r.Status == StatusManagerApproved || r.Status == StatusHRApproved
}

// IsActive reports whether the leave is approved and covers today.
func (r Request) IsActive(today time.Time) bool {
	return r.Status == StatusApproved && !today.Before(r.StartDate) && !today.After(r.EndDate)
}

// NextStage returns the first stage awaiting a decision.
func (r Request) NextStage() (Stage, bool) {
	if r.Status.IsFinal() {
		return "", false
	}
	for _, stage := range []Stage{StageManager, StageHR, StageDirector} {
		if r.Approval(stage).Status == ApprovalPending {
			return stage, true
		}
	}
	return "", false
}
