package attendance

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent      Status = "PRESENT"
	StatusAbsent       Status = "ABSENT"
	StatusLate         Status = "LATE"
	StatusHalfDay      Status = "HALF_DAY"
	StatusRemote       Status = "REMOTE"
	StatusSickLeave    Status = "SICK_LEAVE"
	StatusVacation     Status = "VACATION"
	StatusBusinessTrip Status = "BUSINESS_TRIP"
	StatusTraining     Status = "TRAINING"
	StatusOther        Status = "OTHER"
)

var validStatuses = map[Status]struct{}{
	StatusPresent: {}, StatusAbsent: {}, StatusLate: {}, StatusHalfDay: {}, StatusRemote: {},
	StatusSickLeave: {}, StatusVacation: {}, StatusBusinessTrip: {}, StatusTraining: {}, StatusOther: {},
}

func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := validStatuses[status]; !ok {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// DayState is the position of a record in the daily clock cycle.
type DayState string

const (
	StateEmpty      DayState = "EMPTY"
	StateClockedIn  DayState = "CLOCKED_IN"
	StateOnBreak    DayState = "ON_BREAK"
	StateClockedOut DayState = "CLOCKED_OUT"
)

// Record is one user's attendance for one calendar day. Values are treated as
// immutable: transitions return a modified copy.
type Record struct {
	ID            string
	UserID        string
	Date          time.Time
	ClockIn       *time.Time
	ClockOut      *time.Time
	BreakStart    *time.Time
	BreakEnd      *time.Time
	HoursWorked   decimal.Decimal
	BreakDuration decimal.Decimal
	OvertimeHours decimal.Decimal
	Status        Status
	Location      string
	IPAddress     string
	DeviceInfo    string
	Notes         string
	IsRemote      bool
	Approved      bool
	ApprovedBy    *string
	ApprovalDate  *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (r Record) State() DayState {
	switch {
	case r.ClockIn == nil:
		return StateEmpty
	case r.ClockOut != nil:
		return StateClockedOut
	case r.IsOnBreak():
		return StateOnBreak
	default:
		return StateClockedIn
	}
}

func (r Record) IsOnBreak() bool {
	return r.BreakStart != nil && r.BreakEnd == nil
}

func (r Record) IsComplete() bool {
	return r.ClockIn != nil && r.ClockOut != nil
}

func (r Record) IsLate(wh WorkingHours) bool {
	return r.ClockIn != nil && wh.IsLate(*r.ClockIn)
}

func (r Record) IsEarlyDeparture(wh WorkingHours) bool {
	return r.ClockOut != nil && wh.IsEarlyDeparture(*r.ClockOut)
}

// CountsAsPresent reports whether the user worked on this day.
func (r Record) CountsAsPresent() bool {
	if r.ClockIn == nil {
		return false
	}
	switch r.Status {
	case StatusPresent, StatusLate, StatusRemote, StatusHalfDay:
		return true
	}
	return false
}
