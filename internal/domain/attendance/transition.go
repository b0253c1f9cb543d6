package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is an input to the daily attendance state machine.
type Event interface {
	apply(rec Record, wh WorkingHours) (Record, error)
}

type ClockInEvent struct {
	At         time.Time
	Status     Status // declared status, PRESENT when empty
	Location   string
	Notes      string
	IsRemote   bool
	IPAddress  string
	DeviceInfo string
}

type StartBreakEvent struct {
	At time.Time
}

type EndBreakEvent struct {
	At time.Time
}

type ClockOutEvent struct {
	At    time.Time
	Notes string
}

type ApproveEvent struct {
	At         time.Time
	ApproverID string
}

// Apply runs ev against rec and returns the resulting record. rec is never
// modified; on error the zero Record is returned alongside it.
func Apply(rec Record, ev Event, wh WorkingHours) (Record, error) {
	return ev.apply(rec, wh)
}

func (e ClockInEvent) apply(rec Record, wh WorkingHours) (Record, error) {
	if rec.ClockIn != nil {
		return Record{}, ErrAlreadyClockedIn
	}

	rec.ClockIn = timePtr(e.At)
	if rec.Date.IsZero() {
		rec.Date = wh.DateOf(e.At)
	}

	rec.Status = StatusPresent
	if e.Status != "" {
		rec.Status = e.Status
	}
	if wh.IsLate(e.At) {
		rec.Status = StatusLate
	}

	rec.Location = e.Location
	rec.IPAddress = e.IPAddress
	rec.DeviceInfo = e.DeviceInfo
	rec.IsRemote = e.IsRemote
	rec.Notes = appendNote(rec.Notes, e.Notes)
	rec.UpdatedAt = e.At
	return rec, nil
}

func (e StartBreakEvent) apply(rec Record, _ WorkingHours) (Record, error) {
	switch {
	case rec.ClockIn == nil:
		return Record{}, ErrNoClockInFound
	case rec.ClockOut != nil:
		return Record{}, ErrAlreadyClockedOut
	case rec.IsOnBreak():
		return Record{}, ErrBreakAlreadyInProgress
	case rec.BreakEnd != nil:
		return Record{}, ErrBreakAlreadyTaken
	}

	rec.BreakStart = timePtr(e.At)
	rec.UpdatedAt = e.At
	return rec, nil
}

func (e EndBreakEvent) apply(rec Record, wh WorkingHours) (Record, error) {
	if rec.ClockIn == nil {
		return Record{}, ErrNoClockInFound
	}
	if !rec.IsOnBreak() {
		return Record{}, ErrNoBreakInProgress
	}
	if e.At.Before(*rec.BreakStart) {
		return Record{}, ErrTimeOrder
	}

	end := e.At
	if rec.ClockOut != nil && end.After(*rec.ClockOut) {
		end = *rec.ClockOut
	}

	rec.BreakEnd = timePtr(end)
	rec.BreakDuration = toHours(rec.BreakEnd.Sub(*rec.BreakStart))
	if rec.ClockOut != nil {
		rec = computeHours(rec, wh)
	}
	rec.UpdatedAt = e.At
	return rec, nil
}

func (e ClockOutEvent) apply(rec Record, wh WorkingHours) (Record, error) {
	if rec.ClockIn == nil {
		return Record{}, ErrNoClockInFound
	}
	if rec.ClockOut != nil {
		return Record{}, ErrAlreadyClockedOut
	}
	if e.At.Before(*rec.ClockIn) {
		return Record{}, ErrTimeOrder
	}

	rec.ClockOut = timePtr(e.At)
	rec.Notes = appendNote(rec.Notes, e.Notes)
	rec = computeHours(rec, wh)
	rec.Approved = !needsManualApproval(rec, wh)
	rec.UpdatedAt = e.At
	return rec, nil
}

func (e ApproveEvent) apply(rec Record, _ WorkingHours) (Record, error) {
	rec.Approved = true
	rec.ApprovedBy = &e.ApproverID
	rec.ApprovalDate = timePtr(e.At)
	rec.UpdatedAt = e.At
	return rec, nil
}

// computeHours derives worked, break and overtime hours from the timestamps.
// Each interval is truncated to whole minutes on its own. An open break is
// not deducted.
func computeHours(rec Record, wh WorkingHours) Record {
	if rec.ClockIn == nil || rec.ClockOut == nil {
		return rec
	}

	total := rec.ClockOut.Sub(*rec.ClockIn).Truncate(time.Minute)
	var pause time.Duration
	if rec.BreakStart != nil && rec.BreakEnd != nil {
		pause = rec.BreakEnd.Sub(*rec.BreakStart).Truncate(time.Minute)
	}
	pause = min(max(pause, 0), total)

	rec.BreakDuration = toHours(pause)
	rec.HoursWorked = toHours(total - pause)
	rec.OvertimeHours = decimal.Max(decimal.Zero, rec.HoursWorked.Sub(wh.StandardDailyHours))
	return rec
}

func needsManualApproval(rec Record, wh WorkingHours) bool {
	return rec.OvertimeHours.GreaterThan(wh.OvertimeApprovalThreshold) ||
		rec.IsRemote ||
		rec.Status == StatusHalfDay
}

// toHours converts whole minutes of d into hours rounded to two places.
func toHours(d time.Duration) decimal.Decimal {
	minutes := int64(d / time.Minute)
	return decimal.NewFromInt(minutes).Div(decimal.NewFromInt(60)).Round(2)
}

func appendNote(existing, note string) string {
	switch {
	case note == "":
		return existing
	case existing == "":
		return note
	default:
		return existing + " | " + note
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
