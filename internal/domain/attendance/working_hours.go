package attendance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// WorkingHours holds the organisation's standard day. Clock offsets are
// durations since local midnight in Location.
type WorkingHours struct {
	Location                  *time.Location
	StandardStart             time.Duration
	StandardEnd               time.Duration
	StandardDailyHours        decimal.Decimal
	OvertimeApprovalThreshold decimal.Decimal
}

func DefaultWorkingHours() WorkingHours {
	return WorkingHours{
		Location:                  time.UTC,
		StandardStart:             9 * time.Hour,
		StandardEnd:               17*time.Hour + 30*time.Minute,
		StandardDailyHours:        decimal.NewFromInt(8),
		OvertimeApprovalThreshold: decimal.NewFromInt(2),
	}
}

// ParseClock parses "HH:MM" into an offset since midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func (w WorkingHours) location() *time.Location {
	if w.Location == nil {
		return time.UTC
	}
	return w.Location
}

// DateOf returns the calendar day t falls on, as midnight in Location.
func (w WorkingHours) DateOf(t time.Time) time.Time {
	y, m, d := t.In(w.location()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, w.location())
}

func (w WorkingHours) sinceMidnight(t time.Time) time.Duration {
	return t.In(w.location()).Sub(w.DateOf(t))
}

func (w WorkingHours) IsLate(clockIn time.Time) bool {
	return w.sinceMidnight(clockIn) > w.StandardStart
}

func (w WorkingHours) IsEarlyDeparture(clockOut time.Time) bool {
	return w.sinceMidnight(clockOut) < w.StandardEnd
}

func (w WorkingHours) Validate() error {
	if w.StandardEnd <= w.StandardStart {
		return fmt.Errorf("standard end must be after standard start")
	}
	if !w.StandardDailyHours.IsPositive() {
		return fmt.Errorf("standard daily hours must be positive")
	}
	if w.OvertimeApprovalThreshold.IsNegative() {
		return fmt.Errorf("overtime approval threshold must not be negative")
	}
	return nil
}
