package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type ClockInRequest struct {
	Status     string `json:"status,omitempty"`
	Location   string `json:"location"`
	Notes      string `json:"notes,omitempty"`
	IsRemote   bool   `json:"is_remote"`
	IPAddress  string `json:"-"`
	DeviceInfo string `json:"-"`

	// Parsed by Validate; empty when no status was declared
	DeclaredStatus Status `json:"-"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status != "" {
		if status, err := ParseStatus(r.Status); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be a valid attendance status",
			})
		} else {
			r.DeclaredStatus = status
		}
	}

	if validator.ExceedsLength(r.Location, 255) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location must not exceed 255 characters",
		})
	}

	if validator.ExceedsLength(r.Notes, 1000) {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClockOutRequest struct {
	Notes string `json:"notes,omitempty"`
}

func (r *ClockOutRequest) Validate() error {
	if validator.ExceedsLength(r.Notes, 1000) {
		return validator.ValidationErrors{{
			Field:   "notes",
			Message: "notes must not exceed 1000 characters",
		}}
	}
	return nil
}

type ApproveRequest struct {
	AttendanceIDs []string `json:"attendance_ids"`
}

func (r *ApproveRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.AttendanceIDs) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_ids",
			Message: "attendance_ids must contain at least one id",
		})
	}

	for _, id := range r.AttendanceIDs {
		if validator.IsEmpty(id) {
			errs = append(errs, validator.ValidationError{
				Field:   "attendance_ids",
				Message: "attendance_ids must not contain empty values",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListFilter struct {
	StartDate string
	EndDate   string
}

// Range validates the filter and returns its bounds. Missing bounds default
// to the current month up to today.
func (f ListFilter) Range(today time.Time) (time.Time, time.Time, error) {
	var errs validator.ValidationErrors

	from := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	if f.StartDate != "" {
		d, ok := validator.IsValidDate(f.StartDate)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
		from = d
	}

	if f.EndDate != "" {
		d, ok := validator.IsValidDate(f.EndDate)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
		to = d
	}

	if len(errs) > 0 {
		return time.Time{}, time.Time{}, errs
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return from, to, nil
}

type AttendanceResponse struct {
	ID               string     `json:"id,omitempty"`
	UserID           string     `json:"user_id"`
	Date             string     `json:"date"`
	State            DayState   `json:"state"`
	ClockIn          *time.Time `json:"clock_in,omitempty"`
	ClockOut         *time.Time `json:"clock_out,omitempty"`
	BreakStart       *time.Time `json:"break_start,omitempty"`
	BreakEnd         *time.Time `json:"break_end,omitempty"`
	HoursWorked      string     `json:"hours_worked"`
	BreakDuration    string     `json:"break_duration"`
	OvertimeHours    string     `json:"overtime_hours"`
	Status           Status     `json:"status,omitempty"`
	IsLate           bool       `json:"is_late"`
	IsEarlyDeparture bool       `json:"is_early_departure"`
	Location         string     `json:"location,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	IsRemote         bool       `json:"is_remote"`
	Approved         bool       `json:"approved"`
	ApprovedBy       *string    `json:"approved_by,omitempty"`
	ApprovalDate     *time.Time `json:"approval_date,omitempty"`
}

func NewAttendanceResponse(r Record, wh WorkingHours) AttendanceResponse {
	resp := AttendanceResponse{
		ID:               r.ID,
		UserID:           r.UserID,
		State:            r.State(),
		ClockIn:          r.ClockIn,
		ClockOut:         r.ClockOut,
		BreakStart:       r.BreakStart,
		BreakEnd:         r.BreakEnd,
		HoursWorked:      r.HoursWorked.StringFixed(2),
		BreakDuration:    r.BreakDuration.StringFixed(2),
		OvertimeHours:    r.OvertimeHours.StringFixed(2),
		Status:           r.Status,
		IsLate:           r.IsLate(wh),
		IsEarlyDeparture: r.IsEarlyDeparture(wh),
		Location:         r.Location,
		Notes:            r.Notes,
		IsRemote:         r.IsRemote,
		Approved:         r.Approved,
		ApprovedBy:       r.ApprovedBy,
		ApprovalDate:     r.ApprovalDate,
	}
	if !r.Date.IsZero() {
		resp.Date = r.Date.Format(calendar.DateLayout)
	}
	return resp
}

type ApproveResult struct {
	Approved []string `json:"approved"`
	Skipped  []string `json:"skipped"`
}

type AttendanceStats struct {
	UserID          string          `json:"user_id"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	WorkingDays     int             `json:"working_days"`
	RecordedDays    int             `json:"recorded_days"`
	PresentDays     int             `json:"present_days"`
	AbsentDays      int             `json:"absent_days"`
	LateDays        int             `json:"late_days"`
	RemoteDays      int             `json:"remote_days"`
	TotalHours      decimal.Decimal `json:"total_hours"`
	AverageHours    decimal.Decimal `json:"average_hours"`
	OvertimeHours   decimal.Decimal `json:"overtime_hours"`
	AttendanceRate  decimal.Decimal `json:"attendance_rate"`
	PunctualityRate decimal.Decimal `json:"punctuality_rate"`
}

// ComputeStats summarises the records of one user over [from, to].
// Punctuality is measured against every recorded day, and only records
// marked ABSENT count as absences.
func ComputeStats(userID string, records []Record, from, to time.Time) AttendanceStats {
	stats := AttendanceStats{
		UserID:       userID,
		StartDate:    from.Format(calendar.DateLayout),
		EndDate:      to.Format(calendar.DateLayout),
		WorkingDays:  calendar.WorkingDays(from, to),
		RecordedDays: len(records),
	}

	completed := 0
	for _, r := range records {
		if r.CountsAsPresent() {
			stats.PresentDays++
		}
		if r.Status == StatusAbsent {
			stats.AbsentDays++
		}
		if r.Status == StatusLate {
			stats.LateDays++
		}
		if r.IsRemote || r.Status == StatusRemote {
			stats.RemoteDays++
		}
		if r.IsComplete() {
			completed++
			stats.TotalHours = stats.TotalHours.Add(r.HoursWorked)
			stats.OvertimeHours = stats.OvertimeHours.Add(r.OvertimeHours)
		}
	}

	hundred := decimal.NewFromInt(100)
	if completed > 0 {
		stats.AverageHours = stats.TotalHours.Div(decimal.NewFromInt(int64(completed))).Round(2)
	}
	if stats.WorkingDays > 0 {
		stats.AttendanceRate = decimal.NewFromInt(int64(stats.PresentDays)).
			Mul(hundred).Div(decimal.NewFromInt(int64(stats.WorkingDays))).Round(2)
	}
	if stats.RecordedDays > 0 {
		stats.PunctualityRate = decimal.NewFromInt(int64(stats.RecordedDays - stats.LateDays)).
			Mul(hundred).Div(decimal.NewFromInt(int64(stats.RecordedDays))).Round(2)
	}
	return stats
}

// GlobalStats is the company-wide snapshot of one day.
type GlobalStats struct {
	Date       string `json:"date"`
	Total      int    `json:"total_records"`
	Present    int    `json:"present_count"`
	Absent     int    `json:"absent_count"`
	Remote     int    `json:"remote_count"`
	Late       int    `json:"late_count"`
	Incomplete int    `json:"incomplete_count"`
}

// ComputeGlobalStats counts the records of date by declared status. Lateness
// comes from the clock-in time rather than the status, and incomplete
// records are the ones still waiting for a clock-out.
func ComputeGlobalStats(date time.Time, records []Record, wh WorkingHours) GlobalStats {
	stats := GlobalStats{
		Date:  date.Format(calendar.DateLayout),
		Total: len(records),
	}
	for _, r := range records {
		switch r.Status {
		case StatusPresent:
			stats.Present++
		case StatusAbsent:
			stats.Absent++
		case StatusRemote:
			stats.Remote++
		}
		if r.IsLate(wh) {
			stats.Late++
		}
		if r.ClockIn != nil && r.ClockOut == nil {
			stats.Incomplete++
		}
	}
	return stats
}
