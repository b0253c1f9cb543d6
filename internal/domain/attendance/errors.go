package attendance

import "github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"

// Attendance domain errors
var (
	// Clock cycle errors
	ErrAlreadyClockedIn       = apperror.Validation("ALREADY_CLOCKED_IN", "you have already clocked in today")
	ErrAlreadyClockedOut      = apperror.Validation("ALREADY_CLOCKED_OUT", "you have already clocked out today")
	ErrNoClockInFound         = apperror.Validation("NO_CLOCK_IN_FOUND", "no clock-in found for today")
	ErrNoBreakInProgress      = apperror.Validation("NO_BREAK_IN_PROGRESS", "no break in progress")
	ErrBreakAlreadyInProgress = apperror.Validation("BREAK_ALREADY_IN_PROGRESS", "a break is already in progress")
	ErrBreakAlreadyTaken      = apperror.Validation("BREAK_ALREADY_TAKEN", "only one break per day is supported")
	ErrTimeOrder              = apperror.Validation("INVALID_TIME_ORDER", "timestamp precedes the previous clock event")
	ErrRoleNotEligible        = apperror.Authorization("ROLE_NOT_ELIGIBLE", "your role does not track working time")

	// General errors
	ErrAttendanceNotFound = apperror.NotFound("ATTENDANCE_NOT_FOUND", "attendance record not found")
	ErrInvalidStatus      = apperror.Validation("INVALID_STATUS", "invalid attendance status")
	ErrInvalidDateRange   = apperror.Validation("INVALID_DATE_RANGE", "end date must not be before start date")
)
