package leave

import "github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"

var (
	// Submission
	ErrInvalidDateRange    = apperror.Validation("INVALID_DATE_RANGE", "end date must not be before start date")
	ErrTooSoon             = apperror.Validation("TOO_SOON", "leave must start at least one day in the future")
	ErrNoWorkingDays       = apperror.Validation("NO_WORKING_DAYS", "requested period contains no working days")
	ErrOverlappingRequest  = apperror.Validation("OVERLAPPING_REQUEST", "request overlaps an existing leave request")
	ErrInsufficientBalance = apperror.Validation("INSUFFICIENT_BALANCE", "insufficient leave balance")
	ErrInvalidLeaveType    = apperror.Validation("INVALID_LEAVE_TYPE", "invalid leave type")

	// Review
	ErrAlreadyReviewed    = apperror.Validation("ALREADY_REVIEWED", "this stage is not awaiting a decision")
	ErrRequestFinalized   = apperror.Validation("REQUEST_FINALIZED", "leave request is already finalized")
	ErrInvalidDecision    = apperror.Validation("INVALID_DECISION", "decision must be APPROVED or REJECTED")
	ErrInvalidStage       = apperror.Validation("INVALID_STAGE", "stage must be manager, hr or director")
	ErrPrerequisiteNotMet = apperror.Authorization("PREREQUISITE_NOT_MET", "an earlier approval stage is still open")

	// Cancellation
	ErrCannotCancel = apperror.Validation("CANNOT_CANCEL", "leave request can no longer be cancelled")

	ErrLeaveRequestNotFound = apperror.NotFound("LEAVE_REQUEST_NOT_FOUND", "leave request not found")
)
