package attendance

import (
	"context"
	"time"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// ClockIn opens today's record for the user
	ClockIn(ctx context.Context, userID string, req ClockInRequest) (AttendanceResponse, error)

	// ClockOut closes today's record and computes worked hours
	ClockOut(ctx context.Context, userID string, req ClockOutRequest) (AttendanceResponse, error)

	StartBreak(ctx context.Context, userID string) (AttendanceResponse, error)
	EndBreak(ctx context.Context, userID string) (AttendanceResponse, error)

	// ApproveBatch approves every record the approver has authority over and
	// skips the rest
	ApproveBatch(ctx context.Context, approverID string, req ApproveRequest) (ApproveResult, error)

	// GetToday returns today's record, or an EMPTY state when none exists
	GetToday(ctx context.Context, userID string) (AttendanceResponse, error)

	ListUserAttendance(ctx context.Context, callerID, targetUserID string, filter ListFilter) ([]AttendanceResponse, error)
	GetStats(ctx context.Context, callerID, targetUserID string, filter ListFilter) (AttendanceStats, error)

	// GetTodayGlobalStats summarises today's records across the company. Only
	// roles holding the global stats capability may call it.
	GetTodayGlobalStats(ctx context.Context, callerID string) (GlobalStats, error)

	// ListIncomplete returns records of date that were never clocked out
	ListIncomplete(ctx context.Context, date time.Time) ([]AttendanceResponse, error)
}
