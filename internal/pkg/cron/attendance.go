package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/attendance"
)

// IncompleteLister is the part of the attendance service the jobs need.
type IncompleteLister interface {
	ListIncomplete(ctx context.Context, date time.Time) ([]attendance.AttendanceResponse, error)
}

type AttendanceJobs struct {
	attendanceSvc IncompleteLister
	workingHours  attendance.WorkingHours
	interval      time.Duration
	now           func() time.Time

	mu           sync.Mutex
	lastReported time.Time
}

func NewAttendanceJobs(attendanceSvc IncompleteLister, workingHours attendance.WorkingHours, interval time.Duration) *AttendanceJobs {
	if interval <= 0 {
		interval = time.Hour
	}
	return &AttendanceJobs{
		attendanceSvc: attendanceSvc,
		workingHours:  workingHours,
		interval:      interval,
		now:           time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("report_incomplete_attendances", j.interval, j.ReportIncompleteAttendances)
}

// ReportIncompleteAttendances warns about yesterday's records that were
// clocked in but never clocked out. Each date is reported once; a failed run
// is retried on the next tick.
func (j *AttendanceJobs) ReportIncompleteAttendances(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	yesterday := j.workingHours.DateOf(j.now()).AddDate(0, 0, -1)
	if yesterday.Equal(j.lastReported) {
		return nil
	}

	incomplete, err := j.attendanceSvc.ListIncomplete(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("failed to list incomplete attendances: %w", err)
	}
	j.lastReported = yesterday

	if len(incomplete) == 0 {
		slog.Debug("Cron: No incomplete attendances", "date", yesterday.Format("2006-01-02"))
		return nil
	}

	userIDs := make([]string, 0, len(incomplete))
	for _, rec := range incomplete {
		userIDs = append(userIDs, rec.UserID)
	}

	slog.Warn("Cron: Incomplete attendances found",
		"date", yesterday.Format("2006-01-02"),
		"count", len(incomplete),
		"user_ids", userIDs,
	)
	return nil
}
