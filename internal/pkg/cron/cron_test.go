package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLister struct {
	gotDate time.Time
	calls   int
	records []attendance.AttendanceResponse
	err     error
}

func (s *stubLister) ListIncomplete(_ context.Context, date time.Time) ([]attendance.AttendanceResponse, error) {
	s.calls++
	s.gotDate = date
	return s.records, s.err
}

func TestReportIncompleteAttendances_QueriesYesterday(t *testing.T) {
	lister := &stubLister{records: []attendance.AttendanceResponse{{UserID: "u-1"}}}
	jobs := NewAttendanceJobs(lister, attendance.DefaultWorkingHours(), time.Hour)
	jobs.now = func() time.Time { return time.Date(2025, 3, 11, 6, 0, 0, 0, time.UTC) }

	err := jobs.ReportIncompleteAttendances(context.Background())

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), lister.gotDate)
}

func TestReportIncompleteAttendances_ReportsEachDateOnce(t *testing.T) {
	lister := &stubLister{records: []attendance.AttendanceResponse{{UserID: "u-1"}}}
	jobs := NewAttendanceJobs(lister, attendance.DefaultWorkingHours(), time.Hour)
	clock := time.Date(2025, 3, 11, 6, 0, 0, 0, time.UTC)
	jobs.now = func() time.Time { return clock }

	ctx := context.Background()
	require.NoError(t, jobs.ReportIncompleteAttendances(ctx))
	clock = clock.Add(time.Hour)
	require.NoError(t, jobs.ReportIncompleteAttendances(ctx))
	clock = time.Date(2025, 3, 11, 23, 0, 0, 0, time.UTC)
	require.NoError(t, jobs.ReportIncompleteAttendances(ctx))

	assert.Equal(t, 1, lister.calls)

	clock = time.Date(2025, 3, 12, 0, 30, 0, 0, time.UTC)
	require.NoError(t, jobs.ReportIncompleteAttendances(ctx))

	assert.Equal(t, 2, lister.calls)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), lister.gotDate)
}

func TestReportIncompleteAttendances_RetriesAfterError(t *testing.T) {
	lister := &stubLister{err: errors.New("db down")}
	jobs := NewAttendanceJobs(lister, attendance.DefaultWorkingHours(), time.Hour)
	jobs.now = func() time.Time { return time.Date(2025, 3, 11, 6, 0, 0, 0, time.UTC) }

	ctx := context.Background()
	assert.Error(t, jobs.ReportIncompleteAttendances(ctx))

	lister.err = nil
	require.NoError(t, jobs.ReportIncompleteAttendances(ctx))

	assert.Equal(t, 2, lister.calls)
}

func TestReportIncompleteAttendances_PropagatesError(t *testing.T) {
	lister := &stubLister{err: errors.New("db down")}
	jobs := NewAttendanceJobs(lister, attendance.DefaultWorkingHours(), 0)

	err := jobs.ReportIncompleteAttendances(context.Background())

	assert.ErrorContains(t, err, "db down")
	assert.Equal(t, time.Hour, jobs.interval)
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler()
	var calls atomic.Int32

	s.AddJob("ok", time.Minute, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	s.AddJob("broken", time.Minute, func(ctx context.Context) error {
		calls.Add(1)
		return errors.New("boom")
	})

	err := s.RunOnce(context.Background())

	assert.EqualValues(t, 2, calls.Load())
	assert.ErrorContains(t, err, "broken: boom")
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()
	ran := make(chan struct{}, 1)

	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start(context.Background())

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}

	s.Stop()
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	s := NewScheduler()
	assert.NotPanics(t, s.Stop)
}

func TestAttendanceJobs_Register(t *testing.T) {
	s := NewScheduler()
	jobs := NewAttendanceJobs(&stubLister{}, attendance.DefaultWorkingHours(), 30*time.Minute)

	jobs.RegisterJobs(s)

	require.Len(t, s.jobs, 1)
	assert.Equal(t, "report_incomplete_attendances", s.jobs[0].Name)
	assert.Equal(t, 30*time.Minute, s.jobs[0].Interval)
}
