package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, user_id, date, clock_in, clock_out, break_start, break_end,
	hours_worked, break_duration, overtime_hours, status,
	location, ip_address, device_info, notes, is_remote,
	approved, approved_by, approval_date, created_at, updated_at
`

func scanAttendance(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Date, &rec.ClockIn, &rec.ClockOut, &rec.BreakStart, &rec.BreakEnd,
		&rec.HoursWorked, &rec.BreakDuration, &rec.OvertimeHours, &rec.Status,
		&rec.Location, &rec.IPAddress, &rec.DeviceInfo, &rec.Notes, &rec.IsRemote,
		&rec.Approved, &rec.ApprovedBy, &rec.ApprovalDate, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

func collectAttendances(rows pgx.Rows) ([]attendance.Record, error) {
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}
	return records, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}
	rec.ID = id.String()

	query := `
		INSERT INTO attendances (
			id, user_id, date, clock_in, clock_out, break_start, break_end,
			hours_worked, break_duration, overtime_hours, status,
			location, ip_address, device_info, notes, is_remote,
			approved, approved_by, approval_date
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19
		) RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		rec.ID, rec.UserID, rec.Date, rec.ClockIn, rec.ClockOut, rec.BreakStart, rec.BreakEnd,
		rec.HoursWorked, rec.BreakDuration, rec.OvertimeHours, rec.Status,
		rec.Location, rec.IPAddress, rec.DeviceInfo, rec.Notes, rec.IsRemote,
		rec.Approved, rec.ApprovedBy, rec.ApprovalDate,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Record{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return rec, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances SET
			clock_in = $2, clock_out = $3, break_start = $4, break_end = $5,
			hours_worked = $6, break_duration = $7, overtime_hours = $8, status = $9,
			location = $10, ip_address = $11, device_info = $12, notes = $13, is_remote = $14,
			approved = $15, approved_by = $16, approval_date = $17, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.ID, rec.ClockIn, rec.ClockOut, rec.BreakStart, rec.BreakEnd,
		rec.HoursWorked, rec.BreakDuration, rec.OvertimeHours, rec.Status,
		rec.Location, rec.IPAddress, rec.DeviceInfo, rec.Notes, rec.IsRemote,
		rec.Approved, rec.ApprovedBy, rec.ApprovalDate,
	).Scan(&rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return rec, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	if !validator.IsValidUUID(id) {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}

	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = $1`

	rec, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}
	return rec, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.Record, error) {
	return a.getByUserAndDate(ctx, userID, date, false)
}

// GetByUserAndDateForUpdate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserAndDateForUpdate(ctx context.Context, userID string, date time.Time) (attendance.Record, error) {
	return a.getByUserAndDate(ctx, userID, date, true)
}

func (a *attendanceRepository) getByUserAndDate(ctx context.Context, userID string, date time.Time, lock bool) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE user_id = $1 AND date = $2`
	if lock {
		query += ` FOR UPDATE`
	}

	rec, err := scanAttendance(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}
	return rec, nil
}

// GetAllByIDs implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetAllByIDs(ctx context.Context, ids []string) ([]attendance.Record, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if validator.IsValidUUID(id) {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil, nil
	}

	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE id = ANY($1::uuid[])
		ORDER BY date, user_id
		FOR UPDATE
	`

	rows, err := q.Query(ctx, query, valid)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendances by ids: %w", err)
	}
	return collectAttendances(rows)
}

// ListByUser implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE user_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date DESC
	`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	return collectAttendances(rows)
}

// ListByDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE date = $1
		ORDER BY clock_in NULLS LAST, user_id
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances by date: %w", err)
	}
	return collectAttendances(rows)
}

// ListIncomplete implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListIncomplete(ctx context.Context, date time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE date = $1 AND clock_in IS NOT NULL AND clock_out IS NULL
		ORDER BY clock_in
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list incomplete attendances: %w", err)
	}
	return collectAttendances(rows)
}
