package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// Lookups return ErrAttendanceNotFound when no row matches.
type AttendanceRepository interface {
	// Create inserts a new record. A second record for the same user and
	// date fails with ErrAlreadyClockedIn.
	Create(ctx context.Context, rec Record) (Record, error)

	Update(ctx context.Context, rec Record) (Record, error)

	GetByID(ctx context.Context, id string) (Record, error)

	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (Record, error)

	// GetByUserAndDateForUpdate locks the row for the enclosing transaction.
	GetByUserAndDateForUpdate(ctx context.Context, userID string, date time.Time) (Record, error)

	// GetAllByIDs locks and returns the records that exist; unknown IDs are omitted.
	GetAllByIDs(ctx context.Context, ids []string) ([]Record, error)

	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]Record, error)

	// ListByDate returns every record of the date across all users.
	ListByDate(ctx context.Context, date time.Time) ([]Record, error)

	// ListIncomplete returns records of the date with a clock-in but no clock-out.
	ListIncomplete(ctx context.Context, date time.Time) ([]Record, error)
}
