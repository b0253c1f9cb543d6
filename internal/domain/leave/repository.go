package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type LeaveRequestRepository interface {
	Create(ctx context.Context, req Request) (Request, error)
	Update(ctx context.Context, req Request) (Request, error)

	// GetByID returns ErrLeaveRequestNotFound when the request does not exist.
	GetByID(ctx context.Context, id string) (Request, error)

	// GetByIDForUpdate locks the row for the enclosing transaction so stage
	// decisions on one request are serialized.
	GetByIDForUpdate(ctx context.Context, id string) (Request, error)

	ListByUser(ctx context.Context, userID string) ([]Request, error)

	// ListOverlapping returns the user's requests in a blocking status whose
	// range intersects [start, end].
	ListOverlapping(ctx context.Context, userID string, start, end time.Time) ([]Request, error)

	// SumApprovedDaysByYear totals approved days per type for requests
	// starting in year.
	SumApprovedDaysByYear(ctx context.Context, userID string, year int) (map[Type]decimal.Decimal, error)

	// ListPendingForStage returns open requests whose stage is PENDING. A nil
	// userIDs slice means every user.
	ListPendingForStage(ctx context.Context, stage Stage, userIDs []string) ([]Request, error)
}
