package employee

import "context"

type EmployeeRepository interface {
	GetByUserID(ctx context.Context, userID string) (Employee, error)
	// ListByManager returns the direct reports of the given manager user ID.
	ListByManager(ctx context.Context, managerUserID string) ([]Employee, error)
}
