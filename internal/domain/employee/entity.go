package employee

import (
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
)

// DefaultLeaveDaysEntitlement is the yearly annual-leave allotment when the
// employee record does not override it.
const DefaultLeaveDaysEntitlement = 25

type Employee struct {
	ID                   string
	UserID               string
	EmployeeCode         string
	FullName             string
	Department           *string
	ManagerID            *string // user ID of the line manager
	LeaveDaysEntitlement int
	EmploymentStatus     EmploymentStatus
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive   EmploymentStatus = "active"
	EmploymentStatusInactive EmploymentStatus = "inactive"
)

func (e Employee) HasManager() bool {
	return e.ManagerID != nil && *e.ManagerID != ""
}

// ManagedBy reports whether userID is this employee's line manager.
func (e Employee) ManagedBy(userID string) bool {
	return e.HasManager() && *e.ManagerID == userID
}

// Entitlement returns the annual-leave allotment, falling back to the default.
func (e Employee) Entitlement() int {
	if e.LeaveDaysEntitlement <= 0 {
		return DefaultLeaveDaysEntitlement
	}
	return e.LeaveDaysEntitlement
}

// HasAuthority reports whether actor has manager authority over the employee:
// actor is the line manager, or actor's role manages all employees.
func HasAuthority(actor user.User, subject Employee) bool {
	return actor.Role.CanManageEmployees() || subject.ManagedBy(actor.ID)
}
