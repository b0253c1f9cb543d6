package employee

import "github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"

var (
	ErrEmployeeNotFound = apperror.NotFound("EMPLOYEE_NOT_FOUND", "employee not found")
)
