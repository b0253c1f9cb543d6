package user

import "github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"

var (
	ErrUserNotFound  = apperror.NotFound("USER_NOT_FOUND", "user not found")
	ErrInvalidRole   = apperror.Validation("INVALID_ROLE", "invalid role")
	ErrNotAuthorized = apperror.Authorization("NOT_AUTHORIZED", "not authorized to perform this action")
)
