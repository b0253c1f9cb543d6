package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/validator"
)

// conflicts are validation errors reported as 409 because they describe the
// current state of a record rather than bad input.
var conflicts = []error{
	attendance.ErrAlreadyClockedIn,
	attendance.ErrAlreadyClockedOut,
	leave.ErrAlreadyReviewed,
}

func isConflict(err error) bool {
	for _, target := range conflicts {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	appErr, ok := apperror.As(err)
	if !ok {
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
		return
	}

	switch appErr.Kind {
	case apperror.KindValidation:
		if isConflict(err) {
			writeError(w, http.StatusConflict, appErr.Code, appErr.Message, nil)
			return
		}
		writeError(w, http.StatusBadRequest, appErr.Code, appErr.Message, nil)
	case apperror.KindAuthorization:
		writeError(w, http.StatusForbidden, appErr.Code, appErr.Message, nil)
	case apperror.KindNotFound:
		writeError(w, http.StatusNotFound, appErr.Code, appErr.Message, nil)
	default:
		slog.Error("Unclassified domain error", "code", appErr.Code, "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
