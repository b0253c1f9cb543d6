package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workforce-go/internal/handler/http/response"
)

// RequireCapability checks the token role against the capability table. The
// services still re-check against the stored role.
func RequireCapability(capability user.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFrom(r.Context())
			if !ok {
				response.Unauthorized(w, "Invalid or missing access token")
				return
			}

			if !caller.Role.Can(capability) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", capability, caller.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
