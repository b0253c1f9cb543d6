package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workforce-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/jwt"
)

type callerKey struct{}

// AuthRequired rejects requests without a verified access token and stores
// the resolved caller on the request context. It must run after
// jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := jwt.CallerFromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, "Invalid or missing access token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
	})
}

// CallerFrom returns the caller stored by AuthRequired.
func CallerFrom(ctx context.Context) (user.Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(user.Caller)
	return caller, ok
}

// WithCaller returns a copy of ctx carrying caller.
func WithCaller(ctx context.Context, caller user.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}
