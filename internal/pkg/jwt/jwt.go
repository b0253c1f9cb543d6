package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	ClaimUserID = "user_id"
	ClaimRole   = "role"
	ClaimType   = "type"

	TokenTypeAccess = "access"
)

var ErrInvalidClaims = errors.New("token claims are missing or malformed")

// Service verifies access tokens issued by the identity provider. Token
// issuance here exists for tooling and tests.
type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	GenerateAccessToken(userID string, role user.Role, ttl time.Duration) (token string, expiresAt int64, err error)
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(userID string, role user.Role, ttl time.Duration) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(ttl).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		ClaimUserID: userID,
		ClaimRole:   string(role),
		ClaimType:   TokenTypeAccess,
		"exp":       expiresAt,
	})
	return tokenString, expiresAt, err
}

// CallerFromContext reads the verified claims placed on ctx by jwtauth.Verifier.
func CallerFromContext(ctx context.Context) (user.Caller, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return user.Caller{}, err
	}

	if tokenType, _ := claims[ClaimType].(string); tokenType != TokenTypeAccess {
		return user.Caller{}, ErrInvalidClaims
	}

	userID, _ := claims[ClaimUserID].(string)
	if userID == "" {
		return user.Caller{}, ErrInvalidClaims
	}

	roleValue, _ := claims[ClaimRole].(string)
	role, err := user.ParseRole(roleValue)
	if err != nil {
		return user.Caller{}, ErrInvalidClaims
	}

	return user.Caller{UserID: userID, Role: role}, nil
}
