package websocket

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned when JWT validation fails
var ErrInvalidToken = errors.New("invalid token")

// ErrUnknownSubject is returned when no user matches the token subject
var ErrUnknownSubject = errors.New("unknown subject")

// UserLookup resolves a token subject to a local user ID
type UserLookup interface {
	GetUserIDBySubject(subject string) (uuid.UUID, error)
}

// CustomClaims contains the custom claims from the JWT
type CustomClaims struct{}

// Validate implements validator.CustomClaims
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// JWTValidator validates JWT tokens for WebSocket connections. Connections
// cannot carry an Authorization header from a browser, so the token arrives
// as a query parameter and is checked here before the upgrade.
type JWTValidator struct {
	validator  *validator.Validator
	userLookup UserLookup
}

// NewJWTValidator creates a new JWTValidator
func NewJWTValidator(domain, audience string, userLookup UserLookup) (*JWTValidator, error) {
	issuerURL, err := url.Parse("https://" + domain + "/")
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	return &JWTValidator{
		validator:  jwtValidator,
		userLookup: userLookup,
	}, nil
}

// ValidateToken validates a JWT token and returns the associated user ID
func (v *JWTValidator) ValidateToken(token string) (uuid.UUID, error) {
	ctx := context.Background()

	claims, err := v.validator.ValidateToken(ctx, token)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}

	subject := validatedClaims.RegisteredClaims.Subject

	userID, err := v.userLookup.GetUserIDBySubject(subject)
	if err != nil {
		return uuid.Nil, ErrUnknownSubject
	}

	return userID, nil
}
