package postgrest

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/xy-planning-network/switchboard"
)

// A Verifier checks access tokens issued by the backing store's auth service
// and stamps the verified user into the ambient request context.
type Verifier struct {
	key    []byte
	parser *jwt.Parser
}

// NewVerifier constructs a *Verifier around the HMAC signing key
// the backing store signs access tokens with.
func NewVerifier(key []byte) *Verifier {
	return &Verifier{
		key:    key,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})),
	}
}

// Authenticate verifies rawToken and returns a context carrying its subject
// as the current user, for route resolution to read.
//
// An invalid, expired or subject-less token fails with ErrNotAuthenticated.
func (v *Verifier) Authenticate(ctx context.Context, rawToken string) (context.Context, error) {
	claims := new(jwt.RegisteredClaims)
	_, err := v.parser.ParseWithClaims(rawToken, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", switchboard.ErrNotAuthenticated, err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: token subject %q is not a user ID", switchboard.ErrNotAuthenticated, claims.Subject)
	}

	return switchboard.NewCurrentUserContext(ctx, id), nil
}
