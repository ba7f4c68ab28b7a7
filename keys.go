package switchboard

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Key string

const (
	// CurrentUserKey stashes the authenticated user for the current request scope.
	CurrentUserKey Key = "CurrentUserKey"
)

// String formats the stringified key with additional contextual information
func (k Key) String() string {
	return "switchboard context key: " + string(k)
}

// NewCurrentUserContext stashes the authenticated user's ID in ctx,
// returning the resulting context.
//
// Route resolution reads this ambient value when an operation
// needs to stamp ownership fields or otherwise requires an authenticated user.
func NewCurrentUserContext(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, CurrentUserKey, id)
}

// CurrentUserFromContext retrieves the authenticated user's ID from ctx.
// If none is present, CurrentUserFromContext returns ErrNotAuthenticated.
func CurrentUserFromContext(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(CurrentUserKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: no current user in context", ErrNotAuthenticated)
	}

	return id, nil
}
