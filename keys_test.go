package switchboard_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchboard"
)

func TestCurrentUserContext(t *testing.T) {
	// no user stashed
	_, err := switchboard.CurrentUserFromContext(context.Background())
	require.ErrorIs(t, err, switchboard.ErrNotAuthenticated)

	// nil UUID is not a user
	ctx := switchboard.NewCurrentUserContext(context.Background(), uuid.Nil)
	_, err = switchboard.CurrentUserFromContext(ctx)
	require.ErrorIs(t, err, switchboard.ErrNotAuthenticated)

	// round trip
	id := uuid.New()
	ctx = switchboard.NewCurrentUserContext(context.Background(), id)

	got, err := switchboard.CurrentUserFromContext(ctx)
	require.Nil(t, err)
	require.Equal(t, id, got)
}

func TestKeyString(t *testing.T) {
	require.Equal(t, "switchboard context key: CurrentUserKey", switchboard.CurrentUserKey.String())
}
