package auth

import (
	"context"
	"testing"

	"github.com/angolife/engage/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	a := New(store.Persistent{Store: store.NewMemory()})
	ctx := context.Background()

	token, err := a.StartSession(ctx, "u1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := a.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestAuthenticateRejectsUnknownToken(t *testing.T) {
	a := New(store.Persistent{Store: store.NewMemory()})
	ctx := context.Background()

	_, err := a.Authenticate(ctx, "nope")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = a.Authenticate(ctx, "  ")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
