// Package auth is the authentication boundary. The engine only needs to
// know whether a request carries an authenticated user; issuing and
// verifying real credentials belongs to an external identity provider, for
// which this package carries a token-session stand-in.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/angolife/engage/internal/store"
	"github.com/google/uuid"
	"go.uber.org/fx"
)

var ErrUnauthenticated = errors.New("unauthenticated")

type Authenticator interface {
	// Authenticate resolves a bearer token to a user ID.
	Authenticate(ctx context.Context, token string) (string, error)
	// StartSession mints an opaque token for a user.
	StartSession(ctx context.Context, userID string) (string, error)
}

type sessionAuth struct {
	store store.Persistent
}

func New(s store.Persistent) Authenticator {
	return &sessionAuth{store: s}
}

func sessionKey(token string) string {
	return "auth:session:" + token
}

func (a *sessionAuth) Authenticate(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrUnauthenticated
	}
	userID, ok, err := a.store.Get(ctx, sessionKey(token))
	if err != nil || !ok || userID == "" {
		return "", ErrUnauthenticated
	}
	return userID, nil
}

func (a *sessionAuth) StartSession(ctx context.Context, userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", ErrUnauthenticated
	}
	token := uuid.NewString()
	if err := a.store.Set(ctx, sessionKey(token), userID); err != nil {
		return "", err
	}
	return token, nil
}

// Module wires the session authenticator.
var Module = fx.Module("auth",
	fx.Provide(New),
)
