// Package session abstracts the identity provider. The state core never
// fetches the current user from a global accessor; it receives a User at
// construction and a Provider for sign-out.
package session

import (
	"context"
	"errors"
)

// User is the authenticated identity carried into every repository call.
type User struct {
	ID    string
	Email string
}

// CredentialUpdate carries an email and/or password change. A hosted
// provider completes email changes asynchronously after confirmation; the
// local provider applies them directly.
type CredentialUpdate struct {
	Email    string
	Password string
}

var (
	// ErrInvalidCredentials is returned for a bad email/password pair.
	ErrInvalidCredentials = errors.New("session: invalid credentials")
	// ErrNoSession is returned when no user is signed in. Data loads treat
	// it as a forced-logout signal rather than rendering a stale view.
	ErrNoSession = errors.New("session: not signed in")
)

// Provider authenticates the user and owns the sign-in lifecycle.
type Provider interface {
	CurrentUser(ctx context.Context) (*User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*User, error)
	SignOut(ctx context.Context) error
	UpdateCredentials(ctx context.Context, update CredentialUpdate) error
}
