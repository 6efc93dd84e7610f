package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/vinnx/duofin/internal/database/repository"
)

// Local authenticates against the profiles table with bcrypt hashes. It
// stands in for the hosted identity provider behind the same Provider
// contract.
type Local struct {
	mu       sync.Mutex
	profiles *repository.ProfileRepo
	current  *User
}

func NewLocal(profiles *repository.ProfileRepo) *Local {
	return &Local{profiles: profiles}
}

func (l *Local) CurrentUser(ctx context.Context) (*User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return nil, ErrNoSession
	}
	// re-check the row so a deleted profile invalidates the session
	p, err := l.profiles.Get(ctx, l.current.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		l.current = nil
		return nil, ErrNoSession
	}
	return &User{ID: p.ID, Email: p.Email}, nil
}

// SignInWithPassword checks the stored hash. A profile that has never set a
// password accepts the first sign-in and stores the hash then.
func (l *Local) SignInWithPassword(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	p, err := l.profiles.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrInvalidCredentials
	}
	if p.PasswordHash == "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		p.PasswordHash = string(hash)
		if err := l.profiles.Upsert(ctx, *p); err != nil {
			return nil, err
		}
	} else if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	u := &User{ID: p.ID, Email: p.Email}
	l.mu.Lock()
	l.current = u
	l.mu.Unlock()
	return u, nil
}

func (l *Local) SignOut(ctx context.Context) error {
	l.mu.Lock()
	l.current = nil
	l.mu.Unlock()
	return nil
}

// UpdateCredentials changes email and/or password for the signed-in user.
// Hosted providers confirm email changes out of band; locally the change is
// applied directly.
func (l *Local) UpdateCredentials(ctx context.Context, update CredentialUpdate) error {
	l.mu.Lock()
	current := l.current
	l.mu.Unlock()
	if current == nil {
		return ErrNoSession
	}
	p, err := l.profiles.Get(ctx, current.ID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrNoSession
	}
	if update.Email != "" {
		p.Email = strings.ToLower(strings.TrimSpace(update.Email))
	}
	if update.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(update.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		p.PasswordHash = string(hash)
	}
	if err := l.profiles.Upsert(ctx, *p); err != nil {
		return err
	}
	l.mu.Lock()
	l.current = &User{ID: p.ID, Email: p.Email}
	l.mu.Unlock()
	return nil
}
