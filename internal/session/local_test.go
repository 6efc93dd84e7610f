package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vinnx/duofin/internal/database"
	"github.com/vinnx/duofin/internal/database/repository"
)

func testProvider(t *testing.T) (*Local, *repository.ProfileRepo, string) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))

	userID, err := database.SeedDefaults(context.Background(), db, "Ana", "ana@test.local")
	require.NoError(t, err)
	return NewLocal(repository.NewProfileRepo(db)), repository.NewProfileRepo(db), userID
}

func TestFirstSignInSetsPassword(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider, profiles, userID := testProvider(t)

	user, err := provider.SignInWithPassword(ctx, "ana@test.local", "hunter2")
	require.NoError(t, err)
	require.Equal(t, userID, user.ID)

	// the hash stuck
	p, err := profiles.Get(ctx, userID)
	require.NoError(t, err)
	require.NotEmpty(t, p.PasswordHash)

	// the same password works, a different one does not
	_, err = provider.SignInWithPassword(ctx, "ana@test.local", "hunter2")
	require.NoError(t, err)
	_, err = provider.SignInWithPassword(ctx, "ana@test.local", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignInUnknownEmail(t *testing.T) {
	t.Parallel()

	provider, _, _ := testProvider(t)
	_, err := provider.SignInWithPassword(context.Background(), "nobody@test.local", "x")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestEmailIsNormalized(t *testing.T) {
	t.Parallel()

	provider, _, _ := testProvider(t)
	user, err := provider.SignInWithPassword(context.Background(), "  ANA@Test.Local ", "pw")
	require.NoError(t, err)
	require.Equal(t, "ana@test.local", user.Email)
}

func TestCurrentUserRequiresSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider, _, _ := testProvider(t)

	_, err := provider.CurrentUser(ctx)
	require.ErrorIs(t, err, ErrNoSession)

	_, err = provider.SignInWithPassword(ctx, "ana@test.local", "pw")
	require.NoError(t, err)
	user, err := provider.CurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, "ana@test.local", user.Email)

	require.NoError(t, provider.SignOut(ctx))
	_, err = provider.CurrentUser(ctx)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestUpdateCredentials(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider, _, _ := testProvider(t)
	_, err := provider.SignInWithPassword(ctx, "ana@test.local", "old-pw")
	require.NoError(t, err)

	require.NoError(t, provider.UpdateCredentials(ctx, CredentialUpdate{
		Email:    "New@Test.Local",
		Password: "new-pw",
	}))

	require.NoError(t, provider.SignOut(ctx))
	_, err = provider.SignInWithPassword(ctx, "ana@test.local", "new-pw")
	require.ErrorIs(t, err, ErrInvalidCredentials, "old email is gone")
	user, err := provider.SignInWithPassword(ctx, "new@test.local", "new-pw")
	require.NoError(t, err)
	require.Equal(t, "new@test.local", user.Email)
}
