package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/vinnx/duofin/internal/database/repository"
)

// SeedDefaults ensures a profile row exists for a fresh database so the app
// can open straight into the dashboard. It is idempotent and safe to run on
// every startup.
func SeedDefaults(ctx context.Context, db *sql.DB, name, email string) (string, error) {
	profiles := repository.NewProfileRepo(db)
	existing, err := profiles.First(ctx)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}
	if name = strings.TrimSpace(name); name == "" {
		name = "Casal"
	}
	if email = strings.TrimSpace(email); email == "" {
		email = "casal@duofin.local"
	}
	// deterministic id so repeated first-runs against a wiped table agree
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte("profile:"+email)).String()
	p := repository.Profile{ID: id, Name: name, Email: email}
	if err := profiles.Upsert(ctx, p); err != nil {
		return "", err
	}
	return id, nil
}
