package repository

import (
	"context"
	"database/sql"
)

// ProfileRepo handles the user profile and the linked family member.
type ProfileRepo struct {
	db *sql.DB
}

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{db: db} }

func (r *ProfileRepo) Upsert(ctx context.Context, p Profile) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO profiles(id, name, email, avatar_url, password_hash, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 email=excluded.email,
	 avatar_url=excluded.avatar_url,
	 password_hash=excluded.password_hash,
	 updated_at=CURRENT_TIMESTAMP;
	`, p.ID, p.Name, p.Email, p.AvatarURL, p.PasswordHash)
	return err
}

func (r *ProfileRepo) Get(ctx context.Context, id string) (*Profile, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, name, email, avatar_url, password_hash, created_at, updated_at
	FROM profiles WHERE id = ?`, id)
	return scanProfile(row)
}

func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, name, email, avatar_url, password_hash, created_at, updated_at
	FROM profiles WHERE email = ?`, email)
	return scanProfile(row)
}

// First returns the single local profile, if any. The install is a
// one-couple model; multiple rows only happen on shared databases.
func (r *ProfileRepo) First(ctx context.Context) (*Profile, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, name, email, avatar_url, password_hash, created_at, updated_at
	FROM profiles ORDER BY created_at LIMIT 1`)
	return scanProfile(row)
}

func scanProfile(row scanner) (*Profile, error) {
	var p Profile
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &p.AvatarURL, &p.PasswordHash, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// SetFamilyMember links the partner, replacing any existing link. At most one
// member is linked per profile.
func (r *ProfileRepo) SetFamilyMember(ctx context.Context, m FamilyMember) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO family_members(profile_id, name, email, avatar_url)
	VALUES(?, ?, ?, ?)
	ON CONFLICT(profile_id) DO UPDATE SET
	 name=excluded.name,
	 email=excluded.email,
	 avatar_url=excluded.avatar_url;
	`, m.ProfileID, m.Name, m.Email, m.AvatarURL)
	return err
}

func (r *ProfileRepo) FamilyMember(ctx context.Context, profileID string) (*FamilyMember, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT profile_id, name, email, avatar_url FROM family_members WHERE profile_id = ?`, profileID)
	var m FamilyMember
	if err := row.Scan(&m.ProfileID, &m.Name, &m.Email, &m.AvatarURL); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *ProfileRepo) RemoveFamilyMember(ctx context.Context, profileID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM family_members WHERE profile_id = ?`, profileID)
	return err
}
