package repository

import (
	"context"
	"database/sql"
)

// NoteRepo handles shared notes.
type NoteRepo struct {
	db *sql.DB
}

func NewNoteRepo(db *sql.DB) *NoteRepo { return &NoteRepo{db: db} }

func (r *NoteRepo) Insert(ctx context.Context, userID string, n Note) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO notes(id, user_id, title, content, date, created_by, color, emoji, reactions, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`, n.ID, userID, n.Title, n.Content, n.Date, n.CreatedBy, n.Color, n.Emoji, n.Reactions)
	return err
}

func (r *NoteRepo) UpdateReactions(ctx context.Context, id string, reactions int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE notes SET reactions = ? WHERE id = ?`, reactions, id)
	return err
}

func (r *NoteRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	return err
}

func (r *NoteRepo) List(ctx context.Context, userID string) ([]Note, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, title, content, date, created_by, color, emoji, reactions, created_at
	FROM notes WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.Date, &n.CreatedBy, &n.Color, &n.Emoji, &n.Reactions, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
