package repository

import (
	"context"
	"database/sql"
)

// GoalRepo handles savings goals.
type GoalRepo struct {
	db *sql.DB
}

func NewGoalRepo(db *sql.DB) *GoalRepo { return &GoalRepo{db: db} }

func (r *GoalRepo) Insert(ctx context.Context, userID string, g Goal) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO goals(id, user_id, title, target_amount, current_amount, deadline, color, emoji, image_url, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, g.ID, userID, g.Title, g.Target.String(), g.Current.String(), g.Deadline, g.Color, g.Emoji, g.ImageURL)
	return err
}

// UpdateCurrent persists the accumulated deposit total after an aporte.
func (r *GoalRepo) UpdateCurrent(ctx context.Context, id, current string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE goals SET current_amount = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, current, id)
	return err
}

func (r *GoalRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	return err
}

func (r *GoalRepo) List(ctx context.Context, userID string) ([]Goal, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, title, target_amount, current_amount, deadline, color, emoji, image_url, created_at, updated_at
	FROM goals WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Goal
	for rows.Next() {
		var g Goal
		var target, current string
		if err := rows.Scan(&g.ID, &g.Title, &target, &current, &g.Deadline, &g.Color, &g.Emoji, &g.ImageURL, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		g.Target = dec(target)
		g.Current = dec(current)
		out = append(out, g)
	}
	return out, rows.Err()
}
