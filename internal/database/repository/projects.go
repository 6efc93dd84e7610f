package repository

import (
	"context"
	"database/sql"
)

// ProjectRepo handles shared projects.
type ProjectRepo struct {
	db *sql.DB
}

func NewProjectRepo(db *sql.DB) *ProjectRepo { return &ProjectRepo{db: db} }

func (r *ProjectRepo) Insert(ctx context.Context, userID string, p Project) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO projects(id, user_id, title, description, status, target_value, current_value, deadline, image_url, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, p.ID, userID, p.Title, p.Description, p.Status, p.Target.String(), p.Current.String(), p.Deadline, p.ImageURL)
	return err
}

// UpdateCurrent persists the accumulated contribution total.
func (r *ProjectRepo) UpdateCurrent(ctx context.Context, id, current string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE projects SET current_value = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, current, id)
	return err
}

func (r *ProjectRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE projects SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	return err
}

func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	return err
}

func (r *ProjectRepo) List(ctx context.Context, userID string) ([]Project, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, title, description, status, target_value, current_value, deadline, image_url, created_at, updated_at
	FROM projects WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Project
	for rows.Next() {
		var p Project
		var target, current string
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Status, &target, &current, &p.Deadline, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Target = dec(target)
		p.Current = dec(current)
		out = append(out, p)
	}
	return out, rows.Err()
}
