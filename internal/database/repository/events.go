package repository

import (
	"context"
	"database/sql"
)

// EventRepo handles persisted calendar entries. Finance-derived events are
// projected from pending transactions at read time and never stored here.
type EventRepo struct {
	db *sql.DB
}

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Insert(ctx context.Context, userID string, e Event) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO events(id, user_id, title, kind, owner, date, time, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`, e.ID, userID, e.Title, e.Kind, e.Owner, e.Date, e.Time)
	return err
}

func (r *EventRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	return err
}

func (r *EventRepo) List(ctx context.Context, userID string) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, title, kind, owner, date, time, created_at
	FROM events WHERE user_id = ? ORDER BY date, time`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Kind, &e.Owner, &e.Date, &e.Time, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
