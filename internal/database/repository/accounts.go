package repository

import (
	"context"
	"database/sql"
)

// AccountRepo handles bank accounts.
type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{db: db} }

func (r *AccountRepo) Insert(ctx context.Context, userID string, a Account) error {
	var trend interface{}
	if a.TrendPct != nil {
		trend = a.TrendPct.String()
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO accounts(id, user_id, name, balance, owner, color, last_digits, trend_pct, kind, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, a.ID, userID, a.Name, a.Balance.String(), a.Owner, a.Color, a.LastDigits, trend, a.Kind)
	return err
}

// UpdateBalance persists a locally derived balance. Balances are never
// recomputed server-side; this is a plain column write.
func (r *AccountRepo) UpdateBalance(ctx context.Context, id, balance string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE accounts SET balance = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, balance, id)
	return err
}

func (r *AccountRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	return err
}

func (r *AccountRepo) List(ctx context.Context, userID string) ([]Account, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, name, balance, owner, color, last_digits, trend_pct, kind, created_at, updated_at
	FROM accounts WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAccount(row scanner) (Account, error) {
	var a Account
	var balance string
	var trend sql.NullString
	if err := row.Scan(&a.ID, &a.Name, &balance, &a.Owner, &a.Color, &a.LastDigits, &trend, &a.Kind, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return Account{}, err
	}
	a.Balance = dec(balance)
	if trend.Valid {
		t := dec(trend.String)
		a.TrendPct = &t
	}
	return a, nil
}
