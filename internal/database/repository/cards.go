package repository

import (
	"context"
	"database/sql"
)

// CreditCardRepo handles credit cards.
type CreditCardRepo struct {
	db *sql.DB
}

func NewCreditCardRepo(db *sql.DB) *CreditCardRepo { return &CreditCardRepo{db: db} }

func (r *CreditCardRepo) Insert(ctx context.Context, userID string, c CreditCard) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO credit_cards(id, user_id, name, card_limit, used, best_day, closing_day,
	 brand, last_digits, color, owner, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, c.ID, userID, c.Name, c.Limit.String(), c.Used.String(), c.BestDay, c.ClosingDay,
		c.Brand, c.LastDigits, c.Color, c.Owner)
	return err
}

// UpdateUsed writes the stored open-invoice amount. The used column is the
// source of truth; pending transaction sums are never written back here.
func (r *CreditCardRepo) UpdateUsed(ctx context.Context, id, used string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE credit_cards SET used = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, used, id)
	return err
}

func (r *CreditCardRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM credit_cards WHERE id = ?`, id)
	return err
}

func (r *CreditCardRepo) List(ctx context.Context, userID string) ([]CreditCard, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, name, card_limit, used, best_day, closing_day, brand, last_digits, color, owner, created_at, updated_at
	FROM credit_cards WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CreditCard
	for rows.Next() {
		var c CreditCard
		var limit, used string
		if err := rows.Scan(&c.ID, &c.Name, &limit, &used, &c.BestDay, &c.ClosingDay,
			&c.Brand, &c.LastDigits, &c.Color, &c.Owner, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.Limit = dec(limit)
		c.Used = dec(used)
		out = append(out, c)
	}
	return out, rows.Err()
}
