package repository

import (
	"context"
	"database/sql"
	"strings"
)

// TransactionFilters defines list filters.
type TransactionFilters struct {
	Status    string
	Type      string
	AccountID string
	Category  string
	Search    string
}

// TransactionRepo handles ledger rows.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

func (r *TransactionRepo) Insert(ctx context.Context, userID string, t Transaction) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO transactions(
	 id, user_id, description, amount, type, category, date, account_id, account_name,
	 status, owner, division, recurring, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`,
		t.ID, userID, t.Description, t.Amount.String(), t.Type, t.Category, t.Date,
		t.AccountID, t.AccountName, t.Status, t.Owner, t.Division, boolInt(t.Recurring))
	return err
}

func (r *TransactionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	return err
}

func (r *TransactionRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE transactions SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	return err
}

func (r *TransactionRepo) List(ctx context.Context, userID string, f TransactionFilters) ([]Transaction, error) {
	where := []string{"user_id = ?"}
	args := []interface{}{userID}

	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, f.Type)
	}
	if f.AccountID != "" {
		where = append(where, "account_id = ?")
		args = append(args, f.AccountID)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.Search != "" {
		where = append(where, "description LIKE ?")
		args = append(args, "%"+f.Search+"%")
	}

	query := `SELECT id, description, amount, type, category, date, account_id, account_name,
	 status, owner, division, recurring, created_at, updated_at FROM transactions
	 WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTransaction(row scanner) (Transaction, error) {
	var t Transaction
	var amount string
	var recurring int
	if err := row.Scan(&t.ID, &t.Description, &amount, &t.Type, &t.Category, &t.Date,
		&t.AccountID, &t.AccountName, &t.Status, &t.Owner, &t.Division, &recurring,
		&t.CreatedAt, &t.UpdatedAt); err != nil {
		return Transaction{}, err
	}
	t.Amount = dec(amount)
	t.Recurring = recurring != 0
	return t, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
