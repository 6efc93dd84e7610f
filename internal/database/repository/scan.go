package repository

import "github.com/shopspring/decimal"

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// dec parses a stored decimal column. Amounts are stored as TEXT to keep
// exact cents; an unparseable value degrades to zero rather than failing the
// whole list.
func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
