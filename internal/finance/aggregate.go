// Package finance holds the read-time derivation functions of the dashboard.
// Everything here is a pure transform over the in-memory collections: no side
// effects, safe to recompute on every frame, and zero-safe on empty input.
package finance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vinnx/duofin/internal/database/repository"
)

var hundred = decimal.NewFromInt(100)

// MonthlySummary aggregates one calendar month of the ledger.
type MonthlySummary struct {
	Income         decimal.Decimal
	Expenses       decimal.Decimal
	PendingExpense decimal.Decimal
}

// ComputeMonthlySummary sums paid income, paid expenses and pending expenses
// for the given month. Rows with unparseable dates are skipped.
func ComputeMonthlySummary(txs []repository.Transaction, year int, month time.Month) MonthlySummary {
	s := MonthlySummary{
		Income:         decimal.Zero,
		Expenses:       decimal.Zero,
		PendingExpense: decimal.Zero,
	}
	for _, t := range txs {
		day, ok := ParseDay(t.Date)
		if !ok || !sameMonth(day, year, month) {
			continue
		}
		switch {
		case t.Type == repository.TypeIncome && t.Status == repository.StatusPaid:
			s.Income = s.Income.Add(t.Amount)
		case t.Type == repository.TypeExpense && t.Status == repository.StatusPaid:
			s.Expenses = s.Expenses.Add(t.Amount)
		case t.Type == repository.TypeExpense && t.Status == repository.StatusPending:
			s.PendingExpense = s.PendingExpense.Add(t.Amount)
		}
	}
	return s
}

// ComputeNetWorth sums every account balance.
func ComputeNetWorth(accounts []repository.Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// ComputeNetWorthOwnedBy sums balances for one owner. Joint accounts count
// for everyone.
func ComputeNetWorthOwnedBy(accounts []repository.Account, owner string) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		if a.Owner == owner || a.Owner == repository.OwnerJoint {
			total = total.Add(a.Balance)
		}
	}
	return total
}

// ComputeInvestedTotal sums balances of investment-kind accounts.
func ComputeInvestedTotal(accounts []repository.Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		if a.Kind == repository.AccountInvestment {
			total = total.Add(a.Balance)
		}
	}
	return total
}

// ComputeCreditUtilization returns used/limit as a raw percentage. The value
// is not clamped; a card past its limit reads above 100. A zero limit yields
// zero, never a division error.
func ComputeCreditUtilization(card repository.CreditCard) decimal.Decimal {
	if card.Limit.IsZero() {
		return decimal.Zero
	}
	return card.Used.Div(card.Limit).Mul(hundred)
}

// ComputeGoalProgress returns current/target as a raw percentage with the
// same zero-target rule.
func ComputeGoalProgress(goal repository.Goal) decimal.Decimal {
	if goal.Target.IsZero() {
		return decimal.Zero
	}
	return goal.Current.Div(goal.Target).Mul(hundred)
}

// ComputeProjectProgress returns current/target for a funded project.
func ComputeProjectProgress(p repository.Project) decimal.Decimal {
	if p.Target.IsZero() {
		return decimal.Zero
	}
	return p.Current.Div(p.Target).Mul(hundred)
}

// ClampPercent bounds a raw percentage to [0, 100] for bar rendering. Text
// such as "amount remaining" should use the raw value instead.
func ClampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

// CategoryTotal is one category's expense sum.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

// ComputeTopExpenseCategory groups the current calendar month's expenses
// (all statuses) by category and returns the highest sum, or nil when the
// month has no expenses. Ties break on category name for a stable answer.
func ComputeTopExpenseCategory(txs []repository.Transaction, now time.Time) *CategoryTotal {
	sums := map[string]decimal.Decimal{}
	for _, t := range txs {
		if t.Type != repository.TypeExpense {
			continue
		}
		day, ok := ParseDay(t.Date)
		if !ok || !sameMonth(day, now.Year(), now.Month()) {
			continue
		}
		prev, found := sums[t.Category]
		if !found {
			prev = decimal.Zero
		}
		sums[t.Category] = prev.Add(t.Amount)
	}
	if len(sums) == 0 {
		return nil
	}
	names := make([]string, 0, len(sums))
	for name := range sums {
		names = append(names, name)
	}
	sort.Strings(names)
	best := CategoryTotal{Category: names[0], Amount: sums[names[0]]}
	for _, name := range names[1:] {
		if sums[name].GreaterThan(best.Amount) {
			best = CategoryTotal{Category: name, Amount: sums[name]}
		}
	}
	return &best
}
