// Package assistant is the chat response source. Both implementations take
// the same pre-computed financial context, so swapping the rule engine for a
// remote model changes tone, not facts.
package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vinnx/duofin/internal/finance"
	"github.com/vinnx/duofin/internal/state"
)

// Context is the snapshot of the couple's finances a responder may quote.
type Context struct {
	UserName    string
	PartnerName string
	Currency    string

	TotalBalance  decimal.Decimal
	MonthIncome   decimal.Decimal
	MonthExpenses decimal.Decimal
	OpenInvoice   decimal.Decimal

	TopGoalTitle    string
	TopGoalProgress decimal.Decimal

	TopCategory       string
	TopCategoryAmount decimal.Decimal

	NextBill *finance.AgendaEntry
}

// Responder produces one reply for one user message.
type Responder interface {
	Respond(ctx context.Context, query string, fc Context) (string, error)
}

// BuildContext assembles the responder input from the live store. One code
// path feeds every responder.
func BuildContext(st *state.Store, now time.Time, currency string) Context {
	accounts := st.Accounts()
	txs := st.Transactions()
	cards := st.CreditCards()
	goals := st.Goals()
	profile, _ := st.Profile()

	summary := finance.ComputeMonthlySummary(txs, now.Year(), now.Month())

	invoice := decimal.Zero
	for _, c := range cards {
		invoice = invoice.Add(c.Used)
	}

	fc := Context{
		UserName:      profile.Name,
		PartnerName:   st.PartnerName(),
		Currency:      currency,
		TotalBalance:  finance.ComputeNetWorth(accounts),
		MonthIncome:   summary.Income,
		MonthExpenses: summary.Expenses.Add(summary.PendingExpense),
		OpenInvoice:   invoice,
	}
	if len(goals) > 0 {
		fc.TopGoalTitle = goals[0].Title
		fc.TopGoalProgress = finance.ComputeGoalProgress(goals[0])
	}
	if top := finance.ComputeTopExpenseCategory(txs, now); top != nil {
		fc.TopCategory = top.Category
		fc.TopCategoryAmount = top.Amount
	}
	if agenda := finance.ComputeUpcomingAgenda(txs, 1, now); len(agenda) > 0 {
		fc.NextBill = &agenda[0]
	}
	return fc
}

// Money formats an amount with the configured currency symbol.
func (c Context) Money(d decimal.Decimal) string {
	return fmt.Sprintf("%s%s", c.Currency, d.StringFixed(2))
}

// Greeting returns the time-of-day salutation used to open a chat.
func Greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "Good morning"
	case h < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}
