package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vinnx/duofin/internal/finance"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sampleContext() Context {
	return Context{
		UserName:          "Ana",
		Currency:          "R$",
		TotalBalance:      dec("4200.00"),
		MonthIncome:       dec("1500"),
		MonthExpenses:     dec("1300"),
		OpenInvoice:       dec("850.25"),
		TopGoalTitle:      "Japan trip",
		TopGoalProgress:   dec("75"),
		TopCategory:       "Housing",
		TopCategoryAmount: dec("1000"),
		NextBill: &finance.AgendaEntry{
			Description: "Rent", Amount: dec("1000"), Date: "2026-03-28",
		},
	}
}

func ask(t *testing.T, query string) string {
	t.Helper()
	reply, err := Rules{}.Respond(context.Background(), query, sampleContext())
	require.NoError(t, err)
	return reply
}

func TestRulesTopics(t *testing.T) {
	t.Parallel()

	require.Contains(t, ask(t, "what's our balance?"), "R$4200.00")
	require.Contains(t, ask(t, "how much did we spend"), "Housing")
	require.Contains(t, ask(t, "income this month"), "R$1500.00")
	require.Contains(t, ask(t, "card invoice"), "R$850.25")
	require.Contains(t, ask(t, "goal progress"), "Japan trip")
	require.Contains(t, ask(t, "any bills due?"), "Rent")
	require.Contains(t, ask(t, "biggest category"), "Housing")
	require.Contains(t, ask(t, "hello"), "Ana")
}

func TestRulesPortugueseKeywords(t *testing.T) {
	t.Parallel()

	require.Contains(t, ask(t, "qual o saldo"), "R$4200.00")
	require.Contains(t, ask(t, "quanto de gastos esse mes"), "Housing")
	require.Contains(t, ask(t, "fatura do cartao"), "R$850.25")
	require.Contains(t, ask(t, "como vai a meta"), "Japan trip")
	require.Contains(t, ask(t, "algum vencimento chegando"), "Rent")
}

func TestRulesToleratesTypos(t *testing.T) {
	t.Parallel()

	// one edit away, five+ runes: still classified
	require.Contains(t, ask(t, "balanse please"), "R$4200.00")
	require.Contains(t, ask(t, "whats the expnses"), "Housing")

	// short tokens must match exactly
	reply := ask(t, "oi")
	require.Contains(t, reply, "Ana")
}

func TestRulesDefaultOverview(t *testing.T) {
	t.Parallel()

	reply := ask(t, "tell me something interesting")
	require.Contains(t, reply, "R$4200.00")
	require.Contains(t, reply, "R$1300.00")
}

func TestRulesZeroData(t *testing.T) {
	t.Parallel()

	fc := Context{Currency: "R$"}
	reply, err := Rules{}.Respond(context.Background(), "saldo", fc)
	require.NoError(t, err)
	require.Contains(t, reply, "R$0.00")

	reply, err = Rules{}.Respond(context.Background(), "meta", fc)
	require.NoError(t, err)
	require.Contains(t, reply, "No goals")

	reply, err = Rules{}.Respond(context.Background(), "bills", fc)
	require.NoError(t, err)
	require.Contains(t, reply, "Nothing pending")
}

func TestGreeting(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Good morning", Greeting(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)))
	require.Equal(t, "Good afternoon", Greeting(time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)))
	require.Equal(t, "Good evening", Greeting(time.Date(2026, 3, 1, 21, 0, 0, 0, time.UTC)))
}
