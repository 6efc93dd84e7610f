package assistant

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// Rules is the offline response source: keyword dispatch over the query with
// typo tolerance, answering from the financial context. It is the default
// and the fallback when the remote model is unreachable.
type Rules struct{}

// topic keywords include the Portuguese terms the couple actually types.
var topics = []struct {
	name     string
	keywords []string
}{
	{"balance", []string{"balance", "saldo", "money", "total", "worth", "patrimonio"}},
	{"expenses", []string{"expense", "expenses", "spend", "spent", "spending", "gasto", "gastos", "despesa", "despesas"}},
	{"income", []string{"income", "receita", "receitas", "salary", "earn", "earned"}},
	{"card", []string{"card", "cards", "cartao", "fatura", "invoice", "credit", "limit"}},
	{"goal", []string{"goal", "goals", "meta", "metas", "sonho", "dream", "progress", "aporte"}},
	{"bills", []string{"bill", "bills", "pending", "agenda", "due", "overdue", "vencimento", "upcoming"}},
	{"category", []string{"category", "categoria", "where", "biggest"}},
	{"hello", []string{"hi", "hello", "hey", "oi", "ola"}},
}

func (Rules) Respond(_ context.Context, query string, fc Context) (string, error) {
	switch classify(query) {
	case "balance":
		if fc.TotalBalance.IsNegative() {
			return fmt.Sprintf("You're at %s across all accounts right now. Watch the cash flow this week.", fc.Money(fc.TotalBalance)), nil
		}
		return fmt.Sprintf("You two have %s available across all accounts. Solid position!", fc.Money(fc.TotalBalance)), nil
	case "expenses":
		if fc.TopCategory != "" {
			return fmt.Sprintf("Spending this month is at %s, and %s is the biggest slice (%s). Keep an eye on it.",
				fc.Money(fc.MonthExpenses), fc.TopCategory, fc.Money(fc.TopCategoryAmount)), nil
		}
		return fmt.Sprintf("Spending this month is at %s. Nothing stands out by category yet.", fc.Money(fc.MonthExpenses)), nil
	case "income":
		return fmt.Sprintf("Income this month: %s. Expenses: %s. That's the whole picture.",
			fc.Money(fc.MonthIncome), fc.Money(fc.MonthExpenses)), nil
	case "card":
		return fmt.Sprintf("The open card invoice adds up to %s. Pay before the closing day and you're fine.", fc.Money(fc.OpenInvoice)), nil
	case "goal":
		if fc.TopGoalTitle == "" {
			return "No goals set up yet. Create one and every deposit will show up here.", nil
		}
		return fmt.Sprintf("%q is at %s%% of the target. One more aporte and it moves again!",
			fc.TopGoalTitle, fc.TopGoalProgress.StringFixed(0)), nil
	case "bills":
		if fc.NextBill == nil {
			return "Nothing pending on the agenda. Enjoy it.", nil
		}
		return fmt.Sprintf("Next one up: %s, %s on %s.", fc.NextBill.Description, fc.Money(fc.NextBill.Amount), fc.NextBill.Date), nil
	case "category":
		if fc.TopCategory == "" {
			return "No expenses this month yet, so no top category to point at.", nil
		}
		return fmt.Sprintf("Most of this month's money went to %s: %s.", fc.TopCategory, fc.Money(fc.TopCategoryAmount)), nil
	case "hello":
		name := fc.UserName
		if name == "" {
			name = "you two"
		}
		return fmt.Sprintf("Hey, %s! Balance is %s and this month's spending is %s. What do you want to look at?",
			name, fc.Money(fc.TotalBalance), fc.Money(fc.MonthExpenses)), nil
	default:
		return fmt.Sprintf("Quick overview: %s in the accounts, %s spent this month, %s open on cards. Ask about balance, goals, cards or bills.",
			fc.Money(fc.TotalBalance), fc.Money(fc.MonthExpenses), fc.Money(fc.OpenInvoice)), nil
	}
}

// classify picks the first topic with a matching token. Tokens of five runes
// or more tolerate one edit so "blaance" still lands on balance.
func classify(query string) string {
	tokens := tokenize(query)
	for _, topic := range topics {
		for _, tok := range tokens {
			for _, kw := range topic.keywords {
				if matches(tok, kw) {
					return topic.name
				}
			}
		}
	}
	return ""
}

func matches(token, keyword string) bool {
	if token == keyword {
		return true
	}
	if len([]rune(token)) >= 5 && len([]rune(keyword)) >= 5 {
		return levenshtein.ComputeDistance(token, keyword) <= 1
	}
	return false
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
