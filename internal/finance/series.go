package finance

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vinnx/duofin/internal/database/repository"
)

// SeriesPoint is one month of the dashboard chart.
type SeriesPoint struct {
	MonthLabel    string
	IncomeUser    decimal.Decimal
	IncomePartner decimal.Decimal
	Expenses      decimal.Decimal
}

// ComputeSixMonthSeries builds the six-point income/expense series ending at
// now's month, oldest first. Months without transactions still appear as
// zeros. Income with no owner or a Joint owner counts toward the user series;
// the partner series only takes exact owner matches.
func ComputeSixMonthSeries(txs []repository.Transaction, userName, partnerName string, now time.Time) []SeriesPoint {
	points := make([]SeriesPoint, 0, 6)
	for i := 5; i >= 0; i-- {
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		p := SeriesPoint{
			MonthLabel:    strings.ToLower(first.Format("Jan")),
			IncomeUser:    decimal.Zero,
			IncomePartner: decimal.Zero,
			Expenses:      decimal.Zero,
		}
		for _, t := range txs {
			day, ok := ParseDay(t.Date)
			if !ok || !sameMonth(day, first.Year(), first.Month()) {
				continue
			}
			switch t.Type {
			case repository.TypeExpense:
				p.Expenses = p.Expenses.Add(t.Amount)
			case repository.TypeIncome:
				if partnerName != "" && t.Owner == partnerName {
					p.IncomePartner = p.IncomePartner.Add(t.Amount)
				} else if t.Owner == "" || t.Owner == userName || t.Owner == repository.OwnerJoint {
					p.IncomeUser = p.IncomeUser.Add(t.Amount)
				}
			}
		}
		points = append(points, p)
	}
	return points
}
