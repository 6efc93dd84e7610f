package finance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vinnx/duofin/internal/database/repository"
)

// AgendaEntry is an upcoming bill derived from a pending or overdue
// transaction.
type AgendaEntry struct {
	ID          string
	Description string
	Amount      decimal.Decimal
	Date        string
	Due         time.Time
	Status      string
}

// ComputeUpcomingAgenda lists pending/overdue transactions due today or
// later, soonest first, truncated to limit. "Today" means local midnight of
// now; yesterday's bill is out, today's is in.
func ComputeUpcomingAgenda(txs []repository.Transaction, limit int, now time.Time) []AgendaEntry {
	cutoff := midnight(now)
	var out []AgendaEntry
	for _, t := range txs {
		if t.Status != repository.StatusPending && t.Status != repository.StatusOverdue {
			continue
		}
		day, ok := ParseDay(t.Date)
		if !ok {
			continue
		}
		// rebuild in now's zone: parsed days are UTC, and comparing them
		// raw shifts the boundary a day west of Greenwich
		due := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
		if due.Before(cutoff) {
			continue
		}
		out = append(out, AgendaEntry{
			ID:          t.ID,
			Description: t.Description,
			Amount:      t.Amount,
			Date:        t.Date,
			Due:         due,
			Status:      t.Status,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Due.Before(out[j].Due) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ProjectFinanceEvents turns pending/overdue transactions into calendar
// entries at read time. These are views, never persisted rows.
func ProjectFinanceEvents(txs []repository.Transaction) []repository.Event {
	var out []repository.Event
	for _, t := range txs {
		if t.Status != repository.StatusPending && t.Status != repository.StatusOverdue {
			continue
		}
		if _, ok := ParseDay(t.Date); !ok {
			continue
		}
		out = append(out, repository.Event{
			ID:    "tx:" + t.ID,
			Title: t.Description,
			Kind:  "finance",
			Owner: t.Owner,
			Date:  t.Date,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
