package tui

import (
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vinnx/duofin/internal/database/repository"
	"github.com/vinnx/duofin/internal/finance"
)

// newEntityForm builds the "n" form for the current view, or nil where the
// view has nothing to add.
func (a *App) newEntityForm() *form {
	switch a.view {
	case viewLedger:
		return a.transactionForm()
	case viewAccounts:
		return &form{
			title: "New account",
			fields: []formField{
				{label: "Name"},
				{label: "Balance", numeric: true},
				{label: "Owner (blank = " + a.st.User().Email + ")"},
				{label: "Kind (checking/investment)", value: repository.AccountChecking},
				{label: "Last digits"},
				{label: "Color", value: "blue"},
			},
			submit: func(v []string) tea.Cmd {
				bal, ok := parseAmount(v[1])
				if v[0] == "" || !ok {
					return status("account needs a name and a numeric balance")
				}
				a.st.CreateAccount(repository.Account{
					Name: v[0], Balance: bal, Owner: v[2],
					Kind: orDefault(v[3], repository.AccountChecking),
					LastDigits: v[4], Color: v[5],
				})
				return status("account added")
			},
		}
	case viewCards:
		return &form{
			title: "New credit card",
			fields: []formField{
				{label: "Name"},
				{label: "Limit", numeric: true},
				{label: "Current invoice", numeric: true, value: "0"},
				{label: "Best purchase day", numeric: true, value: "1"},
				{label: "Closing day", numeric: true, value: "1"},
				{label: "Brand", value: "visa"},
				{label: "Last digits"},
			},
			submit: func(v []string) tea.Cmd {
				limit, ok := parseAmount(v[1])
				used, ok2 := parseAmount(v[2])
				if v[0] == "" || !ok || !ok2 {
					return status("card needs a name and numeric limit/invoice")
				}
				a.st.CreateCreditCard(repository.CreditCard{
					Name: v[0], Limit: limit, Used: used,
					BestDay: atoiOr(v[3], 1), ClosingDay: atoiOr(v[4], 1),
					Brand: v[5], LastDigits: v[6],
				})
				return status("card added")
			},
		}
	case viewGoals:
		return &form{
			title: "New goal",
			fields: []formField{
				{label: "Title"},
				{label: "Target", numeric: true},
				{label: "Deadline (YYYY-MM-DD)"},
				{label: "Emoji", value: "🎯"},
			},
			submit: func(v []string) tea.Cmd {
				target, ok := parseAmount(v[1])
				if v[0] == "" || !ok {
					return status("goal needs a title and a numeric target")
				}
				a.st.CreateGoal(repository.Goal{
					Title: v[0], Target: target, Deadline: v[2], Emoji: v[3],
				})
				return status("goal added")
			},
		}
	case viewWishlist:
		return &form{
			title: "New wishlist item",
			fields: []formField{
				{label: "Name"},
				{label: "Price", numeric: true},
				{label: "Priority 1-5", numeric: true, value: "3"},
				{label: "Category"},
				{label: "Link"},
			},
			submit: func(v []string) tea.Cmd {
				price, ok := parseAmount(v[1])
				if v[0] == "" || !ok {
					return status("wishlist item needs a name and a numeric price")
				}
				a.st.CreateWishlistItem(repository.WishlistItem{
					Name: v[0], Price: price,
					Priority: clampPriority(atoiOr(v[2], 3)),
					Category: v[3], Link: v[4],
					Viability: repository.ViabilityYellow,
				})
				return status("wishlist item added")
			},
		}
	case viewProjects:
		return &form{
			title: "New project",
			fields: []formField{
				{label: "Title"},
				{label: "Description"},
				{label: "Target (0 = no funding goal)", numeric: true, value: "0"},
				{label: "Deadline (YYYY-MM-DD)"},
			},
			submit: func(v []string) tea.Cmd {
				target, ok := parseAmount(v[2])
				if v[0] == "" || !ok {
					return status("project needs a title and a numeric target")
				}
				a.st.CreateProject(repository.Project{
					Title: v[0], Description: v[1], Target: target,
					Deadline: v[3], Status: repository.ProjectActive,
				})
				return status("project added")
			},
		}
	case viewNotes:
		return &form{
			title: "New note",
			fields: []formField{
				{label: "Title"},
				{label: "Content"},
				{label: "Emoji", value: "📝"},
			},
			submit: func(v []string) tea.Cmd {
				if v[0] == "" && v[1] == "" {
					return status("empty note discarded")
				}
				a.st.CreateNote(repository.Note{
					Title: v[0], Content: v[1], Emoji: v[2],
					Date:      time.Now().In(a.tz).Format("2006-01-02"),
					CreatedBy: a.profileName(),
				})
				return status("note added")
			},
		}
	case viewCalendar:
		return &form{
			title: "New event",
			fields: []formField{
				{label: "Title"},
				{label: "Date (YYYY-MM-DD)", value: time.Now().In(a.tz).Format("2006-01-02")},
				{label: "Time (HH:MM)"},
				{label: "Kind (task/social)", value: repository.EventTask},
			},
			submit: func(v []string) tea.Cmd {
				if v[0] == "" {
					return status("event needs a title")
				}
				if _, ok := finance.ParseDay(v[1]); !ok {
					return status("event date must be YYYY-MM-DD")
				}
				a.st.CreateEvent(repository.Event{
					Title: v[0], Date: v[1], Time: v[2],
					Kind:  orDefault(v[3], repository.EventTask),
					Owner: a.profileName(),
				})
				return status("event added")
			},
		}
	}
	return nil
}

func (a *App) transactionForm() *form {
	categories := strings.Join(a.prefs.Settings.TransactionCategories, ", ")
	return &form{
		title: "New transaction",
		fields: []formField{
			{label: "Description"},
			{label: "Amount", numeric: true},
			{label: "Type (income/expense)", value: repository.TypeExpense},
			{label: "Category (" + truncate(categories, 40) + ")"},
			{label: "Date (YYYY-MM-DD, blank = today)"},
			{label: "Account name or id"},
			{label: "Status (paid/pending)", value: repository.StatusPaid},
			{label: "Division (shared/individual)", value: "shared"},
		},
		submit: func(v []string) tea.Cmd {
			amount, ok := parseAmount(v[1])
			if v[0] == "" || !ok || amount.IsNegative() {
				return status("transaction needs a description and a non-negative amount")
			}
			t := repository.Transaction{
				Description: v[0],
				Amount:      amount,
				Type:        orDefault(v[2], repository.TypeExpense),
				Category:    v[3],
				Date:        v[4],
				Status:      orDefault(v[6], repository.StatusPaid),
				Division:    orDefault(v[7], "shared"),
				Owner:       a.profileName(),
			}
			// resolve the account field against known ids first, names second
			for _, acct := range a.st.Accounts() {
				if acct.ID == v[5] || strings.EqualFold(acct.Name, v[5]) {
					t.AccountID = acct.ID
					t.AccountName = acct.Name
					break
				}
			}
			if t.AccountID == "" {
				t.AccountName = v[5]
			}
			a.st.CreateTransaction(t)
			return status("transaction added")
		},
	}
}

// depositForm routes an aporte to either a goal or a project.
func (a *App) depositForm(goalID, projectID, title string) *form {
	accounts := a.st.Accounts()
	hint := "Account"
	if len(accounts) > 0 {
		hint += " (" + accounts[0].Name + ", ...)"
	}
	return &form{
		title: "Deposit to " + title,
		fields: []formField{
			{label: "Amount", numeric: true},
			{label: hint},
		},
		submit: func(v []string) tea.Cmd {
			amount, ok := parseAmount(v[0])
			if !ok {
				return status("deposit needs a numeric amount")
			}
			accountID := ""
			for _, acct := range accounts {
				if acct.ID == v[1] || strings.EqualFold(acct.Name, v[1]) {
					accountID = acct.ID
					break
				}
			}
			return func() tea.Msg {
				var err error
				if goalID != "" {
					err = a.services.Contribution.DepositToGoal(goalID, accountID, amount)
				} else {
					err = a.services.Contribution.ContributeToProject(projectID, accountID, amount)
				}
				if err != nil {
					return errMsg{err}
				}
				return statusMsg("deposit recorded")
			}
		},
	}
}

func (a *App) avatarForm() *form {
	return &form{
		title: "Set avatar",
		fields: []formField{
			{label: "Image path"},
		},
		submit: func(v []string) tea.Cmd {
			return func() tea.Msg {
				if a.services.Profile == nil {
					return statusMsg("profile service not configured")
				}
				url, err := a.services.Profile.SetAvatar(a.ctx, v[0])
				if err != nil {
					return errMsg{err}
				}
				return statusMsg("avatar saved: " + url)
			}
		},
	}
}

func (a *App) partnerForm() *form {
	return &form{
		title: "Link partner",
		fields: []formField{
			{label: "Name"},
			{label: "Email"},
		},
		submit: func(v []string) tea.Cmd {
			return func() tea.Msg {
				if a.services.Profile == nil {
					return statusMsg("profile service not configured")
				}
				if err := a.services.Profile.LinkPartner(a.ctx, v[0], v[1]); err != nil {
					return errMsg{err}
				}
				return statusMsg("partner linked: " + v[0])
			}
		},
	}
}

func (a *App) profileName() string {
	p, _ := a.st.Profile()
	return p.Name
}

func projectedFinanceEvents(txs []repository.Transaction) []repository.Event {
	return finance.ProjectFinanceEvents(txs)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func clampPriority(p int) int {
	if p < 1 {
		return 1
	}
	if p > 5 {
		return 5
	}
	return p
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
