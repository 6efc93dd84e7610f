package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/vinnx/duofin/internal/assistant"
	"github.com/vinnx/duofin/internal/database/repository"
	"github.com/vinnx/duofin/internal/finance"
)

// styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	navActive   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	navInactive = lipgloss.NewStyle().Faint(true)
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	incomeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

var viewLabels = map[view]string{
	viewDashboard: "Dashboard",
	viewLedger:    "Ledger",
	viewAccounts:  "Accounts",
	viewCards:     "Cards",
	viewGoals:     "Goals",
	viewWishlist:  "Wishlist",
	viewProjects:  "Projects",
	viewNotes:     "Notes",
	viewCalendar:  "Calendar",
	viewAssistant: "Assistant",
	viewSettings:  "Settings",
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}
	var body string
	switch a.view {
	case viewLedger:
		body = a.renderLedger()
	case viewAccounts:
		body = a.renderAccounts()
	case viewCards:
		body = a.renderCards()
	case viewGoals:
		body = a.renderGoals()
	case viewWishlist:
		body = a.renderWishlist()
	case viewProjects:
		body = a.renderProjects()
	case viewNotes:
		body = a.renderNotes()
	case viewCalendar:
		body = a.renderCalendar()
	case viewAssistant:
		body = a.renderAssistant()
	case viewSettings:
		body = a.renderSettings()
	default:
		body = a.renderDashboard()
	}
	out := a.renderNav() + "\n" + body
	if a.form != nil {
		out += "\n\n" + a.renderForm()
	}
	if a.status != "" {
		out += "\n" + faintStyle.Render(a.status)
	}
	return out
}

func (a *App) renderNav() string {
	var parts []string
	for i, v := range a.views() {
		label := fmt.Sprintf("%d %s", i+1, viewLabels[v])
		if v == a.view {
			parts = append(parts, navActive.Render(label))
		} else {
			parts = append(parts, navInactive.Render(label))
		}
	}
	if unread := a.st.UnreadNotifications(); unread > 0 {
		parts = append(parts, navActive.Render(fmt.Sprintf("🔔%d", unread)))
	}
	return strings.Join(parts, "  ")
}

func (a *App) money(d decimal.Decimal) string {
	return a.currency + " " + d.StringFixed(2)
}

func (a *App) renderDashboard() string {
	now := time.Now().In(a.tz)
	profile, _ := a.st.Profile()
	accounts := a.st.Accounts()
	txs := a.st.Transactions()

	summary := finance.ComputeMonthlySummary(txs, now.Year(), now.Month())
	total := finance.ComputeNetWorth(accounts)
	invested := finance.ComputeInvestedTotal(accounts)

	out := titleStyle.Render(assistant.Greeting(now)+", "+profile.Name) + "\n\n"

	cards := []string{
		cardStyle.Render("Total balance\n" + a.money(total)),
		cardStyle.Render("Income (" + now.Format("Jan") + ")\n" + incomeStyle.Render(a.money(summary.Income))),
		cardStyle.Render("Expenses\n" + expenseStyle.Render(a.money(summary.Expenses))),
		cardStyle.Render("Scheduled\n" + a.money(summary.PendingExpense)),
		cardStyle.Render("Invested\n" + a.money(invested)),
	}
	out += lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n\n"

	out += a.renderSeries(txs, profile.Name, now) + "\n"

	if top := finance.ComputeTopExpenseCategory(txs, now); top != nil {
		out += fmt.Sprintf("Top category this month: %s (%s)\n", top.Category, a.money(top.Amount))
	}

	agenda := finance.ComputeUpcomingAgenda(txs, 5, now)
	if len(agenda) > 0 {
		out += "\nUpcoming bills:\n"
		for _, e := range agenda {
			line := fmt.Sprintf("  %s  %-30s %12s", e.Due.Format("02/01"), e.Description, a.money(e.Amount))
			if e.Status == repository.StatusOverdue {
				line = overdueStyle.Render(line + "  overdue")
			}
			out += line + "\n"
		}
	}

	notifications := a.st.Notifications()
	if len(notifications) > 0 {
		out += "\nActivity:\n"
		for i, n := range notifications {
			if i >= 5 {
				out += faintStyle.Render(fmt.Sprintf("  ... %d more", len(notifications)-i)) + "\n"
				break
			}
			marker := " "
			if i == a.cursor[viewDashboard] {
				marker = "▶"
			}
			line := fmt.Sprintf("%s %s — %s", marker, n.Title, n.Message)
			if n.Read {
				line = faintStyle.Render(line)
			}
			out += line + "\n"
		}
	}

	out += "\n[tab] Next view  [enter] Mark read  [m] Mark all read  [r] Sync  [q] Quit"
	return out
}

// renderSeries draws the six-month income/expense chart as scaled bars.
func (a *App) renderSeries(txs []repository.Transaction, userName string, now time.Time) string {
	points := finance.ComputeSixMonthSeries(txs, userName, a.st.PartnerName(), now)
	max := decimal.Zero
	for _, p := range points {
		for _, v := range []decimal.Decimal{p.IncomeUser.Add(p.IncomePartner), p.Expenses} {
			if v.GreaterThan(max) {
				max = v
			}
		}
	}
	out := "Last 6 months:\n"
	for _, p := range points {
		income := p.IncomeUser.Add(p.IncomePartner)
		out += fmt.Sprintf("  %s  %s %-24s %s %-24s\n",
			p.MonthLabel,
			incomeStyle.Render("▲"), bar(income, max, 24),
			expenseStyle.Render("▼"), bar(p.Expenses, max, 24))
	}
	return out
}

func bar(v, max decimal.Decimal, width int) string {
	if max.IsZero() || v.LessThanOrEqual(decimal.Zero) {
		return ""
	}
	n := int(v.Div(max).Mul(decimal.NewFromInt(int64(width))).IntPart())
	if n < 1 {
		n = 1
	}
	if n > width {
		n = width
	}
	return strings.Repeat("█", n)
}

func (a *App) renderLedger() string {
	out := titleStyle.Render("Ledger") + "\n"
	filter := "all"
	if a.statusFilter != "" {
		filter = a.statusFilter
	}
	out += faintStyle.Render("filter: "+filter) + "\n"
	if a.searching || a.search != "" {
		out += "search: " + a.search
		if a.searching {
			out += "▌"
		}
		out += "\n"
	}
	txs := a.filteredTransactions()
	if len(txs) == 0 {
		out += "(no transactions)\n"
	}
	for i, t := range txs {
		marker := " "
		if i == a.cursor[viewLedger] {
			marker = "▶"
		}
		amount := a.money(t.Amount)
		if t.Type == repository.TypeExpense {
			amount = expenseStyle.Render("-" + amount)
		} else {
			amount = incomeStyle.Render("+" + amount)
		}
		acct := t.AccountName
		if acct == "" {
			acct = "-"
		}
		line := fmt.Sprintf("%s %s  %-30s %-14s %-12s %-10s %s",
			marker, t.Date, truncate(t.Description, 30), truncate(t.Category, 14),
			truncate(acct, 12), t.Status, amount)
		if t.Status == repository.StatusOverdue {
			line = overdueStyle.Render(line)
		}
		out += line + "\n"
	}
	out += "\n[n] New  [enter] Mark paid  [x] Delete  [f] Filter status  [/] Search  [tab] Next view  [q] Quit"
	return out
}

func (a *App) renderAccounts() string {
	out := titleStyle.Render("Accounts") + "\n"
	accounts := a.st.Accounts()
	if len(accounts) == 0 {
		out += "(no accounts)\n"
	}
	for i, acct := range accounts {
		marker := " "
		if i == a.cursor[viewAccounts] {
			marker = "▶"
		}
		owner := acct.Owner
		if owner == "" {
			owner = repository.OwnerJoint
		}
		trend := ""
		if acct.TrendPct != nil {
			trend = "  " + acct.TrendPct.StringFixed(1) + "%"
		}
		out += fmt.Sprintf("%s %-24s %-12s %-10s %14s%s\n",
			marker, acct.Name, owner, acct.Kind, a.money(acct.Balance), trend)
	}
	out += fmt.Sprintf("\nNet worth: %s\n", a.money(finance.ComputeNetWorth(accounts)))
	out += "[n] New  [x] Delete  [tab] Next view  [q] Quit"
	return out
}

func (a *App) renderCards() string {
	out := titleStyle.Render("Credit Cards") + "\n"
	cards := a.st.CreditCards()
	if len(cards) == 0 {
		out += "(no cards)\n"
	}
	for i, c := range cards {
		marker := " "
		if i == a.cursor[viewCards] {
			marker = "▶"
		}
		util := finance.ClampPercent(finance.ComputeCreditUtilization(c))
		out += fmt.Sprintf("%s %-20s %s ••%s\n", marker, c.Name, c.Brand, c.LastDigits)
		out += fmt.Sprintf("    invoice %s of %s  [%s] %s%%  best day %d, closes %d\n",
			a.money(c.Used), a.money(c.Limit),
			bar(util, decimal.NewFromInt(100), 20), util.StringFixed(0),
			c.BestDay, c.ClosingDay)
	}
	out += "\n[n] New  [x] Delete  [tab] Next view  [q] Quit"
	return out
}

func (a *App) renderGoals() string {
	out := titleStyle.Render("Goals") + "\n"
	goals := a.st.Goals()
	if len(goals) == 0 {
		out += "(no goals — press n to dream one up)\n"
	}
	for i, g := range goals {
		marker := " "
		if i == a.cursor[viewGoals] {
			marker = "▶"
		}
		progress := finance.ClampPercent(finance.ComputeGoalProgress(g))
		out += fmt.Sprintf("%s %s %-24s %s / %s  [%s] %s%%",
			marker, g.Emoji, g.Title, a.money(g.Current), a.money(g.Target),
			bar(progress, decimal.NewFromInt(100), 20), progress.StringFixed(0))
		if g.Deadline != "" {
			out += faintStyle.Render("  by " + g.Deadline)
		}
		out += "\n"
	}
	out += "\n[n] New  [enter] Deposit  [x] Delete  [tab] Next view  [q] Quit"
	return out
}

func (a *App) renderWishlist() string {
	out := titleStyle.Render("Wishlist") + "\n"
	items := a.st.Wishlist()
	if len(items) == 0 {
		out += "(nothing wished for)\n"
	}
	for i, w := range items {
		marker := " "
		if i == a.cursor[viewWishlist] {
			marker = "▶"
		}
		light := map[string]string{
			repository.ViabilityGreen:  "🟢",
			repository.ViabilityYellow: "🟡",
			repository.ViabilityRed:    "🔴",
		}[w.Viability]
		out += fmt.Sprintf("%s %s %-28s %12s  priority %d  %s\n",
			marker, light, truncate(w.Name, 28), a.money(w.Price), w.Priority, w.Category)
	}
	out += "\n[n] New  [x] Delete  [tab] Next view  [q] Quit"
	return out
}

func (a *App) renderProjects() string {
	out := titleStyle.Render("Projects") + "\n"
	projects := a.st.Projects()
	if len(projects) == 0 {
		out += "(no projects)\n"
	}
	for i, p := range projects {
		marker := " "
		if i == a.cursor[viewProjects] {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %-28s %-10s", marker, truncate(p.Title, 28), p.Status)
		if p.Target.IsPositive() {
			progress := finance.ClampPercent(finance.ComputeProjectProgress(p))
			out += fmt.Sprintf("  %s / %s  [%s] %s%%",
				a.money(p.Current), a.money(p.Target),
				bar(progress, decimal.NewFromInt(100), 16), progress.StringFixed(0))
		}
		out += "\n"
		if p.Description != "" {
			out += faintStyle.Render("    "+truncate(p.Description, 70)) + "\n"
		}
	}
	out += "\n[n] New  [enter] Contribute  [t] Toggle done  [x] Delete  [tab] Next view  [q] Quit"
	return out
}

func (a *App) renderNotes() string {
	out := titleStyle.Render("Notes") + "\n"
	notes := a.st.Notes()
	if len(notes) == 0 {
		out += "(no notes)\n"
	}
	for i, n := range notes {
		marker := " "
		if i == a.cursor[viewNotes] {
			marker = "▶"
		}
		line := fmt.Sprintf("%s %s %-24s %s", marker, n.Emoji, truncate(n.Title, 24), faintStyle.Render(n.Date+"  "+n.CreatedBy))
		if n.Reactions > 0 {
			line += fmt.Sprintf("  ❤ %d", n.Reactions)
		}
		out += line + "\n"
		if n.Content != "" {
			out += "    " + truncate(n.Content, 70) + "\n"
		}
	}
	out += "\n[n] New  [enter] React  [x] Delete  [tab] Next view  [q] Quit"
	return out
}

func (a *App) renderCalendar() string {
	out := titleStyle.Render("Calendar — "+a.calMonth.Format("January 2006")) + "\n"
	events := a.monthEvents()
	if len(events) == 0 {
		out += "(nothing this month)\n"
	}
	for i, e := range events {
		marker := " "
		if i == a.cursor[viewCalendar] {
			marker = "▶"
		}
		kind := e.Kind
		if strings.HasPrefix(e.ID, "tx:") {
			kind = "💰 " + kind
		}
		when := e.Date
		if e.Time != "" {
			when += " " + e.Time
		}
		out += fmt.Sprintf("%s %-16s %-10s %s\n", marker, when, kind, e.Title)
	}
	out += "\n[n] New event  [x] Delete  [←/→] Month  [tab] Next view  [q] Quit"
	return out
}

func (a *App) renderAssistant() string {
	out := titleStyle.Render("Assistant") + "\n"
	if len(a.chat) == 0 {
		out += faintStyle.Render("Ask about balances, bills, goals or the month's spending.") + "\n"
	}
	for _, m := range a.chat {
		who := "duofin"
		if m.FromUser {
			who = a.profileName()
		}
		out += navActive.Render(who+":") + " " + m.Text + "\n"
	}
	if a.thinking {
		out += faintStyle.Render("thinking...") + "\n"
	}
	out += "\n> " + a.chatInput + "▌"
	out += "\n[enter] Send  [esc] Dashboard  [tab] Next view"
	return out
}

func (a *App) renderSettings() string {
	profile, partner := a.st.Profile()
	out := titleStyle.Render("Settings") + "\n"
	out += "Signed in as " + profile.Name + " <" + profile.Email + ">\n"
	if partner != nil {
		out += "Partner: " + partner.Name + "\n"
	}
	out += "\n"
	options := []string{
		"Theme: " + a.prefs.Theme,
		"Set avatar image",
		"Link partner",
		"Export data snapshot",
		"Reset all financial data",
		"Log out",
	}
	for i, opt := range options {
		marker := " "
		if i == a.cursor[viewSettings] {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %s\n", marker, opt)
	}
	out += "\n[enter] Select  [tab] Next view  [q] Quit"
	return out
}

func (a *App) renderForm() string {
	f := a.form
	out := titleStyle.Render(f.title) + "\n"
	for i, fld := range f.fields {
		marker := " "
		cursor := ""
		if i == f.index {
			marker = "▶"
			cursor = "▌"
		}
		out += fmt.Sprintf("%s %s: %s%s\n", marker, fld.label, fld.value, cursor)
	}
	out += "[enter] Next/Save  [tab] Next field  [esc] Cancel"
	return cardStyle.Render(out)
}
