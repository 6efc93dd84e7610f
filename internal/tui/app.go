package tui

import (
	"context"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/vinnx/duofin/internal/assistant"
	"github.com/vinnx/duofin/internal/config"
	"github.com/vinnx/duofin/internal/database/repository"
	"github.com/vinnx/duofin/internal/prefs"
	"github.com/vinnx/duofin/internal/service"
	"github.com/vinnx/duofin/internal/state"
)

// App ties together views over the shared store.
type App struct {
	ctx       context.Context
	st        *state.Store
	services  Services
	responder assistant.Responder
	cfg       config.Config
	prefs     prefs.Cache
	view      view
	cursor    map[view]int
	status    string
	tz        *time.Location
	currency  string

	form *form

	// ledger filters
	statusFilter string
	search       string
	searching    bool

	// assistant chat
	chat      []chatMsg
	chatInput string
	thinking  bool

	// calendar month being browsed
	calMonth time.Time

	width, height int
	quitting      bool
}

type Services struct {
	Contribution *service.ContributionService
	Maintenance  *service.MaintenanceService
	Backup       *service.BackupService
	Profile      *service.ProfileService
}

type view string

const (
	viewDashboard view = "dashboard"
	viewLedger    view = "ledger"
	viewAccounts  view = "accounts"
	viewCards     view = "cards"
	viewGoals     view = "goals"
	viewWishlist  view = "wishlist"
	viewProjects  view = "projects"
	viewNotes     view = "notes"
	viewCalendar  view = "calendar"
	viewAssistant view = "assistant"
	viewSettings  view = "settings"
)

// order drives tab cycling and the nav bar.
var viewOrder = []view{
	viewDashboard, viewLedger, viewAccounts, viewCards, viewGoals,
	viewWishlist, viewProjects, viewNotes, viewCalendar, viewAssistant, viewSettings,
}

type chatMsg struct {
	FromUser bool
	Text     string
}

func New(ctx context.Context, cfg config.Config, st *state.Store, services Services, responder assistant.Responder, pc prefs.Cache, tz *time.Location) *App {
	if tz == nil {
		tz = time.Local
	}
	return &App{
		ctx:       ctx,
		st:        st,
		services:  services,
		responder: responder,
		cfg:       cfg,
		prefs:     pc,
		view:      viewDashboard,
		cursor:    map[view]int{},
		tz:        tz,
		currency:  cfg.UI.CurrencySymbol,
		calMonth:  time.Now().In(tz),
	}
}

func (a *App) Init() tea.Cmd {
	return a.loadCmd()
}

func (a *App) loadCmd() tea.Cmd {
	return func() tea.Msg {
		if err := a.st.Load(a.ctx); err != nil {
			return errMsg{err}
		}
		return loadedMsg{}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
	case tea.KeyMsg:
		if a.form != nil {
			return a.handleFormKey(m)
		}
		if a.view == viewAssistant {
			return a.handleChatKey(m)
		}
		if a.searching {
			return a.handleSearchKey(m)
		}
		return a.handleKey(m)
	case loadedMsg:
		a.status = "synced"
		a.clampCursors()
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
		a.thinking = false
	case replyMsg:
		a.thinking = false
		a.chat = append(a.chat, chatMsg{Text: string(m)})
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		a.quitting = true
		return a, tea.Quit
	case "tab":
		a.view = a.nextView(1)
		a.status = ""
	case "shift+tab":
		a.view = a.nextView(-1)
		a.status = ""
	case "r":
		a.status = "syncing..."
		return a, a.loadCmd()
	case "up", "k":
		if a.cursor[a.view] > 0 {
			a.cursor[a.view]--
		}
	case "down", "j":
		if a.cursor[a.view] < a.listLen(a.view)-1 {
			a.cursor[a.view]++
		}
	case "/":
		if a.view == viewLedger {
			a.searching = true
		}
	case "f":
		if a.view == viewLedger {
			a.cycleStatusFilter()
		}
	case "left", "h":
		if a.view == viewCalendar {
			a.calMonth = a.calMonth.AddDate(0, -1, 0)
		}
	case "right", "l":
		if a.view == viewCalendar {
			a.calMonth = a.calMonth.AddDate(0, 1, 0)
		}
	case "n":
		if f := a.newEntityForm(); f != nil {
			a.form = f
		}
	case "x", "backspace", "delete":
		return a, a.deleteSelected()
	case "enter":
		return a.primaryAction()
	case "m":
		if a.view == viewDashboard {
			a.markNotificationsRead()
		}
	case "t":
		if a.view == viewProjects {
			return a, a.toggleProjectStatus()
		}
	default:
		order := a.views()
		if idx, err := strconv.Atoi(m.String()); err == nil && idx >= 1 && idx <= len(order) {
			a.view = order[idx-1]
			a.status = ""
		}
	}
	return a, nil
}

func (a *App) nextView(step int) view {
	order := a.views()
	for i, v := range order {
		if v == a.view {
			n := (i + step + len(order)) % len(order)
			return order[n]
		}
	}
	return viewDashboard
}

// views applies the hidden-menus preference; dashboard, the assistant and
// settings are always reachable.
func (a *App) views() []view {
	visible := map[string]bool{}
	for _, m := range a.prefs.VisibleMenus {
		visible[m] = true
	}
	menuKey := map[view]string{
		viewLedger: "ledger", viewAccounts: "accounts", viewCards: "cards",
		viewGoals: "goals", viewWishlist: "wishlist", viewProjects: "projects",
		viewNotes: "notes", viewCalendar: "agenda",
	}
	out := make([]view, 0, len(viewOrder))
	for _, v := range viewOrder {
		if key, ok := menuKey[v]; ok && !visible[key] {
			continue
		}
		out = append(out, v)
	}
	return out
}

func (a *App) listLen(v view) int {
	switch v {
	case viewLedger:
		return len(a.filteredTransactions())
	case viewAccounts:
		return len(a.st.Accounts())
	case viewCards:
		return len(a.st.CreditCards())
	case viewGoals:
		return len(a.st.Goals())
	case viewWishlist:
		return len(a.st.Wishlist())
	case viewProjects:
		return len(a.st.Projects())
	case viewNotes:
		return len(a.st.Notes())
	case viewCalendar:
		return len(a.monthEvents())
	case viewDashboard:
		return len(a.st.Notifications())
	case viewSettings:
		return 6
	}
	return 0
}

func (a *App) clampCursors() {
	for v := range a.cursor {
		if n := a.listLen(v); a.cursor[v] >= n {
			a.cursor[v] = 0
		}
	}
}

func (a *App) cycleStatusFilter() {
	switch a.statusFilter {
	case "":
		a.statusFilter = repository.StatusPaid
	case repository.StatusPaid:
		a.statusFilter = repository.StatusPending
	case repository.StatusPending:
		a.statusFilter = repository.StatusOverdue
	default:
		a.statusFilter = ""
	}
	a.cursor[viewLedger] = 0
}

func (a *App) filteredTransactions() []repository.Transaction {
	txs := a.st.Transactions()
	if a.statusFilter == "" && a.search == "" {
		return txs
	}
	needle := strings.ToLower(a.search)
	out := txs[:0:0]
	for _, t := range txs {
		if a.statusFilter != "" && t.Status != a.statusFilter {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Description), needle) &&
			!strings.Contains(strings.ToLower(t.Category), needle) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// monthEvents merges stored events with finance events projected from the
// ledger, filtered to the browsed month.
func (a *App) monthEvents() []repository.Event {
	all := a.st.Events()
	all = append(all, projectedFinanceEvents(a.st.Transactions())...)
	out := all[:0:0]
	prefix := a.calMonth.Format("2006-01")
	for _, e := range all {
		if strings.HasPrefix(e.Date, prefix) {
			out = append(out, e)
		}
	}
	return out
}

func (a *App) deleteSelected() tea.Cmd {
	i := a.cursor[a.view]
	switch a.view {
	case viewLedger:
		txs := a.filteredTransactions()
		if i < len(txs) {
			a.st.DeleteTransaction(txs[i].ID)
			a.clampCursors()
			return status("transaction removed")
		}
	case viewAccounts:
		if as := a.st.Accounts(); i < len(as) {
			a.st.DeleteAccount(as[i].ID)
			a.clampCursors()
			return status("account removed")
		}
	case viewCards:
		if cs := a.st.CreditCards(); i < len(cs) {
			a.st.DeleteCreditCard(cs[i].ID)
			a.clampCursors()
			return status("card removed")
		}
	case viewGoals:
		if gs := a.st.Goals(); i < len(gs) {
			a.st.DeleteGoal(gs[i].ID)
			a.clampCursors()
			return status("goal removed")
		}
	case viewWishlist:
		if ws := a.st.Wishlist(); i < len(ws) {
			a.st.DeleteWishlistItem(ws[i].ID)
			a.clampCursors()
			return status("wishlist item removed")
		}
	case viewProjects:
		if ps := a.st.Projects(); i < len(ps) {
			a.st.DeleteProject(ps[i].ID)
			a.clampCursors()
			return status("project removed")
		}
	case viewNotes:
		if ns := a.st.Notes(); i < len(ns) {
			a.st.DeleteNote(ns[i].ID)
			a.clampCursors()
			return status("note removed")
		}
	case viewCalendar:
		if es := a.monthEvents(); i < len(es) {
			if strings.HasPrefix(es[i].ID, "tx:") {
				return status("finance events come from the ledger; delete the bill there")
			}
			a.st.DeleteEvent(es[i].ID)
			a.clampCursors()
			return status("event removed")
		}
	}
	return nil
}

// primaryAction is enter on the selected row: deposit flows for goals and
// projects, pay for pending bills, mark-read for notifications.
func (a *App) primaryAction() (tea.Model, tea.Cmd) {
	i := a.cursor[a.view]
	switch a.view {
	case viewGoals:
		if gs := a.st.Goals(); i < len(gs) {
			a.form = a.depositForm(gs[i].ID, "", gs[i].Title)
		}
	case viewProjects:
		if ps := a.st.Projects(); i < len(ps) {
			a.form = a.depositForm("", ps[i].ID, ps[i].Title)
		}
	case viewLedger:
		txs := a.filteredTransactions()
		if i < len(txs) && txs[i].Status != repository.StatusPaid {
			a.st.SetTransactionStatus(txs[i].ID, repository.StatusPaid)
			return a, status("bill marked paid")
		}
	case viewNotes:
		if ns := a.st.Notes(); i < len(ns) {
			a.st.ReactToNote(ns[i].ID)
			return a, status("reacted to " + ns[i].Title)
		}
	case viewDashboard:
		if ns := a.st.Notifications(); i < len(ns) {
			a.st.MarkNotificationRead(ns[i].ID)
		}
	case viewSettings:
		return a, a.settingsAction()
	}
	return a, nil
}

func (a *App) toggleProjectStatus() tea.Cmd {
	ps := a.st.Projects()
	i := a.cursor[viewProjects]
	if i >= len(ps) {
		return nil
	}
	next := repository.ProjectCompleted
	if ps[i].Status == repository.ProjectCompleted {
		next = repository.ProjectActive
	}
	a.st.SetProjectStatus(ps[i].ID, next)
	return status(ps[i].Title + " " + next)
}

func (a *App) markNotificationsRead() {
	for _, n := range a.st.Notifications() {
		a.st.MarkNotificationRead(n.ID)
	}
}

func (a *App) settingsAction() tea.Cmd {
	switch a.cursor[viewSettings] {
	case 0: // toggle theme
		if a.prefs.Theme == "dark" {
			a.prefs.Theme = "light"
		} else {
			a.prefs.Theme = "dark"
		}
		if err := prefs.Save(a.prefs); err != nil {
			return status("theme changed (cache write failed)")
		}
		return status("theme: " + a.prefs.Theme)
	case 1: // avatar
		a.form = a.avatarForm()
		return nil
	case 2: // partner
		a.form = a.partnerForm()
		return nil
	case 3: // export snapshot
		return func() tea.Msg {
			if a.services.Backup == nil {
				return statusMsg("backup not configured")
			}
			url, err := a.services.Backup.Export(time.Now().In(a.tz))
			if err != nil {
				return errMsg{err}
			}
			return statusMsg("snapshot written: " + url)
		}
	case 4: // reset database
		return func() tea.Msg {
			if a.services.Maintenance == nil {
				return statusMsg("maintenance not configured")
			}
			if err := a.services.Maintenance.Reset(a.ctx); err != nil {
				return errMsg{err}
			}
			if err := a.st.Load(a.ctx); err != nil {
				return errMsg{err}
			}
			return statusMsg("all financial data wiped")
		}
	case 5: // logout
		return func() tea.Msg {
			if err := a.st.Logout(a.ctx); err != nil {
				return errMsg{err}
			}
			return tea.Quit()
		}
	}
	return nil
}

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.searching = false
		a.search = ""
	case tea.KeyEnter:
		a.searching = false
		a.cursor[viewLedger] = 0
	case tea.KeyBackspace, tea.KeyCtrlH:
		if len(a.search) > 0 {
			a.search = a.search[:len(a.search)-1]
		}
	case tea.KeySpace:
		a.search += " "
	case tea.KeyRunes:
		a.search += string(m.Runes)
	}
	return a, nil
}

func (a *App) handleChatKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "ctrl+c":
		a.quitting = true
		return a, tea.Quit
	case "tab":
		a.view = a.nextView(1)
		return a, nil
	case "shift+tab":
		a.view = a.nextView(-1)
		return a, nil
	}
	switch m.Type {
	case tea.KeyEsc:
		a.view = viewDashboard
	case tea.KeyEnter:
		text := strings.TrimSpace(a.chatInput)
		if text == "" || a.thinking {
			return a, nil
		}
		a.chat = append(a.chat, chatMsg{FromUser: true, Text: text})
		a.chatInput = ""
		a.thinking = true
		return a, a.askCmd(text)
	case tea.KeyBackspace, tea.KeyCtrlH:
		if len(a.chatInput) > 0 {
			a.chatInput = a.chatInput[:len(a.chatInput)-1]
		}
	case tea.KeySpace:
		a.chatInput += " "
	case tea.KeyRunes:
		a.chatInput += string(m.Runes)
	}
	return a, nil
}

func (a *App) askCmd(query string) tea.Cmd {
	fc := assistant.BuildContext(a.st, time.Now().In(a.tz), a.currency)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(a.ctx, 10*time.Second)
		defer cancel()
		reply, err := a.responder.Respond(ctx, query, fc)
		if err != nil {
			return errMsg{err}
		}
		return replyMsg(reply)
	}
}

// form machinery

type formField struct {
	label   string
	value   string
	numeric bool
}

type form struct {
	title  string
	fields []formField
	index  int
	submit func(values []string) tea.Cmd
}

func (a *App) handleFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := a.form
	switch m.Type {
	case tea.KeyEsc:
		a.form = nil
		return a, nil
	case tea.KeyTab, tea.KeyDown:
		if f.index < len(f.fields)-1 {
			f.index++
		}
		return a, nil
	case tea.KeyShiftTab, tea.KeyUp:
		if f.index > 0 {
			f.index--
		}
		return a, nil
	case tea.KeyEnter:
		if f.index < len(f.fields)-1 {
			f.index++
			return a, nil
		}
		values := make([]string, len(f.fields))
		for i, fld := range f.fields {
			values[i] = strings.TrimSpace(fld.value)
		}
		a.form = nil
		return a, f.submit(values)
	case tea.KeyBackspace, tea.KeyCtrlH:
		fld := &f.fields[f.index]
		if len(fld.value) > 0 {
			fld.value = fld.value[:len(fld.value)-1]
		}
		return a, nil
	case tea.KeySpace:
		f.fields[f.index].value += " "
		return a, nil
	case tea.KeyRunes:
		fld := &f.fields[f.index]
		if fld.numeric {
			for _, r := range m.Runes {
				if (r >= '0' && r <= '9') || r == '.' || r == '-' {
					fld.value += string(r)
				}
			}
			return a, nil
		}
		fld.value += string(m.Runes)
		return a, nil
	}
	return a, nil
}

func parseAmount(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func status(s string) tea.Cmd {
	return func() tea.Msg { return statusMsg(s) }
}

// messages
type loadedMsg struct{}

type statusMsg string

type errMsg struct{ error }

type replyMsg string
