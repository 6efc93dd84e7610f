package state

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vinnx/duofin/internal/database/repository"
)

// remoteTimeout bounds each background write so a hung store cannot leak
// goroutines for the life of the session.
const remoteTimeout = 10 * time.Second

// background runs the remote half of a mutation. Failures are logged and
// swallowed; the optimistic local state stays authoritative until the next
// full Load. Callers that care inspect the returned handle.
func (s *Store) background(op string, fn func(ctx context.Context) error) *Mutation {
	m := newMutation()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		err := fn(ctx)
		if err != nil {
			s.log.Error().Err(err).Str("op", op).Msg("remote write failed, keeping local state")
		}
		m.resolve(err)
	}()
	return m
}

// CreateTransaction prepends the transaction and, when it is paid, applies
// the signed balance delta to the referenced account before returning. The
// remote insert (and the mirrored balance write) runs in the background.
func (s *Store) CreateTransaction(t repository.Transaction) (repository.Transaction, *Mutation) {
	t.ID = uuid.NewString()
	if t.Date == "" {
		t.Date = time.Now().Format("2006-01-02")
	}

	s.mu.Lock()
	s.transactions = append([]repository.Transaction{t}, s.transactions...)
	var touched *repository.Account
	if t.Status == repository.StatusPaid {
		touched = s.applyBalanceDelta(t, 1)
	}
	s.mu.Unlock()

	s.notify("transaction", t.Description, t.Type+" of "+t.Amount.StringFixed(2))

	mut := s.background("transaction.create", func(ctx context.Context) error {
		if err := s.remote.Transactions.Insert(ctx, s.user.ID, t); err != nil {
			return err
		}
		if touched != nil {
			return s.mirrorBalance(ctx, touched.ID)
		}
		return nil
	})
	return t, mut
}

// DeleteTransaction removes the transaction and reverses its balance effect
// if it was paid. Unknown ids are a no-op.
func (s *Store) DeleteTransaction(id string) *Mutation {
	s.mu.Lock()
	idx := -1
	for i, t := range s.transactions {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return resolved()
	}
	t := s.transactions[idx]
	s.transactions = append(s.transactions[:idx], s.transactions[idx+1:]...)
	var touched *repository.Account
	if t.Status == repository.StatusPaid {
		touched = s.applyBalanceDelta(t, -1)
	}
	s.mu.Unlock()

	return s.background("transaction.delete", func(ctx context.Context) error {
		if err := s.remote.Transactions.Delete(ctx, id); err != nil {
			return err
		}
		if touched != nil {
			return s.mirrorBalance(ctx, touched.ID)
		}
		return nil
	})
}

// SetTransactionStatus moves a transaction between statuses. Entering paid
// applies the balance delta, leaving paid reverses it; pending→overdue and
// the like touch no account. Unknown ids are a no-op.
func (s *Store) SetTransactionStatus(id, status string) *Mutation {
	s.mu.Lock()
	idx := -1
	for i, t := range s.transactions {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return resolved()
	}
	old := s.transactions[idx].Status
	if old == status {
		s.mu.Unlock()
		return resolved()
	}
	s.transactions[idx].Status = status
	var touched *repository.Account
	switch {
	case old != repository.StatusPaid && status == repository.StatusPaid:
		touched = s.applyBalanceDelta(s.transactions[idx], 1)
	case old == repository.StatusPaid && status != repository.StatusPaid:
		touched = s.applyBalanceDelta(s.transactions[idx], -1)
	}
	s.mu.Unlock()

	return s.background("transaction.status", func(ctx context.Context) error {
		if err := s.remote.Transactions.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		if touched != nil {
			return s.mirrorBalance(ctx, touched.ID)
		}
		return nil
	})
}

// applyBalanceDelta adjusts the matching account by ±amount, income adding
// and expense subtracting, inverted for sign = -1. The account is resolved
// by id; the free-text name fallback remains only for rows created before
// ids existed and silently no-ops when nothing matches. Caller holds s.mu.
func (s *Store) applyBalanceDelta(t repository.Transaction, sign int64) *repository.Account {
	idx := -1
	for i := range s.accounts {
		if t.AccountID != "" && s.accounts[i].ID == t.AccountID {
			idx = i
			break
		}
	}
	if idx < 0 && t.AccountID == "" && t.AccountName != "" {
		// degraded path: legacy name matching desynchronizes on rename
		for i := range s.accounts {
			if s.accounts[i].Name == t.AccountName {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		s.log.Debug().Str("account_id", t.AccountID).Str("account_name", t.AccountName).
			Msg("transaction references no known account, balance untouched")
		return nil
	}
	delta := t.Amount
	if t.Type == repository.TypeExpense {
		delta = delta.Neg()
	}
	delta = delta.Mul(decimal.NewFromInt(sign))
	s.accounts[idx].Balance = s.accounts[idx].Balance.Add(delta)
	acct := s.accounts[idx]
	return &acct
}

// accountLock returns the mutex serializing remote balance writes for one
// account, created on first use.
func (s *Store) accountLock(id string) *sync.Mutex {
	s.balanceMuMu.Lock()
	defer s.balanceMuMu.Unlock()
	if s.balanceMu == nil {
		s.balanceMu = make(map[string]*sync.Mutex)
	}
	mu, ok := s.balanceMu[id]
	if !ok {
		mu = &sync.Mutex{}
		s.balanceMu[id] = mu
	}
	return mu
}

// mirrorBalance pushes the account's balance to the remote store. It holds
// the per-account lock and reads the live local balance at send time, so
// however background writes interleave, the last one to land carries the
// newest local total. A locally deleted account is a no-op.
func (s *Store) mirrorBalance(ctx context.Context, id string) error {
	lock := s.accountLock(id)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	balance := ""
	found := false
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			balance = s.accounts[i].Balance.String()
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return nil
	}
	return s.remote.Accounts.UpdateBalance(ctx, id, balance)
}

// CreateAccount appends the account locally and inserts it remotely.
func (s *Store) CreateAccount(a repository.Account) (repository.Account, *Mutation) {
	a.ID = uuid.NewString()
	if a.Kind == "" {
		a.Kind = repository.AccountChecking
	}
	s.mu.Lock()
	s.accounts = append(s.accounts, a)
	s.mu.Unlock()
	s.notify("account", a.Name, "account added")
	return a, s.background("account.create", func(ctx context.Context) error {
		return s.remote.Accounts.Insert(ctx, s.user.ID, a)
	})
}

func (s *Store) DeleteAccount(id string) *Mutation {
	s.mu.Lock()
	for i, a := range s.accounts {
		if a.ID == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return s.background("account.delete", func(ctx context.Context) error {
		return s.remote.Accounts.Delete(ctx, id)
	})
}

// SetAccountBalance is the manual-correction path: a direct balance edit
// outside the transaction lifecycle.
func (s *Store) SetAccountBalance(id string, balance decimal.Decimal) *Mutation {
	s.mu.Lock()
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			s.accounts[i].Balance = balance
			break
		}
	}
	s.mu.Unlock()
	return s.background("account.balance", func(ctx context.Context) error {
		return s.mirrorBalance(ctx, id)
	})
}

func (s *Store) CreateCreditCard(c repository.CreditCard) (repository.CreditCard, *Mutation) {
	c.ID = uuid.NewString()
	s.mu.Lock()
	s.cards = append(s.cards, c)
	s.mu.Unlock()
	s.notify("card", c.Name, "card added")
	return c, s.background("card.create", func(ctx context.Context) error {
		return s.remote.Cards.Insert(ctx, s.user.ID, c)
	})
}

func (s *Store) DeleteCreditCard(id string) *Mutation {
	s.mu.Lock()
	for i, c := range s.cards {
		if c.ID == id {
			s.cards = append(s.cards[:i], s.cards[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return s.background("card.delete", func(ctx context.Context) error {
		return s.remote.Cards.Delete(ctx, id)
	})
}

// SetCardUsed edits the stored open-invoice amount, the source of truth for
// card utilization.
func (s *Store) SetCardUsed(id string, used decimal.Decimal) *Mutation {
	s.mu.Lock()
	for i := range s.cards {
		if s.cards[i].ID == id {
			s.cards[i].Used = used
			break
		}
	}
	s.mu.Unlock()
	return s.background("card.used", func(ctx context.Context) error {
		return s.remote.Cards.UpdateUsed(ctx, id, used.String())
	})
}

func (s *Store) CreateGoal(g repository.Goal) (repository.Goal, *Mutation) {
	g.ID = uuid.NewString()
	s.mu.Lock()
	s.goals = append(s.goals, g)
	s.mu.Unlock()
	s.notify("goal", g.Title, "goal added")
	return g, s.background("goal.create", func(ctx context.Context) error {
		return s.remote.Goals.Insert(ctx, s.user.ID, g)
	})
}

func (s *Store) DeleteGoal(id string) *Mutation {
	s.mu.Lock()
	for i, g := range s.goals {
		if g.ID == id {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return s.background("goal.delete", func(ctx context.Context) error {
		return s.remote.Goals.Delete(ctx, id)
	})
}

// SetGoalCurrent replaces a goal's accumulated amount. Deposits go through
// the service layer so the paired expense transaction is never skipped.
func (s *Store) SetGoalCurrent(id string, current decimal.Decimal) *Mutation {
	s.mu.Lock()
	for i := range s.goals {
		if s.goals[i].ID == id {
			s.goals[i].Current = current
			break
		}
	}
	s.mu.Unlock()
	return s.background("goal.current", func(ctx context.Context) error {
		return s.remote.Goals.UpdateCurrent(ctx, id, current.String())
	})
}

func (s *Store) CreateWishlistItem(w repository.WishlistItem) (repository.WishlistItem, *Mutation) {
	w.ID = uuid.NewString()
	s.mu.Lock()
	s.wishlist = append(s.wishlist, w)
	s.mu.Unlock()
	return w, s.background("wishlist.create", func(ctx context.Context) error {
		return s.remote.Wishlist.Insert(ctx, s.user.ID, w)
	})
}

func (s *Store) DeleteWishlistItem(id string) *Mutation {
	s.mu.Lock()
	for i, w := range s.wishlist {
		if w.ID == id {
			s.wishlist = append(s.wishlist[:i], s.wishlist[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return s.background("wishlist.delete", func(ctx context.Context) error {
		return s.remote.Wishlist.Delete(ctx, id)
	})
}

func (s *Store) CreateProject(p repository.Project) (repository.Project, *Mutation) {
	p.ID = uuid.NewString()
	if p.Status == "" {
		p.Status = repository.ProjectActive
	}
	s.mu.Lock()
	s.projects = append(s.projects, p)
	s.mu.Unlock()
	s.notify("project", p.Title, "project added")
	return p, s.background("project.create", func(ctx context.Context) error {
		return s.remote.Projects.Insert(ctx, s.user.ID, p)
	})
}

func (s *Store) DeleteProject(id string) *Mutation {
	s.mu.Lock()
	for i, p := range s.projects {
		if p.ID == id {
			s.projects = append(s.projects[:i], s.projects[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return s.background("project.delete", func(ctx context.Context) error {
		return s.remote.Projects.Delete(ctx, id)
	})
}

// SetProjectCurrent replaces a project's contribution total.
func (s *Store) SetProjectCurrent(id string, current decimal.Decimal) *Mutation {
	s.mu.Lock()
	for i := range s.projects {
		if s.projects[i].ID == id {
			s.projects[i].Current = current
			break
		}
	}
	s.mu.Unlock()
	return s.background("project.current", func(ctx context.Context) error {
		return s.remote.Projects.UpdateCurrent(ctx, id, current.String())
	})
}

// SetProjectStatus flips a project between active and completed.
func (s *Store) SetProjectStatus(id, status string) *Mutation {
	s.mu.Lock()
	for i := range s.projects {
		if s.projects[i].ID == id {
			s.projects[i].Status = status
			break
		}
	}
	s.mu.Unlock()
	return s.background("project.status", func(ctx context.Context) error {
		return s.remote.Projects.UpdateStatus(ctx, id, status)
	})
}

// CreateNote prepends like transactions: most recent first.
func (s *Store) CreateNote(n repository.Note) (repository.Note, *Mutation) {
	n.ID = uuid.NewString()
	if n.Date == "" {
		n.Date = time.Now().Format("2006-01-02")
	}
	s.mu.Lock()
	s.notes = append([]repository.Note{n}, s.notes...)
	s.mu.Unlock()
	s.notify("note", n.Title, "note from "+n.CreatedBy)
	return n, s.background("note.create", func(ctx context.Context) error {
		return s.remote.Notes.Insert(ctx, s.user.ID, n)
	})
}

func (s *Store) DeleteNote(id string) *Mutation {
	s.mu.Lock()
	for i, n := range s.notes {
		if n.ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return s.background("note.delete", func(ctx context.Context) error {
		return s.remote.Notes.Delete(ctx, id)
	})
}

// ReactToNote bumps the note's reaction counter by one.
func (s *Store) ReactToNote(id string) *Mutation {
	s.mu.Lock()
	reactions := -1
	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes[i].Reactions++
			reactions = s.notes[i].Reactions
			break
		}
	}
	s.mu.Unlock()
	if reactions < 0 {
		return resolved()
	}
	return s.background("note.react", func(ctx context.Context) error {
		return s.remote.Notes.UpdateReactions(ctx, id, reactions)
	})
}

func (s *Store) CreateEvent(e repository.Event) (repository.Event, *Mutation) {
	e.ID = uuid.NewString()
	if e.Kind == "" {
		e.Kind = repository.EventTask
	}
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
	return e, s.background("event.create", func(ctx context.Context) error {
		return s.remote.Events.Insert(ctx, s.user.ID, e)
	})
}

func (s *Store) DeleteEvent(id string) *Mutation {
	s.mu.Lock()
	for i, e := range s.events {
		if e.ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return s.background("event.delete", func(ctx context.Context) error {
		return s.remote.Events.Delete(ctx, id)
	})
}

// notify assembles a local notification; nothing is persisted.
func (s *Store) notify(kind, title, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append([]Notification{{
		ID:      uuid.NewString(),
		Title:   title,
		Message: message,
		Kind:    kind,
		At:      time.Now(),
	}}, s.notifications...)
	if len(s.notifications) > 50 {
		s.notifications = s.notifications[:50]
	}
}

// MarkNotificationRead flips one notification; local-only.
func (s *Store) MarkNotificationRead(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			return
		}
	}
}

// ClearNotifications drops them all; local-only.
func (s *Store) ClearNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = nil
}
