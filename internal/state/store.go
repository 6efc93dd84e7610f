// Package state holds the shared application state every view reads from.
// Mutations apply locally first, synchronously, so a render can never see a
// transaction without its balance effect; the remote write then runs in the
// background and is never allowed to block or roll back the local view.
package state

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vinnx/duofin/internal/database/repository"
	"github.com/vinnx/duofin/internal/session"
)

// Remote store contracts, one per collection. The sqlite repositories
// satisfy them; a hosted table API would too.
type (
	AccountStore interface {
		Insert(ctx context.Context, userID string, a repository.Account) error
		UpdateBalance(ctx context.Context, id, balance string) error
		Delete(ctx context.Context, id string) error
		List(ctx context.Context, userID string) ([]repository.Account, error)
	}
	TransactionStore interface {
		Insert(ctx context.Context, userID string, t repository.Transaction) error
		UpdateStatus(ctx context.Context, id, status string) error
		Delete(ctx context.Context, id string) error
		List(ctx context.Context, userID string, f repository.TransactionFilters) ([]repository.Transaction, error)
	}
	CardStore interface {
		Insert(ctx context.Context, userID string, c repository.CreditCard) error
		UpdateUsed(ctx context.Context, id, used string) error
		Delete(ctx context.Context, id string) error
		List(ctx context.Context, userID string) ([]repository.CreditCard, error)
	}
	GoalStore interface {
		Insert(ctx context.Context, userID string, g repository.Goal) error
		UpdateCurrent(ctx context.Context, id, current string) error
		Delete(ctx context.Context, id string) error
		List(ctx context.Context, userID string) ([]repository.Goal, error)
	}
	WishlistStore interface {
		Insert(ctx context.Context, userID string, w repository.WishlistItem) error
		Delete(ctx context.Context, id string) error
		List(ctx context.Context, userID string) ([]repository.WishlistItem, error)
	}
	ProjectStore interface {
		Insert(ctx context.Context, userID string, p repository.Project) error
		UpdateCurrent(ctx context.Context, id, current string) error
		UpdateStatus(ctx context.Context, id, status string) error
		Delete(ctx context.Context, id string) error
		List(ctx context.Context, userID string) ([]repository.Project, error)
	}
	NoteStore interface {
		Insert(ctx context.Context, userID string, n repository.Note) error
		UpdateReactions(ctx context.Context, id string, reactions int) error
		Delete(ctx context.Context, id string) error
		List(ctx context.Context, userID string) ([]repository.Note, error)
	}
	EventStore interface {
		Insert(ctx context.Context, userID string, e repository.Event) error
		Delete(ctx context.Context, id string) error
		List(ctx context.Context, userID string) ([]repository.Event, error)
	}
)

// Stores bundles the per-entity remote contracts.
type Stores struct {
	Accounts     AccountStore
	Transactions TransactionStore
	Cards        CardStore
	Goals        GoalStore
	Wishlist     WishlistStore
	Projects     ProjectStore
	Notes        NoteStore
	Events       EventStore
}

// Notification is assembled locally and never persisted.
type Notification struct {
	ID      string
	Title   string
	Message string
	Kind    string
	At      time.Time
	Read    bool
}

// Store is the single shared mutable container. All reads return copies.
type Store struct {
	mu      sync.Mutex
	log     zerolog.Logger
	remote  Stores
	session session.Provider
	user    session.User

	accounts      []repository.Account
	transactions  []repository.Transaction
	cards         []repository.CreditCard
	goals         []repository.Goal
	wishlist      []repository.WishlistItem
	projects      []repository.Project
	notes         []repository.Note
	events        []repository.Event
	notifications []Notification

	profile     repository.Profile
	partner     *repository.FamilyMember
	clearPrefs  func() error
	lastLoad    time.Time

	// balanceMu serializes remote balance writes per account so background
	// goroutines cannot land an older snapshot after a newer one
	balanceMuMu sync.Mutex
	balanceMu   map[string]*sync.Mutex
}

// New builds a store for an authenticated user. clearPrefs wipes the local
// preference cache on logout and may be nil.
func New(remote Stores, provider session.Provider, user session.User, log zerolog.Logger, clearPrefs func() error) *Store {
	return &Store{
		log:        log,
		remote:     remote,
		session:    provider,
		user:       user,
		clearPrefs: clearPrefs,
	}
}

// User returns the session identity the store was built for.
func (s *Store) User() session.User { return s.user }

// Load replaces every collection with the remote truth. Called once after
// sign-in; afterward the optimistic local copies are authoritative for the
// session.
func (s *Store) Load(ctx context.Context) error {
	accounts, err := s.remote.Accounts.List(ctx, s.user.ID)
	if err != nil {
		return err
	}
	txs, err := s.remote.Transactions.List(ctx, s.user.ID, repository.TransactionFilters{})
	if err != nil {
		return err
	}
	cards, err := s.remote.Cards.List(ctx, s.user.ID)
	if err != nil {
		return err
	}
	goals, err := s.remote.Goals.List(ctx, s.user.ID)
	if err != nil {
		return err
	}
	wishlist, err := s.remote.Wishlist.List(ctx, s.user.ID)
	if err != nil {
		return err
	}
	projects, err := s.remote.Projects.List(ctx, s.user.ID)
	if err != nil {
		return err
	}
	notes, err := s.remote.Notes.List(ctx, s.user.ID)
	if err != nil {
		return err
	}
	events, err := s.remote.Events.List(ctx, s.user.ID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.accounts = accounts
	s.transactions = txs
	s.cards = cards
	s.goals = goals
	s.wishlist = wishlist
	s.projects = projects
	s.notes = notes
	s.events = events
	s.lastLoad = time.Now()
	s.mu.Unlock()
	return nil
}

// SetProfile installs the user profile and optional partner, typically from
// the prefs cache before Load and from the remote row after.
func (s *Store) SetProfile(p repository.Profile, partner *repository.FamilyMember) {
	s.mu.Lock()
	s.profile = p
	s.partner = partner
	s.mu.Unlock()
}

// Profile returns the current profile and linked partner.
func (s *Store) Profile() (repository.Profile, *repository.FamilyMember) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile, s.partner
}

// PartnerName returns the linked partner's name, or "".
func (s *Store) PartnerName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.partner == nil {
		return ""
	}
	return s.partner.Name
}

func (s *Store) Accounts() []repository.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]repository.Account(nil), s.accounts...)
}

func (s *Store) Transactions() []repository.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]repository.Transaction(nil), s.transactions...)
}

func (s *Store) CreditCards() []repository.CreditCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]repository.CreditCard(nil), s.cards...)
}

func (s *Store) Goals() []repository.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]repository.Goal(nil), s.goals...)
}

func (s *Store) Wishlist() []repository.WishlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]repository.WishlistItem(nil), s.wishlist...)
}

func (s *Store) Projects() []repository.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]repository.Project(nil), s.projects...)
}

func (s *Store) Notes() []repository.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]repository.Note(nil), s.notes...)
}

func (s *Store) Events() []repository.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]repository.Event(nil), s.events...)
}

func (s *Store) Notifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Notification(nil), s.notifications...)
}

// UnreadNotifications counts notifications not yet marked read.
func (s *Store) UnreadNotifications() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, note := range s.notifications {
		if !note.Read {
			n++
		}
	}
	return n
}

// Logout clears the session-scoped collections and the preference cache,
// then signs out of the identity provider.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.accounts = nil
	s.transactions = nil
	s.cards = nil
	s.goals = nil
	s.wishlist = nil
	s.projects = nil
	s.notes = nil
	s.events = nil
	s.notifications = nil
	s.mu.Unlock()

	if s.clearPrefs != nil {
		if err := s.clearPrefs(); err != nil {
			s.log.Warn().Err(err).Msg("clear preference cache")
		}
	}
	return s.session.SignOut(ctx)
}
