package state

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vinnx/duofin/internal/database/repository"
	"github.com/vinnx/duofin/internal/session"
)

// fakeRemote satisfies every collection contract in memory and can be made
// to fail all writes.
type fakeRemote struct {
	mu       sync.Mutex
	failWith error

	accounts []repository.Account
	txs      []repository.Transaction
	cards    []repository.CreditCard
	goals    []repository.Goal
	wishlist []repository.WishlistItem
	projects []repository.Project
	notes    []repository.Note
	events   []repository.Event

	balanceWrites  map[string]string
	statusWrites   map[string]string
	projectStatus  map[string]string
	reactionWrites map[string]int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		balanceWrites:  map[string]string{},
		statusWrites:   map[string]string{},
		projectStatus:  map[string]string{},
		reactionWrites: map[string]int{},
	}
}

func (f *fakeRemote) err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failWith
}

func (f *fakeRemote) Insert(ctx context.Context, userID string, v any) error {
	if err := f.err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	switch x := v.(type) {
	case repository.Account:
		f.accounts = append(f.accounts, x)
	case repository.Transaction:
		f.txs = append(f.txs, x)
	case repository.CreditCard:
		f.cards = append(f.cards, x)
	case repository.Goal:
		f.goals = append(f.goals, x)
	case repository.WishlistItem:
		f.wishlist = append(f.wishlist, x)
	case repository.Project:
		f.projects = append(f.projects, x)
	case repository.Note:
		f.notes = append(f.notes, x)
	case repository.Event:
		f.events = append(f.events, x)
	}
	return nil
}

// per-collection adapters over the shared fake

type fakeAccounts struct{ *fakeRemote }

func (f fakeAccounts) Insert(ctx context.Context, userID string, a repository.Account) error {
	return f.fakeRemote.Insert(ctx, userID, a)
}
func (f fakeAccounts) UpdateBalance(ctx context.Context, id, balance string) error {
	if err := f.err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balanceWrites[id] = balance
	return nil
}
func (f fakeAccounts) Delete(ctx context.Context, id string) error { return f.err() }
func (f fakeAccounts) List(ctx context.Context, userID string) ([]repository.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]repository.Account(nil), f.accounts...), nil
}

type fakeTxs struct{ *fakeRemote }

func (f fakeTxs) Insert(ctx context.Context, userID string, t repository.Transaction) error {
	return f.fakeRemote.Insert(ctx, userID, t)
}
func (f fakeTxs) UpdateStatus(ctx context.Context, id, status string) error {
	if err := f.err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusWrites[id] = status
	return nil
}
func (f fakeTxs) Delete(ctx context.Context, id string) error { return f.err() }
func (f fakeTxs) List(ctx context.Context, userID string, _ repository.TransactionFilters) ([]repository.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]repository.Transaction(nil), f.txs...), nil
}

type fakeCards struct{ *fakeRemote }

func (f fakeCards) Insert(ctx context.Context, userID string, c repository.CreditCard) error {
	return f.fakeRemote.Insert(ctx, userID, c)
}
func (f fakeCards) UpdateUsed(ctx context.Context, id, used string) error { return f.err() }
func (f fakeCards) Delete(ctx context.Context, id string) error           { return f.err() }
func (f fakeCards) List(ctx context.Context, userID string) ([]repository.CreditCard, error) {
	return nil, nil
}

type fakeGoals struct{ *fakeRemote }

func (f fakeGoals) Insert(ctx context.Context, userID string, g repository.Goal) error {
	return f.fakeRemote.Insert(ctx, userID, g)
}
func (f fakeGoals) UpdateCurrent(ctx context.Context, id, current string) error { return f.err() }
func (f fakeGoals) Delete(ctx context.Context, id string) error                 { return f.err() }
func (f fakeGoals) List(ctx context.Context, userID string) ([]repository.Goal, error) {
	return nil, nil
}

type fakeWishlist struct{ *fakeRemote }

func (f fakeWishlist) Insert(ctx context.Context, userID string, w repository.WishlistItem) error {
	return f.fakeRemote.Insert(ctx, userID, w)
}
func (f fakeWishlist) Delete(ctx context.Context, id string) error { return f.err() }
func (f fakeWishlist) List(ctx context.Context, userID string) ([]repository.WishlistItem, error) {
	return nil, nil
}

type fakeProjects struct{ *fakeRemote }

func (f fakeProjects) Insert(ctx context.Context, userID string, p repository.Project) error {
	return f.fakeRemote.Insert(ctx, userID, p)
}
func (f fakeProjects) UpdateCurrent(ctx context.Context, id, current string) error { return f.err() }
func (f fakeProjects) UpdateStatus(ctx context.Context, id, status string) error {
	if err := f.err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projectStatus[id] = status
	return nil
}
func (f fakeProjects) Delete(ctx context.Context, id string) error { return f.err() }
func (f fakeProjects) List(ctx context.Context, userID string) ([]repository.Project, error) {
	return nil, nil
}

type fakeNotes struct{ *fakeRemote }

func (f fakeNotes) Insert(ctx context.Context, userID string, n repository.Note) error {
	return f.fakeRemote.Insert(ctx, userID, n)
}
func (f fakeNotes) UpdateReactions(ctx context.Context, id string, reactions int) error {
	if err := f.err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactionWrites[id] = reactions
	return nil
}
func (f fakeNotes) Delete(ctx context.Context, id string) error { return f.err() }
func (f fakeNotes) List(ctx context.Context, userID string) ([]repository.Note, error) {
	return nil, nil
}

type fakeEvents struct{ *fakeRemote }

func (f fakeEvents) Insert(ctx context.Context, userID string, e repository.Event) error {
	return f.fakeRemote.Insert(ctx, userID, e)
}
func (f fakeEvents) Delete(ctx context.Context, id string) error { return f.err() }
func (f fakeEvents) List(ctx context.Context, userID string) ([]repository.Event, error) {
	return nil, nil
}

type fakeSession struct{ signedOut bool }

func (f *fakeSession) CurrentUser(ctx context.Context) (*session.User, error) {
	return &session.User{ID: "u1"}, nil
}
func (f *fakeSession) SignInWithPassword(ctx context.Context, email, password string) (*session.User, error) {
	return &session.User{ID: "u1", Email: email}, nil
}
func (f *fakeSession) SignOut(ctx context.Context) error {
	f.signedOut = true
	return nil
}
func (f *fakeSession) UpdateCredentials(ctx context.Context, u session.CredentialUpdate) error {
	return nil
}

func newTestStore(t *testing.T, remote *fakeRemote) *Store {
	t.Helper()
	stores := Stores{
		Accounts:     fakeAccounts{remote},
		Transactions: fakeTxs{remote},
		Cards:        fakeCards{remote},
		Goals:        fakeGoals{remote},
		Wishlist:     fakeWishlist{remote},
		Projects:     fakeProjects{remote},
		Notes:        fakeNotes{remote},
		Events:       fakeEvents{remote},
	}
	return New(stores, &fakeSession{}, session.User{ID: "u1", Email: "u1@test"}, zerolog.Nop(), nil)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestPaidTransactionMovesAccountBalance(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote()
	st := newTestStore(t, remote)
	acct, mut := st.CreateAccount(repository.Account{Name: "Nubank", Balance: dec("1000")})
	require.NoError(t, mut.Wait(context.Background()))

	_, mut = st.CreateTransaction(repository.Transaction{
		Description: "groceries", Amount: dec("150"),
		Type: repository.TypeExpense, Status: repository.StatusPaid,
		AccountID: acct.ID,
	})

	// balance moved before the remote write resolved
	require.True(t, st.Accounts()[0].Balance.Equal(dec("850")))
	require.NoError(t, mut.Wait(context.Background()))
	require.Equal(t, MutationConfirmed, mut.Status())

	// remote got the mirrored balance
	remote.mu.Lock()
	defer remote.mu.Unlock()
	require.Equal(t, "850", remote.balanceWrites[acct.ID])
}

func TestIncomeAddsAndDeleteReverses(t *testing.T) {
	t.Parallel()

	st := newTestStore(t, newFakeRemote())
	acct, _ := st.CreateAccount(repository.Account{Name: "Itau", Balance: dec("500")})

	tx, _ := st.CreateTransaction(repository.Transaction{
		Description: "salary", Amount: dec("3000"),
		Type: repository.TypeIncome, Status: repository.StatusPaid,
		AccountID: acct.ID,
	})
	require.True(t, st.Accounts()[0].Balance.Equal(dec("3500")))

	mut := st.DeleteTransaction(tx.ID)
	require.NoError(t, mut.Wait(context.Background()))
	require.True(t, st.Accounts()[0].Balance.Equal(dec("500")))
	require.Empty(t, st.Transactions())
}

func TestPendingTransactionLeavesBalanceAlone(t *testing.T) {
	t.Parallel()

	st := newTestStore(t, newFakeRemote())
	acct, _ := st.CreateAccount(repository.Account{Name: "Itau", Balance: dec("500")})

	st.CreateTransaction(repository.Transaction{
		Description: "rent", Amount: dec("1000"),
		Type: repository.TypeExpense, Status: repository.StatusPending,
		AccountID: acct.ID,
	})
	require.True(t, st.Accounts()[0].Balance.Equal(dec("500")))
}

func TestUnknownAccountIsANoOp(t *testing.T) {
	t.Parallel()

	st := newTestStore(t, newFakeRemote())
	st.CreateAccount(repository.Account{Name: "Itau", Balance: dec("500")})

	_, mut := st.CreateTransaction(repository.Transaction{
		Description: "mystery", Amount: dec("100"),
		Type: repository.TypeExpense, Status: repository.StatusPaid,
		AccountID: "nope",
	})
	require.NoError(t, mut.Wait(context.Background()))
	require.True(t, st.Accounts()[0].Balance.Equal(dec("500")))
	require.Len(t, st.Transactions(), 1, "the transaction itself still lands")
}

func TestAccountNameFallback(t *testing.T) {
	t.Parallel()

	st := newTestStore(t, newFakeRemote())
	st.CreateAccount(repository.Account{Name: "Bradesco", Balance: dec("200")})

	// no id at all: legacy rows match by name
	st.CreateTransaction(repository.Transaction{
		Description: "fee", Amount: dec("50"),
		Type: repository.TypeExpense, Status: repository.StatusPaid,
		AccountName: "Bradesco",
	})
	require.True(t, st.Accounts()[0].Balance.Equal(dec("150")))

	// an id that resolves nowhere must NOT fall through to the name
	st.CreateTransaction(repository.Transaction{
		Description: "fee2", Amount: dec("50"),
		Type: repository.TypeExpense, Status: repository.StatusPaid,
		AccountID: "stale", AccountName: "Bradesco",
	})
	require.True(t, st.Accounts()[0].Balance.Equal(dec("150")))
}

func TestScenarioMonthMath(t *testing.T) {
	t.Parallel()

	st := newTestStore(t, newFakeRemote())
	acct, _ := st.CreateAccount(repository.Account{Name: "Joint", Balance: dec("0")})

	add := func(desc, amount, typ, status string) {
		st.CreateTransaction(repository.Transaction{
			Description: desc, Amount: dec(amount), Type: typ, Status: status,
			AccountID: acct.ID, Date: time.Now().Format("2006-01-02"),
		})
	}
	add("salary", "1500", repository.TypeIncome, repository.StatusPaid)
	add("market", "300", repository.TypeExpense, repository.StatusPaid)
	add("rent", "1000", repository.TypeExpense, repository.StatusPending)

	require.True(t, st.Accounts()[0].Balance.Equal(dec("1200")),
		"only paid rows move the balance: 1500 - 300")
}

func TestRemoteFailureKeepsLocalState(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote()
	remote.failWith = errors.New("supabase is down")
	st := newTestStore(t, remote)

	acct, mut := st.CreateAccount(repository.Account{Name: "Offline", Balance: dec("10")})
	require.Error(t, mut.Wait(context.Background()))
	require.Equal(t, MutationFailed, mut.Status())
	require.ErrorContains(t, mut.Err(), "supabase is down")

	// local copy survives the failed write
	require.Len(t, st.Accounts(), 1)
	require.Equal(t, acct.ID, st.Accounts()[0].ID)
}

func TestDeleteUnknownTransactionResolvesImmediately(t *testing.T) {
	t.Parallel()

	st := newTestStore(t, newFakeRemote())
	mut := st.DeleteTransaction("ghost")
	require.Equal(t, MutationConfirmed, mut.Status())
	require.NoError(t, mut.Wait(context.Background()))
}

func TestNotifications(t *testing.T) {
	t.Parallel()

	st := newTestStore(t, newFakeRemote())
	st.CreateGoal(repository.Goal{Title: "Trip", Target: dec("2000")})
	st.CreateNote(repository.Note{Title: "hi", CreatedBy: "Ana"})

	require.Equal(t, 2, st.UnreadNotifications())
	notes := st.Notifications()
	require.Equal(t, "hi", notes[0].Title, "newest first")

	st.MarkNotificationRead(notes[0].ID)
	require.Equal(t, 1, st.UnreadNotifications())

	st.ClearNotifications()
	require.Empty(t, st.Notifications())
}

func TestLogoutClearsEverything(t *testing.T) {
	t.Parallel()

	cleared := false
	provider := &fakeSession{}
	remote := newFakeRemote()
	st := New(Stores{
		Accounts:     fakeAccounts{remote},
		Transactions: fakeTxs{remote},
		Cards:        fakeCards{remote},
		Goals:        fakeGoals{remote},
		Wishlist:     fakeWishlist{remote},
		Projects:     fakeProjects{remote},
		Notes:        fakeNotes{remote},
		Events:       fakeEvents{remote},
	}, provider, session.User{ID: "u1"}, zerolog.Nop(), func() error {
		cleared = true
		return nil
	})

	st.CreateAccount(repository.Account{Name: "A", Balance: dec("1")})
	st.CreateNote(repository.Note{Title: "n"})

	require.NoError(t, st.Logout(context.Background()))
	require.Empty(t, st.Accounts())
	require.Empty(t, st.Notes())
	require.Empty(t, st.Notifications())
	require.True(t, cleared)
	require.True(t, provider.signedOut)
}

func TestLoadReplacesCollections(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote()
	remote.accounts = []repository.Account{{ID: "a1", Name: "Seeded", Balance: dec("42")}}
	st := newTestStore(t, remote)

	require.NoError(t, st.Load(context.Background()))
	require.Len(t, st.Accounts(), 1)
	require.Equal(t, "Seeded", st.Accounts()[0].Name)
}

func TestMarkPendingBillPaid(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote()
	st := newTestStore(t, remote)
	acct, _ := st.CreateAccount(repository.Account{Name: "Nubank", Balance: dec("1000")})

	tx, _ := st.CreateTransaction(repository.Transaction{
		Description: "electricity", Amount: dec("200"),
		Type: repository.TypeExpense, Status: repository.StatusPending,
		AccountID: acct.ID,
	})
	require.True(t, st.Accounts()[0].Balance.Equal(dec("1000")))

	mut := st.SetTransactionStatus(tx.ID, repository.StatusPaid)
	require.True(t, st.Accounts()[0].Balance.Equal(dec("800")))
	require.Equal(t, repository.StatusPaid, st.Transactions()[0].Status)
	require.NoError(t, mut.Wait(context.Background()))

	remote.mu.Lock()
	require.Equal(t, repository.StatusPaid, remote.statusWrites[tx.ID])
	require.Equal(t, "800", remote.balanceWrites[acct.ID])
	remote.mu.Unlock()

	// moving back out of paid reverses the delta
	mut = st.SetTransactionStatus(tx.ID, repository.StatusPending)
	require.True(t, st.Accounts()[0].Balance.Equal(dec("1000")))
	require.NoError(t, mut.Wait(context.Background()))

	// same status and unknown ids resolve without remote traffic
	require.Equal(t, MutationConfirmed, st.SetTransactionStatus(tx.ID, repository.StatusPending).Status())
	require.Equal(t, MutationConfirmed, st.SetTransactionStatus("nope", repository.StatusPaid).Status())
}

func TestSetProjectStatus(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote()
	st := newTestStore(t, remote)
	p, _ := st.CreateProject(repository.Project{Title: "Kitchen"})
	require.Equal(t, repository.ProjectActive, st.Projects()[0].Status)

	mut := st.SetProjectStatus(p.ID, repository.ProjectCompleted)
	require.Equal(t, repository.ProjectCompleted, st.Projects()[0].Status)
	require.NoError(t, mut.Wait(context.Background()))

	remote.mu.Lock()
	defer remote.mu.Unlock()
	require.Equal(t, repository.ProjectCompleted, remote.projectStatus[p.ID])
}

func TestReactToNote(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote()
	st := newTestStore(t, remote)
	n, _ := st.CreateNote(repository.Note{Title: "groceries list"})

	mut := st.ReactToNote(n.ID)
	require.NoError(t, mut.Wait(context.Background()))
	mut = st.ReactToNote(n.ID)
	require.NoError(t, mut.Wait(context.Background()))

	require.Equal(t, 2, st.Notes()[0].Reactions)
	remote.mu.Lock()
	require.Equal(t, 2, remote.reactionWrites[n.ID])
	remote.mu.Unlock()

	require.Equal(t, MutationConfirmed, st.ReactToNote("nope").Status())
}

// gatedAccounts holds its first balance write open so a later write can try
// to land before it.
type gatedAccounts struct {
	fakeAccounts
	gateMu  sync.Mutex
	gated   bool
	entered chan struct{}
	release chan struct{}
	writes  []string
}

func (g *gatedAccounts) UpdateBalance(ctx context.Context, id, balance string) error {
	g.gateMu.Lock()
	first := !g.gated
	g.gated = true
	g.gateMu.Unlock()
	if first {
		close(g.entered)
		<-g.release
	}
	g.gateMu.Lock()
	g.writes = append(g.writes, balance)
	g.gateMu.Unlock()
	return nil
}

func TestHeldBalanceWriteCannotClobberNewerTotal(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote()
	gate := &gatedAccounts{
		fakeAccounts: fakeAccounts{remote},
		entered:      make(chan struct{}),
		release:      make(chan struct{}),
	}
	stores := Stores{
		Accounts:     gate,
		Transactions: fakeTxs{remote},
		Cards:        fakeCards{remote},
		Goals:        fakeGoals{remote},
		Wishlist:     fakeWishlist{remote},
		Projects:     fakeProjects{remote},
		Notes:        fakeNotes{remote},
		Events:       fakeEvents{remote},
	}
	st := New(stores, &fakeSession{}, session.User{ID: "u1", Email: "u1@test"}, zerolog.Nop(), nil)

	acct, _ := st.CreateAccount(repository.Account{Name: "Joint", Balance: dec("0")})

	_, first := st.CreateTransaction(repository.Transaction{
		Description: "salary", Amount: dec("100"),
		Type: repository.TypeIncome, Status: repository.StatusPaid,
		AccountID: acct.ID,
	})
	<-gate.entered // first mirror is mid-write

	_, second := st.CreateTransaction(repository.Transaction{
		Description: "bonus", Amount: dec("50"),
		Type: repository.TypeIncome, Status: repository.StatusPaid,
		AccountID: acct.ID,
	})
	close(gate.release)

	require.NoError(t, first.Wait(context.Background()))
	require.NoError(t, second.Wait(context.Background()))

	// whichever order the writes landed, the last one carries the newest
	// local total
	gate.gateMu.Lock()
	defer gate.gateMu.Unlock()
	require.NotEmpty(t, gate.writes)
	require.Equal(t, "150", gate.writes[len(gate.writes)-1])
}
