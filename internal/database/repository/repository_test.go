package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vinnx/duofin/internal/database"
	"github.com/vinnx/duofin/internal/database/repository"
)

func testDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))

	userID, err := database.SeedDefaults(context.Background(), db, "Ana", "ana@test.local")
	require.NoError(t, err)
	return db, userID
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	t.Parallel()

	db, userID := testDB(t)
	again, err := database.SeedDefaults(context.Background(), db, "Someone Else", "else@test.local")
	require.NoError(t, err)
	require.Equal(t, userID, again, "second run must keep the existing profile")
}

func TestAccountRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, userID := testDB(t)
	repo := repository.NewAccountRepo(db)

	trend := dec("2.5")
	acct := repository.Account{
		ID: uuid.NewString(), Name: "Nubank", Balance: dec("1234.56"),
		Owner: "Ana", Color: "purple", LastDigits: "4242",
		TrendPct: &trend, Kind: repository.AccountChecking,
	}
	require.NoError(t, repo.Insert(ctx, userID, acct))

	list, err := repo.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	got := list[0]
	require.Equal(t, "Nubank", got.Name)
	require.True(t, got.Balance.Equal(dec("1234.56")))
	require.NotNil(t, got.TrendPct)
	require.True(t, got.TrendPct.Equal(dec("2.5")))

	require.NoError(t, repo.UpdateBalance(ctx, acct.ID, "99.01"))
	list, err = repo.List(ctx, userID)
	require.NoError(t, err)
	require.True(t, list[0].Balance.Equal(dec("99.01")))

	require.NoError(t, repo.Delete(ctx, acct.ID))
	list, err = repo.List(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestTransactionFilters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, userID := testDB(t)
	repo := repository.NewTransactionRepo(db)

	mk := func(desc, typ, status, category string) {
		require.NoError(t, repo.Insert(ctx, userID, repository.Transaction{
			ID: uuid.NewString(), Description: desc, Amount: dec("10"),
			Type: typ, Status: status, Category: category, Date: "2026-03-01",
		}))
	}
	mk("rent", repository.TypeExpense, repository.StatusPending, "Housing")
	mk("market", repository.TypeExpense, repository.StatusPaid, "Food")
	mk("salary", repository.TypeIncome, repository.StatusPaid, "Salary")

	all, err := repo.List(ctx, userID, repository.TransactionFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	paid, err := repo.List(ctx, userID, repository.TransactionFilters{Status: repository.StatusPaid})
	require.NoError(t, err)
	require.Len(t, paid, 2)

	food, err := repo.List(ctx, userID, repository.TransactionFilters{Category: "Food"})
	require.NoError(t, err)
	require.Len(t, food, 1)
	require.Equal(t, "market", food[0].Description)

	search, err := repo.List(ctx, userID, repository.TransactionFilters{Search: "sal"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	require.Equal(t, "salary", search[0].Description)
}

func TestCreditCardRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, userID := testDB(t)
	repo := repository.NewCreditCardRepo(db)

	card := repository.CreditCard{
		ID: uuid.NewString(), Name: "Platinum", Limit: dec("5000"), Used: dec("1200.50"),
		BestDay: 5, ClosingDay: 28, Brand: "visa", LastDigits: "1111",
	}
	require.NoError(t, repo.Insert(ctx, userID, card))
	require.NoError(t, repo.UpdateUsed(ctx, card.ID, "1300.75"))

	list, err := repo.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.True(t, list[0].Used.Equal(dec("1300.75")))
	require.Equal(t, 28, list[0].ClosingDay)
}

func TestGoalAndProjectProgressPersistence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, userID := testDB(t)

	goals := repository.NewGoalRepo(db)
	g := repository.Goal{ID: uuid.NewString(), Title: "Trip", Target: dec("2000"), Current: dec("1500")}
	require.NoError(t, goals.Insert(ctx, userID, g))
	require.NoError(t, goals.UpdateCurrent(ctx, g.ID, "2000"))
	gl, err := goals.List(ctx, userID)
	require.NoError(t, err)
	require.True(t, gl[0].Current.Equal(dec("2000")))

	projects := repository.NewProjectRepo(db)
	p := repository.Project{ID: uuid.NewString(), Title: "Kitchen", Target: dec("10000"), Status: repository.ProjectActive}
	require.NoError(t, projects.Insert(ctx, userID, p))
	require.NoError(t, projects.UpdateCurrent(ctx, p.ID, "500"))
	require.NoError(t, projects.UpdateStatus(ctx, p.ID, repository.ProjectOnHold))
	pl, err := projects.List(ctx, userID)
	require.NoError(t, err)
	require.True(t, pl[0].Current.Equal(dec("500")))
	require.Equal(t, repository.ProjectOnHold, pl[0].Status)
}

func TestNotesWishlistEvents(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, userID := testDB(t)

	notes := repository.NewNoteRepo(db)
	n := repository.Note{ID: uuid.NewString(), Title: "hi", Content: "don't forget", CreatedBy: "Ana", Date: "2026-03-01"}
	require.NoError(t, notes.Insert(ctx, userID, n))
	require.NoError(t, notes.UpdateReactions(ctx, n.ID, 3))
	nl, err := notes.List(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 3, nl[0].Reactions)

	wishlist := repository.NewWishlistRepo(db)
	w := repository.WishlistItem{ID: uuid.NewString(), Name: "Camera", Price: dec("700"), Priority: 5, Viability: repository.ViabilityGreen}
	require.NoError(t, wishlist.Insert(ctx, userID, w))
	wl, err := wishlist.List(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 5, wl[0].Priority)

	events := repository.NewEventRepo(db)
	e := repository.Event{ID: uuid.NewString(), Title: "dinner", Kind: repository.EventSocial, Date: "2026-03-08", Time: "20:00"}
	require.NoError(t, events.Insert(ctx, userID, e))
	el, err := events.List(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "20:00", el[0].Time)
	require.NoError(t, events.Delete(ctx, e.ID))
}

func TestProfileFamilyMember(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, userID := testDB(t)
	profiles := repository.NewProfileRepo(db)

	require.NoError(t, profiles.SetFamilyMember(ctx, repository.FamilyMember{
		ProfileID: userID, Name: "Bruno", Email: "bruno@test.local",
	}))
	partner, err := profiles.FamilyMember(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, partner)
	require.Equal(t, "Bruno", partner.Name)

	// setting again replaces, there is only one partner
	require.NoError(t, profiles.SetFamilyMember(ctx, repository.FamilyMember{
		ProfileID: userID, Name: "Bruno L.",
	}))
	partner, err = profiles.FamilyMember(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "Bruno L.", partner.Name)

	require.NoError(t, profiles.RemoveFamilyMember(ctx, userID))
	partner, err = profiles.FamilyMember(ctx, userID)
	require.NoError(t, err)
	require.Nil(t, partner)
}

func TestScanToleratesGarbageAmounts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, userID := testDB(t)
	_, err := db.ExecContext(ctx, `
	INSERT INTO accounts(id, user_id, name, balance) VALUES(?, ?, 'broken', 'NaN-ish')`,
		uuid.NewString(), userID)
	require.NoError(t, err)

	list, err := repository.NewAccountRepo(db).List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.True(t, list[0].Balance.IsZero(), "unparseable amounts degrade to zero")
}

func TestNowIsUTCTruncated(t *testing.T) {
	t.Parallel()

	now := database.Now()
	require.Equal(t, time.UTC, now.Location())
	require.Zero(t, now.Nanosecond())
}
