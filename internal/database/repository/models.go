package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction type values.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction status values. Only paid transactions affect account balances.
const (
	StatusPaid    = "paid"
	StatusPending = "pending"
	StatusOverdue = "overdue"
)

// OwnerJoint marks an entity shared by both members of the couple.
const OwnerJoint = "Joint"

// Account kind values.
const (
	AccountChecking   = "checking"
	AccountInvestment = "investment"
)

// Account represents a bank account row. Balance is mutated only by the paid
// transaction lifecycle or a direct edit.
type Account struct {
	ID         string
	Name       string
	Balance    decimal.Decimal
	Owner      string
	Color      string
	LastDigits string
	TrendPct   *decimal.Decimal
	Kind       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Transaction represents a ledger row. Amount is unsigned; Type carries the
// sign. AccountID is the referential link to Account; AccountName is the
// legacy free-text fallback kept for rows created before ids existed.
type Transaction struct {
	ID          string
	Description string
	Amount      decimal.Decimal
	Type        string
	Category    string
	Date        string // calendar date, "2006-01-02"; malformed values tolerated
	AccountID   string
	AccountName string
	Status      string
	Owner       string
	Division    string // shared | individual | proportional
	Recurring   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreditCard represents a credit card row. Used is independently stored and
// is the source of truth for the open invoice; pending transaction sums are
// informational only.
type CreditCard struct {
	ID         string
	Name       string
	Limit      decimal.Decimal
	Used       decimal.Decimal
	BestDay    int
	ClosingDay int
	Brand      string
	LastDigits string
	Color      string
	Owner      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Goal represents a savings goal ("sonho"). Deposits bump Current and write a
// paid expense transaction against a chosen account.
type Goal struct {
	ID        string
	Title     string
	Target    decimal.Decimal
	Current   decimal.Decimal
	Deadline  string
	Color     string
	Emoji     string
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WishlistItem viability values form a traffic light for near-term
// affordability.
const (
	ViabilityGreen  = "green"
	ViabilityYellow = "yellow"
	ViabilityRed    = "red"
)

// WishlistItem represents a wanted purchase.
type WishlistItem struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Saved       decimal.Decimal
	ImageURL    string
	Link        string
	Priority    int // 1 (low) .. 5 (high)
	Category    string
	Viability   string
	TargetMonth string
	CreatedAt   time.Time
}

// Project status values.
const (
	ProjectActive    = "active"
	ProjectCompleted = "completed"
	ProjectOnHold    = "on-hold"
)

// Project represents a shared project with an optional funding target.
// Contributions mirror goal deposits.
type Project struct {
	ID          string
	Title       string
	Description string
	Status      string
	Target      decimal.Decimal
	Current     decimal.Decimal
	Deadline    string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Note represents a shared sticky note.
type Note struct {
	ID        string
	Title     string
	Content   string
	Date      string
	CreatedBy string
	Color     string
	Emoji     string
	Reactions int
	CreatedAt time.Time
}

// Event kind values. Finance events are never stored; they are projected from
// pending/overdue transactions at read time.
const (
	EventTask   = "task"
	EventSocial = "social"
)

// Event represents a persisted calendar entry.
type Event struct {
	ID        string
	Title     string
	Kind      string
	Owner     string
	Date      string
	Time      string
	CreatedAt time.Time
}

// Profile represents the authenticated user's profile row. PasswordHash is a
// bcrypt hash and never leaves the session layer.
type Profile struct {
	ID           string
	Name         string
	Email        string
	AvatarURL    string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FamilyMember is the single linked partner of the couple model.
type FamilyMember struct {
	ProfileID string
	Name      string
	Email     string
	AvatarURL string
}
