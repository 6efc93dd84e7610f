// Package prefs is the local preference cache: best-effort JSON under the
// user config dir, read at startup to pre-populate state before the store
// answers, and never a source of truth.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const prefsFile = "prefs.json"

// Labeled pairs a stored value with its display label.
type Labeled struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Settings are the user-editable taxonomy lists. They shape dropdowns, not
// invariants.
type Settings struct {
	TransactionCategories []string  `json:"transaction_categories"`
	TransactionStatuses   []Labeled `json:"transaction_statuses"`
	TransactionDivisions  []Labeled `json:"transaction_divisions"`
	CardBrands            []string  `json:"card_brands"`
	InvestmentTypes       []string  `json:"investment_types"`
	AccountColors         []Labeled `json:"account_colors"`
}

// ProfileCache mirrors the remote profile row minus credentials.
type ProfileCache struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// Cache is everything persisted locally between sessions.
type Cache struct {
	Authenticated bool          `json:"authenticated"`
	Profile       *ProfileCache `json:"profile,omitempty"`
	Partner       *ProfileCache `json:"partner,omitempty"`
	Theme         string        `json:"theme"`
	VisibleMenus  []string      `json:"visible_menus"`
	Settings      Settings      `json:"settings"`
}

// DefaultMenus lists every screen key; users hide what they don't use.
func DefaultMenus() []string {
	return []string{
		"dashboard", "ledger", "cards", "investments", "accounts",
		"agenda", "goals", "wishlist", "projects", "notes", "assistant",
	}
}

// DefaultSettings seeds the taxonomies for a fresh install.
func DefaultSettings() Settings {
	return Settings{
		TransactionCategories: []string{
			"General", "Food", "Housing", "Leisure", "Salary", "Goals", "Projects", "Health", "Education",
		},
		TransactionStatuses: []Labeled{
			{Value: "paid", Label: "Paid"},
			{Value: "pending", Label: "Pending / Scheduled"},
			{Value: "overdue", Label: "Overdue"},
		},
		TransactionDivisions: []Labeled{
			{Value: "shared", Label: "Shared (50/50)"},
			{Value: "individual", Label: "Individual"},
			{Value: "proportional", Label: "Proportional"},
		},
		CardBrands:      []string{"visa", "mastercard", "amex", "elo"},
		InvestmentTypes: []string{"Safety", "Growth", "Retirement", "Aggressive"},
		AccountColors: []Labeled{
			{Value: "purple", Label: "Premium Purple"},
			{Value: "orange", Label: "Vibrant Orange"},
			{Value: "black", Label: "Deep Black / Gold"},
			{Value: "blue", Label: "Blue Horizon"},
			{Value: "emerald", Label: "Finance Green"},
			{Value: "slate", Label: "Metallic Gray"},
		},
	}
}

// Default returns the cache a fresh install starts from.
func Default() Cache {
	return Cache{
		Theme:        "dark",
		VisibleMenus: DefaultMenus(),
		Settings:     DefaultSettings(),
	}
}

func path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "duofin")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, prefsFile), nil
}

// Load reads the cache, falling back to defaults when the file is missing
// or unreadable. Prefs failures never block startup.
func Load() (Cache, error) {
	p, err := path()
	if err != nil {
		return Default(), err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Default(), err
	}
	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return Default(), err
	}
	if len(c.VisibleMenus) == 0 {
		c.VisibleMenus = DefaultMenus()
	}
	if len(c.Settings.TransactionCategories) == 0 {
		c.Settings = DefaultSettings()
	}
	if c.Theme == "" {
		c.Theme = "dark"
	}
	return c, nil
}

// Save writes atomically via rename.
func Save(c Cache) error {
	p, err := path()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Clear removes the cache file; used on logout.
func Clear() error {
	p, err := path()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
