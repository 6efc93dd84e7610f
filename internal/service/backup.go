package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vinnx/duofin/internal/database/repository"
	"github.com/vinnx/duofin/internal/state"
	"github.com/vinnx/duofin/internal/storage"
)

// BackupService exports the signed-in household's data as a JSON snapshot in
// the object store.
type BackupService struct {
	State   *state.Store
	Objects storage.Store
}

type snapshot struct {
	ExportedAt   time.Time                 `json:"exported_at"`
	Accounts     []repository.Account      `json:"accounts"`
	Transactions []repository.Transaction  `json:"transactions"`
	CreditCards  []repository.CreditCard   `json:"credit_cards"`
	Goals        []repository.Goal         `json:"goals"`
	Wishlist     []repository.WishlistItem `json:"wishlist"`
	Projects     []repository.Project      `json:"projects"`
	Notes        []repository.Note         `json:"notes"`
	Events       []repository.Event        `json:"events"`
}

// Export writes the snapshot and returns its URL. The snapshot reads the
// live state, so it includes optimistic rows whose remote writes are still
// in flight.
func (s *BackupService) Export(now time.Time) (string, error) {
	snap := snapshot{
		ExportedAt:   now,
		Accounts:     s.State.Accounts(),
		Transactions: s.State.Transactions(),
		CreditCards:  s.State.CreditCards(),
		Goals:        s.State.Goals(),
		Wishlist:     s.State.Wishlist(),
		Projects:     s.State.Projects(),
		Notes:        s.State.Notes(),
		Events:       s.State.Events(),
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	name := "duofin-" + now.Format("20060102-150405") + ".json"
	url, err := s.Objects.Upload("backups", name, data)
	if err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}
	return url, nil
}
