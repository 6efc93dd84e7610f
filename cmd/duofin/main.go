package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/vinnx/duofin/internal/assistant"
	"github.com/vinnx/duofin/internal/config"
	"github.com/vinnx/duofin/internal/database"
	"github.com/vinnx/duofin/internal/database/repository"
	"github.com/vinnx/duofin/internal/prefs"
	"github.com/vinnx/duofin/internal/secrets"
	"github.com/vinnx/duofin/internal/service"
	"github.com/vinnx/duofin/internal/session"
	"github.com/vinnx/duofin/internal/state"
	"github.com/vinnx/duofin/internal/storage"
	"github.com/vinnx/duofin/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	dataDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatalf("mkdir data dir: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.Ping(ctx, db); err != nil {
		log.Fatalf("database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	if _, err := database.SeedDefaults(ctx, db, cfg.Profile.Name, cfg.Profile.Email); err != nil {
		log.Fatalf("seed defaults: %v", err)
	}

	logger := openLogger(dataDir)

	profileRepo := repository.NewProfileRepo(db)
	provider := session.NewLocal(profileRepo)

	user, err := signIn(ctx, provider, cfg.Profile.Email)
	if err != nil {
		log.Fatalf("sign in: %v", err)
	}

	remote := state.Stores{
		Accounts:     repository.NewAccountRepo(db),
		Transactions: repository.NewTransactionRepo(db),
		Cards:        repository.NewCreditCardRepo(db),
		Goals:        repository.NewGoalRepo(db),
		Wishlist:     repository.NewWishlistRepo(db),
		Projects:     repository.NewProjectRepo(db),
		Notes:        repository.NewNoteRepo(db),
		Events:       repository.NewEventRepo(db),
	}

	st := state.New(remote, provider, *user, logger, prefs.Clear)
	if err := st.Load(ctx); err != nil {
		log.Fatalf("load state: %v", err)
	}

	profile, err := profileRepo.Get(ctx, user.ID)
	if err != nil || profile == nil {
		log.Fatalf("load profile: %v", err)
	}
	partner, err := profileRepo.FamilyMember(ctx, user.ID)
	if err != nil {
		logger.Warn().Err(err).Msg("load partner")
	}
	st.SetProfile(*profile, partner)

	pc, err := prefs.Load()
	if err != nil {
		logger.Warn().Err(err).Msg("load prefs")
	}
	pc.Authenticated = true
	pc.Profile = &prefs.ProfileCache{Name: profile.Name, Email: profile.Email, AvatarURL: profile.AvatarURL}
	if partner != nil {
		pc.Partner = &prefs.ProfileCache{Name: partner.Name, Email: partner.Email, AvatarURL: partner.AvatarURL}
	}
	if err := prefs.Save(pc); err != nil {
		logger.Warn().Err(err).Msg("save prefs")
	}

	objects, err := storage.NewFileStore(filepath.Join(dataDir, "objects"))
	if err != nil {
		log.Fatalf("object store: %v", err)
	}

	services := tui.Services{
		Contribution: &service.ContributionService{State: st},
		Maintenance:  &service.MaintenanceService{DB: db},
		Backup:       &service.BackupService{State: st, Objects: objects},
		Profile:      &service.ProfileService{Profiles: profileRepo, Objects: objects, State: st},
	}

	responder := buildResponder(cfg, logger)

	loc, err := time.LoadLocation(cfg.UI.Timezone)
	if err != nil {
		logger.Warn().Err(err).Msg("using local timezone")
		loc = time.Local
	}

	p := tea.NewProgram(tui.New(ctx, cfg, st, services, responder, pc, loc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

// signIn prompts for credentials. First sign-in for a seeded profile sets
// its password; env vars cover non-interactive runs.
func signIn(ctx context.Context, provider session.Provider, defaultEmail string) (*session.User, error) {
	email := strings.TrimSpace(os.Getenv("DUOFIN_EMAIL"))
	password := os.Getenv("DUOFIN_PASSWORD")

	reader := bufio.NewReader(os.Stdin)
	for attempt := 0; attempt < 3; attempt++ {
		if email == "" {
			fmt.Printf("email [%s]: ", defaultEmail)
			line, _ := reader.ReadString('\n')
			email = strings.TrimSpace(line)
			if email == "" {
				email = defaultEmail
			}
		}
		if password == "" {
			fmt.Print("password: ")
			line, _ := reader.ReadString('\n')
			password = strings.TrimRight(line, "\r\n")
		}
		user, err := provider.SignInWithPassword(ctx, email, password)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, session.ErrInvalidCredentials) {
			return nil, err
		}
		fmt.Println("invalid credentials")
		email, password = "", ""
	}
	return nil, session.ErrInvalidCredentials
}

// openLogger sends structured logs to a file so the TUI keeps the terminal.
func openLogger(dataDir string) zerolog.Logger {
	f, err := os.OpenFile(filepath.Join(dataDir, "duofin.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	return zerolog.New(f).With().Timestamp().Logger()
}

func buildResponder(cfg config.Config, logger zerolog.Logger) assistant.Responder {
	if strings.EqualFold(cfg.Assistant.Provider, "gemini") {
		if key := resolveAPIKey(cfg); key != "" {
			return assistant.Fallback{
				Primary: assistant.NewGemini(key, cfg.Assistant.Model),
				Backup:  assistant.Rules{},
				Log:     logger,
			}
		}
		logger.Warn().Msg("gemini selected but no api key found; using rules")
	}
	return assistant.Rules{}
}

func resolveAPIKey(cfg config.Config) string {
	if key := cfg.ResolveAPIKey(); key != "" {
		return key
	}
	if key, err := secrets.Fetch("gemini"); err == nil {
		return key
	}
	return ""
}
