package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vinnx/duofin/internal/database/repository"
	"github.com/vinnx/duofin/internal/state"
	"github.com/vinnx/duofin/internal/storage"
)

var (
	ErrBadImage  = errors.New("profile: unsupported image file")
	ErrNoPartner = errors.New("profile: no partner linked")
)

// ProfileService manages the profile row and the linked partner. Avatar
// images go through the object store; only the resulting URL lands on the
// profile.
type ProfileService struct {
	Profiles *repository.ProfileRepo
	Objects  storage.Store
	State    *state.Store
}

// SetAvatar uploads the image at path into the avatars bucket and points the
// profile at it.
func (s *ProfileService) SetAvatar(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		return "", ErrBadImage
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read avatar: %w", err)
	}

	profile, partner := s.State.Profile()
	url, err := s.Objects.Upload("avatars", profile.ID+ext, data)
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}

	profile.AvatarURL = url
	if err := s.Profiles.Upsert(ctx, profile); err != nil {
		return "", fmt.Errorf("save profile: %w", err)
	}
	s.State.SetProfile(profile, partner)
	return url, nil
}

// LinkPartner attaches or replaces the single family member.
func (s *ProfileService) LinkPartner(ctx context.Context, name, email string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("profile: partner name required")
	}
	profile, _ := s.State.Profile()
	member := repository.FamilyMember{
		ProfileID: profile.ID,
		Name:      strings.TrimSpace(name),
		Email:     strings.ToLower(strings.TrimSpace(email)),
	}
	if err := s.Profiles.SetFamilyMember(ctx, member); err != nil {
		return fmt.Errorf("link partner: %w", err)
	}
	s.State.SetProfile(profile, &member)
	return nil
}

// UnlinkPartner removes the family member link, if any.
func (s *ProfileService) UnlinkPartner(ctx context.Context) error {
	profile, partner := s.State.Profile()
	if partner == nil {
		return ErrNoPartner
	}
	if err := s.Profiles.RemoveFamilyMember(ctx, profile.ID); err != nil {
		return fmt.Errorf("unlink partner: %w", err)
	}
	s.State.SetProfile(profile, nil)
	return nil
}
