package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/2mOlaf/gamer-gambit/internal/clients/bgg"
	"github.com/2mOlaf/gamer-gambit/internal/models"
	"github.com/2mOlaf/gamer-gambit/internal/storage"

	"github.com/go-playground/validator/v10"
)

type ProfileStore interface {
	UpsertUserProfile(discordID string, patch models.ProfilePatch) (*models.UserProfile, error)
	GetUserProfile(discordID string) (*models.UserProfile, error)
}

type BGGUserValidator interface {
	ValidateUser(ctx context.Context, username string) error
}

type ProfileService struct {
	store    ProfileStore
	bgg      BGGUserValidator
	validate *validator.Validate
	log      *slog.Logger
}

func NewProfileService(store ProfileStore, users BGGUserValidator, log *slog.Logger) *ProfileService {
	return &ProfileService{
		store:    store,
		bgg:      users,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      orDiscard(log),
	}
}

type SetPlatformRequest struct {
	DiscordID string `validate:"required,numeric,max=32"`
	Platform  string `validate:"required,oneof=bgg steam xbox"`
	Username  string `validate:"required,max=64"`
}

type WeeklyStatsRequest struct {
	DiscordID string `validate:"required,numeric,max=32"`
	Enabled   bool
	ChannelID string `validate:"omitempty,numeric,max=32"`
}

// SetPlatform links a platform account to the Discord user. BGG usernames
// are checked against BGG first; if BGG cannot be reached the name is
// stored unverified.
func (s *ProfileService) SetPlatform(ctx context.Context, req SetPlatformRequest) (*models.UserProfile, error) {
	const op = "services.profiles.SetPlatform"

	req.Username = strings.TrimSpace(req.Username)
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidInput, err)
	}

	platform := models.Platform(req.Platform)
	if platform == models.PlatformBGG && s.bgg != nil {
		err := s.bgg.ValidateUser(ctx, req.Username)
		switch {
		case errors.Is(err, bgg.ErrInvalidRequest):
			return nil, fmt.Errorf("%s: %w: %s", op, ErrUnknownBGGUser, req.Username)
		case err != nil:
			s.log.Warn("could not verify bgg username, storing as is",
				slog.String("operation", op),
				slog.String("username", req.Username),
				slog.String("error", err.Error()))
		}
	}

	patch, _ := models.PlatformPatch(platform, req.Username)

	p, err := s.store.UpsertUserProfile(req.DiscordID, patch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("profile updated",
		slog.String("operation", op),
		slog.String("discord_id", req.DiscordID),
		slog.String("platform", req.Platform))

	return p, nil
}

// SetWeeklyStats toggles the weekly digest. Disabling keeps the channel.
func (s *ProfileService) SetWeeklyStats(req WeeklyStatsRequest) (*models.UserProfile, error) {
	const op = "services.profiles.SetWeeklyStats"

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidInput, err)
	}
	if req.Enabled && req.ChannelID == "" {
		return nil, fmt.Errorf("%s: %w: channel is required", op, ErrInvalidInput)
	}

	patch := models.ProfilePatch{WeeklyStatsEnabled: &req.Enabled}
	if req.ChannelID != "" {
		patch.WeeklyStatsChannelID = &req.ChannelID
	}

	p, err := s.store.UpsertUserProfile(req.DiscordID, patch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// Get returns the stored profile, or an empty one for users who never set
// anything up.
func (s *ProfileService) Get(discordID string) (*models.UserProfile, error) {
	const op = "services.profiles.Get"

	p, err := s.store.GetUserProfile(discordID)
	if errors.Is(err, storage.ErrNotFound) {
		return &models.UserProfile{DiscordID: discordID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// BGGUsername resolves the username to query: an explicit one wins, then
// the caller's linked account.
func (s *ProfileService) BGGUsername(discordID, explicit string) (string, error) {
	const op = "services.profiles.BGGUsername"

	if u := strings.TrimSpace(explicit); u != "" {
		return u, nil
	}

	p, err := s.Get(discordID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if p.BGGUsername == nil {
		return "", fmt.Errorf("%s: %w", op, ErrNoProfile)
	}

	return *p.BGGUsername, nil
}
