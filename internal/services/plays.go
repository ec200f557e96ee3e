package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/2mOlaf/gamer-gambit/internal/models"
)

const (
	DefaultPlaysLimit = 10
	MaxPlaysLimit     = 50
)

type PlaysFetcher interface {
	GetUserPlays(ctx context.Context, username string, gameID int64, page int) (models.PlaysPage, error)
}

type PlayStore interface {
	RecordPlays(discordID string, plays []models.PlayRecord) error
	ListPlays(discordID string, limit int) ([]models.PlayRecord, error)
}

type PlaysService struct {
	bgg   PlaysFetcher
	store PlayStore
	log   *slog.Logger
}

func NewPlaysService(bgg PlaysFetcher, store PlayStore, log *slog.Logger) *PlaysService {
	return &PlaysService{
		bgg:   bgg,
		store: store,
		log:   orDiscard(log),
	}
}

type RecentPlays struct {
	Total  int
	Plays  []models.PlayRecord
	Cached bool
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultPlaysLimit
	case limit > MaxPlaysLimit:
		return MaxPlaysLimit
	}
	return limit
}

// Recent fetches the first page of a user's plays. When ownerID is set the
// plays belong to that profile: they are cached, and the cache answers if
// BGG cannot.
func (s *PlaysService) Recent(ctx context.Context, ownerID, username string, limit int) (RecentPlays, error) {
	const op = "services.plays.Recent"

	limit = clampLimit(limit)

	page, err := s.bgg.GetUserPlays(ctx, username, 0, 1)
	if err != nil {
		if ownerID == "" {
			return RecentPlays{}, fmt.Errorf("%s: %w", op, err)
		}

		cached, cacheErr := s.store.ListPlays(ownerID, limit)
		if cacheErr != nil || len(cached) == 0 {
			return RecentPlays{}, fmt.Errorf("%s: %w", op, err)
		}

		s.log.Warn("bgg plays unavailable, serving cache",
			slog.String("operation", op),
			slog.String("username", username),
			slog.String("error", err.Error()))
		return RecentPlays{Total: len(cached), Plays: cached, Cached: true}, nil
	}

	if ownerID != "" {
		if err := s.store.RecordPlays(ownerID, page.Plays); err != nil {
			s.log.Warn("failed to cache plays",
				slog.String("operation", op),
				slog.String("discord_id", ownerID),
				slog.String("error", err.Error()))
		}
	}

	plays := page.Plays
	if len(plays) > limit {
		plays = plays[:limit]
	}

	return RecentPlays{Total: page.Total, Plays: plays}, nil
}

// Since returns the plays on the first page dated on or after since.
func (s *PlaysService) Since(ctx context.Context, ownerID, username string, since time.Time) ([]models.PlayRecord, error) {
	const op = "services.plays.Since"

	recent, err := s.Recent(ctx, ownerID, username, MaxPlaysLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cutoff := since.Format(time.DateOnly)
	out := make([]models.PlayRecord, 0, len(recent.Plays))
	for _, p := range recent.Plays {
		if p.Date >= cutoff {
			out = append(out, p)
		}
	}

	return out, nil
}
