package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/2mOlaf/gamer-gambit/internal/models"
	"github.com/2mOlaf/gamer-gambit/internal/storage"
)

const DefaultGameTTL = 24 * time.Hour

type GameCache interface {
	GetGame(platform models.Platform, id int64) (*models.GameRecord, error)
	UpsertGame(g *models.GameRecord) error
}

type BGGCatalog interface {
	GetGameDetails(ctx context.Context, ids []int64) ([]models.GameRecord, error)
	GetUserCollection(ctx context.Context, username string, filters []models.CollectionStatus) ([]models.CollectionEntry, error)
}

type CatalogService struct {
	cache GameCache
	bgg   BGGCatalog
	ttl   time.Duration
	log   *slog.Logger
	now   func() time.Time
}

func NewCatalogService(cache GameCache, bgg BGGCatalog, ttl time.Duration, log *slog.Logger) *CatalogService {
	if ttl <= 0 {
		ttl = DefaultGameTTL
	}
	return &CatalogService{
		cache: cache,
		bgg:   bgg,
		ttl:   ttl,
		log:   orDiscard(log),
		now:   time.Now,
	}
}

// GameDetails serves a BGG game from the cache while it is fresh and
// refetches it otherwise. A failed cache write does not fail the call.
func (s *CatalogService) GameDetails(ctx context.Context, id int64) (*models.GameRecord, error) {
	const op = "services.games.GameDetails"

	cached, err := s.cache.GetGame(models.PlatformBGG, id)
	switch {
	case err == nil && s.now().Sub(cached.CachedAt) < s.ttl:
		return cached, nil
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		s.log.Warn("game cache read failed",
			slog.String("operation", op),
			slog.Int64("game_id", id),
			slog.String("error", err.Error()))
	}

	games, err := s.bgg.GetGameDetails(ctx, []int64{id})
	if err != nil {
		if cached != nil {
			s.log.Warn("serving stale game details",
				slog.String("operation", op),
				slog.Int64("game_id", id),
				slog.String("error", err.Error()))
			return cached, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	g := games[0]
	g.CachedAt = s.now()
	if err := s.cache.UpsertGame(&g); err != nil {
		s.log.Warn("game cache write failed",
			slog.String("operation", op),
			slog.Int64("game_id", id),
			slog.String("error", err.Error()))
	}

	return &g, nil
}

func (s *CatalogService) Collection(ctx context.Context, username string, filter models.CollectionStatus) ([]models.CollectionEntry, error) {
	const op = "services.games.Collection"

	var filters []models.CollectionStatus
	if filter != "" {
		if !filter.Valid() {
			return nil, fmt.Errorf("%s: %w: collection type %q", op, ErrInvalidInput, filter)
		}
		filters = []models.CollectionStatus{filter}
	}

	entries, err := s.bgg.GetUserCollection(ctx, username, filters)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return entries, nil
}
