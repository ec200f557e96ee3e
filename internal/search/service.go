package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/2mOlaf/gamer-gambit/internal/clients/bgg"
	"github.com/2mOlaf/gamer-gambit/internal/clients/steam"
	"github.com/2mOlaf/gamer-gambit/internal/clients/xbox"
	"github.com/2mOlaf/gamer-gambit/internal/models"
)

const (
	DefaultLimit   = 10
	MinQueryLength = 2
)

var (
	ErrInvalidCatalog = errors.New("unknown catalog")
	ErrQueryTooShort  = errors.New("search query must be at least 2 characters")
	ErrNoSearcher     = errors.New("platform search not configured")
)

type Service struct {
	searchers map[models.Platform]Searcher
	log       *slog.Logger
}

func NewService(log *slog.Logger, searchers map[models.Platform]Searcher) *Service {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		searchers: searchers,
		log:       log,
	}
}

type platformResult struct {
	platform models.Platform
	records  []models.GameRecord
	err      error
}

// Search queries every platform the catalog covers in parallel and returns
// the ranked union. A failing platform is logged and skipped; the call only
// fails when no platform answered.
func (s *Service) Search(ctx context.Context, query string, catalog models.Catalog, opts Options) ([]models.SearchResult, error) {
	const op = "search.service.Search"

	if catalog == "" {
		catalog = models.CatalogAll
	}
	if !catalog.Valid() {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrInvalidCatalog, catalog)
	}

	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return nil, fmt.Errorf("%s: %w", op, ErrQueryTooShort)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	platforms := catalog.Platforms()
	resCh := make(chan platformResult, len(platforms))

	var wg sync.WaitGroup
	for _, p := range platforms {
		searcher, ok := s.searchers[p]
		if !ok {
			resCh <- platformResult{platform: p, err: ErrNoSearcher}
			continue
		}

		wg.Add(1)
		go func(p models.Platform, searcher Searcher) {
			defer wg.Done()
			records, err := searcher.Search(ctx, query, opts)
			resCh <- platformResult{platform: p, records: records, err: err}
		}(p, searcher)
	}

	wg.Wait()
	close(resCh)

	byPlatform := make(map[models.Platform]platformResult, len(platforms))
	for r := range resCh {
		byPlatform[r.platform] = r
	}

	var (
		results  []models.SearchResult
		firstErr error
		answered int
	)
	for _, p := range platforms {
		r := byPlatform[p]
		if r.err != nil {
			s.log.Warn("platform search failed",
				slog.String("operation", op),
				slog.String("platform", string(p)),
				slog.String("error", r.err.Error()))
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}

		answered++
		for i := range r.records {
			res := r.records[i].SearchResult()
			res.Platform = p
			res.URL = ResultURL(res)
			results = append(results, res)
		}
	}

	if answered == 0 {
		return nil, fmt.Errorf("%s: %w", op, firstErr)
	}

	ranked := Rank(query, results, catalog)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	s.log.Debug("search completed",
		slog.String("operation", op),
		slog.String("catalog", string(catalog)),
		slog.Int("results", len(ranked)))

	return ranked, nil
}

// ResultURL links a result to its page on the source platform.
func ResultURL(r models.SearchResult) string {
	switch r.Platform {
	case models.PlatformBGG:
		return bgg.GameURL(r.ID, r.Name)
	case models.PlatformSteam:
		return steam.StoreURL(r.ID)
	case models.PlatformXbox:
		return xbox.StoreURL(r.Name)
	}
	return ""
}
