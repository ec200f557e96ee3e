package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/2mOlaf/gamer-gambit/internal/clients/xbox"
	"github.com/2mOlaf/gamer-gambit/internal/models"
)

var ErrNoGamertag = errors.New("xbox search needs a gamertag")

// Options carries per-request context the platform searchers may need.
type Options struct {
	Gamertag string
	Limit    int
}

// Searcher finds candidate games on one platform.
type Searcher interface {
	Search(ctx context.Context, query string, opts Options) ([]models.GameRecord, error)
}

type SearcherFunc func(ctx context.Context, query string, opts Options) ([]models.GameRecord, error)

func (f SearcherFunc) Search(ctx context.Context, query string, opts Options) ([]models.GameRecord, error) {
	return f(ctx, query, opts)
}

type bggAPI interface {
	SearchGames(ctx context.Context, query string, exact bool) ([]models.GameRecord, error)
	GetGameDetails(ctx context.Context, ids []int64) ([]models.GameRecord, error)
}

// enrichLimit caps how many BGG hits are fetched in full for ratings.
const enrichLimit = 10

// BGGSearcher searches BGG and fills in rating and year for the first hits
// with a single /thing call. Failed enrichment keeps the bare hits.
func BGGSearcher(c bggAPI, log *slog.Logger) Searcher {
	return SearcherFunc(func(ctx context.Context, query string, _ Options) ([]models.GameRecord, error) {
		const op = "search.platforms.BGGSearcher"

		hits, err := c.SearchGames(ctx, query, false)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if len(hits) == 0 {
			return hits, nil
		}

		ids := make([]int64, 0, enrichLimit)
		for _, h := range hits[:min(len(hits), enrichLimit)] {
			ids = append(ids, h.ID)
		}

		details, err := c.GetGameDetails(ctx, ids)
		if err != nil {
			log.Warn("bgg enrichment failed",
				slog.String("operation", op),
				slog.String("error", err.Error()))
			return hits, nil
		}

		byID := make(map[int64]models.GameRecord, len(details))
		for _, d := range details {
			byID[d.ID] = d
		}
		for i, h := range hits {
			d, ok := byID[h.ID]
			if !ok {
				continue
			}
			hits[i].Rating = d.Rating
			hits[i].ThumbnailURL = d.ThumbnailURL
			if hits[i].YearPublished == nil {
				hits[i].YearPublished = d.YearPublished
			}
		}

		return hits, nil
	})
}

type steamAPI interface {
	Search(ctx context.Context, query string) ([]models.GameRecord, error)
}

func SteamSearcher(c steamAPI) Searcher {
	return SearcherFunc(func(ctx context.Context, query string, _ Options) ([]models.GameRecord, error) {
		return c.Search(ctx, query)
	})
}

type xboxAPI interface {
	SearchTitles(ctx context.Context, gamertag, query string, limit int) ([]models.GameRecord, error)
}

// XboxSearcher searches the requester's own title history, the only title
// listing the Xbox API exposes.
func XboxSearcher(c xboxAPI) Searcher {
	return SearcherFunc(func(ctx context.Context, query string, opts Options) ([]models.GameRecord, error) {
		if opts.Gamertag == "" {
			return nil, ErrNoGamertag
		}
		return c.SearchTitles(ctx, opts.Gamertag, query, 0)
	})
}

var _ xboxAPI = (*xbox.Client)(nil)
