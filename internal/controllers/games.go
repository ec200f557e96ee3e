package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/2mOlaf/gamer-gambit/internal/models"
	"github.com/2mOlaf/gamer-gambit/internal/search"
	"github.com/2mOlaf/gamer-gambit/internal/storage"

	"github.com/go-chi/chi/v5"
)

type GameSearcher interface {
	Search(ctx context.Context, query string, catalog models.Catalog, opts search.Options) ([]models.SearchResult, error)
}

type GameDetailer interface {
	GameDetails(ctx context.Context, id int64) (*models.GameRecord, error)
}

type GameController struct {
	search  GameSearcher
	details GameDetailer
	log     *slog.Logger
}

func NewGameController(searcher GameSearcher, details GameDetailer, log *slog.Logger) *GameController {
	return &GameController{
		search:  searcher,
		details: details,
		log:     log,
	}
}

type searchResponse struct {
	Query   string                `json:"query"`
	Catalog models.Catalog        `json:"catalog"`
	Results []models.SearchResult `json:"results"`
}

// Search handles GET /api/search?q=&catalog=&gamertag=&limit=.
func (c *GameController) Search(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Search"

	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))
	catalog := models.Catalog(strings.ToLower(q.Get("catalog")))
	if catalog == "" {
		catalog = models.CatalogAll
	}

	opts := search.Options{Gamertag: q.Get("gamertag")}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			c.log.Error(ErrBadRequest.Error(),
				slog.String("operation", op),
				slog.String("limit", raw))
			http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
			return
		}
		opts.Limit = limit
	}

	results, err := c.search.Search(r.Context(), query, catalog, opts)
	if err != nil {
		c.log.Error(ErrSearch.Error(),
			slog.String("operation", op),
			slog.String("query", query),
			slog.String("error", err.Error()))

		switch {
		case errors.Is(err, search.ErrQueryTooShort),
			errors.Is(err, search.ErrInvalidCatalog),
			errors.Is(err, search.ErrNoGamertag):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, ErrSearch.Error(), http.StatusInternalServerError)
		}
		return
	}
	if results == nil {
		results = []models.SearchResult{}
	}

	writeJSON(w, c.log, op, http.StatusOK, searchResponse{Query: query, Catalog: catalog, Results: results})
}

// GetByID handles GET /api/games/{id} for BGG ids.
func (c *GameController) GetByID(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.GetByID"

	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id < 1 {
		c.log.Error(ErrInvalidID.Error(),
			slog.String("operation", op),
			slog.String("id", idStr))
		http.Error(w, ErrInvalidID.Error(), http.StatusBadRequest)
		return
	}

	game, err := c.details.GameDetails(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, ErrNotFound.Error(), http.StatusNotFound)
			return
		}
		c.log.Error(ErrGetGame.Error(),
			slog.String("operation", op),
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		http.Error(w, ErrGetGame.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, c.log, op, http.StatusOK, game)
}
