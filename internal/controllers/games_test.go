package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2mOlaf/gamer-gambit/internal/models"
	"github.com/2mOlaf/gamer-gambit/internal/search"
	"github.com/2mOlaf/gamer-gambit/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// withURLParam attaches a chi route param the way the router would.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Search(ctx context.Context, query string, catalog models.Catalog, opts search.Options) ([]models.SearchResult, error) {
	args := m.Called(ctx, query, catalog, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SearchResult), args.Error(1)
}

type MockDetailer struct {
	mock.Mock
}

func (m *MockDetailer) GameDetails(ctx context.Context, id int64) (*models.GameRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameRecord), args.Error(1)
}

func setupController() (*GameController, *MockSearcher, *MockDetailer) {
	s, d := &MockSearcher{}, &MockDetailer{}
	return NewGameController(s, d, testLogger()), s, d
}

func TestGameController_Search(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl, s, _ := setupController()

		expected := []models.SearchResult{{ID: 13, Name: "Catan", Platform: models.PlatformBGG, RelevanceScore: 150}}
		s.On("Search", mock.Anything, "catan", models.CatalogBGG, search.Options{Limit: 5}).Return(expected, nil)

		req := httptest.NewRequest("GET", "/api/search?q=catan&catalog=BGG&limit=5", nil)
		w := httptest.NewRecorder()

		ctrl.Search(w, req)

		resp := w.Result()
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var body searchResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, models.CatalogBGG, body.Catalog)
		require.Len(t, body.Results, 1)
		assert.Equal(t, "Catan", body.Results[0].Name)
		s.AssertExpectations(t)
	})

	t.Run("defaults to all catalogs", func(t *testing.T) {
		ctrl, s, _ := setupController()
		s.On("Search", mock.Anything, "halo", models.CatalogAll, search.Options{Gamertag: "Chief"}).Return(nil, nil)

		req := httptest.NewRequest("GET", "/api/search?q=halo&gamertag=Chief", nil)
		w := httptest.NewRecorder()

		ctrl.Search(w, req)

		resp := w.Result()
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body searchResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.NotNil(t, body.Results)
		assert.Empty(t, body.Results)
	})

	t.Run("invalid input", func(t *testing.T) {
		for _, err := range []error{search.ErrQueryTooShort, search.ErrInvalidCatalog, search.ErrNoGamertag} {
			ctrl, s, _ := setupController()
			s.On("Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, err)

			w := httptest.NewRecorder()
			ctrl.Search(w, httptest.NewRequest("GET", "/api/search?q=x", nil))

			assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode, err.Error())
		}
	})

	t.Run("bad limit", func(t *testing.T) {
		ctrl, s, _ := setupController()

		w := httptest.NewRecorder()
		ctrl.Search(w, httptest.NewRequest("GET", "/api/search?q=catan&limit=zero", nil))

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
		s.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("error", func(t *testing.T) {
		ctrl, s, _ := setupController()
		s.On("Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("all platforms failed"))

		w := httptest.NewRecorder()
		ctrl.Search(w, httptest.NewRequest("GET", "/api/search?q=catan", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Result().StatusCode)
	})
}

func TestGameController_GetByID(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl, _, d := setupController()

		expected := &models.GameRecord{ID: 13, Platform: models.PlatformBGG, Name: "Catan", CachedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
		d.On("GameDetails", mock.Anything, int64(13)).Return(expected, nil)

		req := withURLParam(httptest.NewRequest("GET", "/api/games/13", nil), "id", "13")
		w := httptest.NewRecorder()

		ctrl.GetByID(w, req)

		resp := w.Result()
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var game models.GameRecord
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&game))
		assert.Equal(t, "Catan", game.Name)
		d.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		ctrl, _, d := setupController()

		req := withURLParam(httptest.NewRequest("GET", "/api/games/invalid", nil), "id", "invalid")
		w := httptest.NewRecorder()

		ctrl.GetByID(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
		d.AssertNotCalled(t, "GameDetails", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl, _, d := setupController()
		d.On("GameDetails", mock.Anything, int64(999)).Return(nil, storage.ErrNotFound)

		req := withURLParam(httptest.NewRequest("GET", "/api/games/999", nil), "id", "999")
		w := httptest.NewRecorder()

		ctrl.GetByID(w, req)

		assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
	})

	t.Run("upstream error", func(t *testing.T) {
		ctrl, _, d := setupController()
		d.On("GameDetails", mock.Anything, int64(5)).Return(nil, errors.New("bgg unavailable"))

		req := withURLParam(httptest.NewRequest("GET", "/api/games/5", nil), "id", "5")
		w := httptest.NewRecorder()

		ctrl.GetByID(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Result().StatusCode)
	})
}
