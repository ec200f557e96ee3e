package search

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/2mOlaf/gamer-gambit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Search(ctx context.Context, query string, opts Options) ([]models.GameRecord, error) {
	args := m.Called(ctx, query, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GameRecord), args.Error(1)
}

func setupService() (*Service, *MockSearcher, *MockSearcher, *MockSearcher) {
	b, s, x := &MockSearcher{}, &MockSearcher{}, &MockSearcher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	svc := NewService(logger, map[models.Platform]Searcher{
		models.PlatformBGG:   b,
		models.PlatformSteam: s,
		models.PlatformXbox:  x,
	})
	return svc, b, s, x
}

func TestService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, b, s, x := setupService()
		opts := Options{Gamertag: "Chief"}

		b.On("Search", ctx, "catan", opts).Return([]models.GameRecord{
			{ID: 13, Platform: models.PlatformBGG, Name: "Catan"},
		}, nil)
		s.On("Search", ctx, "catan", opts).Return([]models.GameRecord{
			{ID: 544730, Platform: models.PlatformSteam, Name: "Catan Universe"},
		}, nil)
		x.On("Search", ctx, "catan", opts).Return([]models.GameRecord{}, nil)

		got, err := svc.Search(ctx, " catan ", models.CatalogAll, opts)

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Catan", got[0].Name)
		assert.True(t, got[0].TopPick)
		assert.Equal(t, "https://boardgamegeek.com/boardgame/13/catan", got[0].URL)
		assert.Equal(t, "https://store.steampowered.com/app/544730", got[1].URL)
		b.AssertExpectations(t)
		s.AssertExpectations(t)
		x.AssertExpectations(t)
	})

	t.Run("single platform", func(t *testing.T) {
		svc, b, s, x := setupService()

		s.On("Search", ctx, "doom", Options{}).Return([]models.GameRecord{
			{ID: 379720, Name: "DOOM"},
		}, nil)

		got, err := svc.Search(ctx, "doom", models.CatalogSteam, Options{})

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, models.PlatformSteam, got[0].Platform)
		assert.InDelta(t, 1.1, got[0].RelevanceScore, 1e-9)
		b.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
		x.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("partial failure", func(t *testing.T) {
		svc, b, s, x := setupService()

		b.On("Search", ctx, "halo", Options{}).Return(nil, errors.New("bgg down"))
		s.On("Search", ctx, "halo", Options{}).Return([]models.GameRecord{
			{ID: 976730, Platform: models.PlatformSteam, Name: "Halo: The Master Chief Collection"},
		}, nil)
		x.On("Search", ctx, "halo", Options{}).Return(nil, ErrNoGamertag)

		got, err := svc.Search(ctx, "halo", models.CatalogAll, Options{})

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(976730), got[0].ID)
	})

	t.Run("every platform fails", func(t *testing.T) {
		svc, b, _, _ := setupService()
		upstream := errors.New("bgg down")

		b.On("Search", ctx, "halo", Options{}).Return(nil, upstream)

		got, err := svc.Search(ctx, "halo", models.CatalogBGG, Options{})

		assert.ErrorIs(t, err, upstream)
		assert.Nil(t, got)
	})

	t.Run("limit", func(t *testing.T) {
		svc, b, _, _ := setupService()

		records := make([]models.GameRecord, 15)
		for i := range records {
			records[i] = models.GameRecord{ID: int64(i + 1), Name: "Pandemic"}
		}
		b.On("Search", ctx, "pandemic", mock.Anything).Return(records, nil)

		got, err := svc.Search(ctx, "pandemic", models.CatalogBGG, Options{})
		require.NoError(t, err)
		assert.Len(t, got, DefaultLimit)

		got, err = svc.Search(ctx, "pandemic", models.CatalogBGG, Options{Limit: 3})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("query too short", func(t *testing.T) {
		svc, _, _, _ := setupService()

		_, err := svc.Search(ctx, " a ", models.CatalogAll, Options{})
		assert.ErrorIs(t, err, ErrQueryTooShort)
	})

	t.Run("invalid catalog", func(t *testing.T) {
		svc, _, _, _ := setupService()

		_, err := svc.Search(ctx, "catan", models.Catalog("psn"), Options{})
		assert.ErrorIs(t, err, ErrInvalidCatalog)
	})

	t.Run("missing searcher", func(t *testing.T) {
		svc := NewService(nil, map[models.Platform]Searcher{})

		_, err := svc.Search(ctx, "catan", models.CatalogXbox, Options{})
		assert.ErrorIs(t, err, ErrNoSearcher)
	})
}

type fakeBGG struct {
	hits    []models.GameRecord
	details []models.GameRecord
	err     error
	ids     []int64
}

func (f *fakeBGG) SearchGames(_ context.Context, _ string, _ bool) ([]models.GameRecord, error) {
	return f.hits, nil
}

func (f *fakeBGG) GetGameDetails(_ context.Context, ids []int64) ([]models.GameRecord, error) {
	f.ids = ids
	return f.details, f.err
}

func TestBGGSearcher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	hits := func() []models.GameRecord {
		out := make([]models.GameRecord, 12)
		for i := range out {
			out[i] = models.GameRecord{ID: int64(i + 1), Platform: models.PlatformBGG, Name: "Game"}
		}
		return out
	}

	t.Run("enriches first hits", func(t *testing.T) {
		f := &fakeBGG{
			hits: hits(),
			details: []models.GameRecord{
				{ID: 2, Rating: floatPtr(7.5), YearPublished: intPtr(2015)},
			},
		}

		got, err := BGGSearcher(f, logger).Search(context.Background(), "game", Options{})

		require.NoError(t, err)
		assert.Len(t, f.ids, enrichLimit)
		assert.Equal(t, 7.5, *got[1].Rating)
		assert.Equal(t, 2015, *got[1].YearPublished)
		assert.Nil(t, got[0].Rating)
	})

	t.Run("enrichment failure keeps hits", func(t *testing.T) {
		f := &fakeBGG{hits: hits(), err: errors.New("timeout")}

		got, err := BGGSearcher(f, logger).Search(context.Background(), "game", Options{})

		require.NoError(t, err)
		assert.Len(t, got, 12)
	})
}

type fakeXbox struct{ gamertag string }

func (f *fakeXbox) SearchTitles(_ context.Context, gamertag, _ string, _ int) ([]models.GameRecord, error) {
	f.gamertag = gamertag
	return []models.GameRecord{{ID: 1, Name: "Halo"}}, nil
}

func TestXboxSearcher(t *testing.T) {
	f := &fakeXbox{}

	_, err := XboxSearcher(f).Search(context.Background(), "halo", Options{})
	assert.ErrorIs(t, err, ErrNoGamertag)

	got, err := XboxSearcher(f).Search(context.Background(), "halo", Options{Gamertag: "Chief"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "Chief", f.gamertag)
}
