package bot

import (
	"context"
	"io"
	"log/slog"

	"github.com/2mOlaf/gamer-gambit/internal/models"
	"github.com/2mOlaf/gamer-gambit/internal/search"
	"github.com/2mOlaf/gamer-gambit/internal/services"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

var caller = User{ID: "100", Username: "alice", DisplayName: "Alice"}

// testRequest builds a command request with the given option values.
func testRequest(opts map[string]any) *Request {
	req := &Request{
		ID:        "req-1",
		Log:       testLogger(),
		Caller:    caller,
		ChannelID: "555",
		GuildID:   "777",
		options:   make(map[string]*discordgo.ApplicationCommandInteractionDataOption),
		users:     make(map[string]User),
	}
	for name, v := range opts {
		req.options[name] = &discordgo.ApplicationCommandInteractionDataOption{Name: name, Value: v}
	}
	return req
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

type MockProfiles struct {
	mock.Mock
}

func (m *MockProfiles) SetPlatform(ctx context.Context, req services.SetPlatformRequest) (*models.UserProfile, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockProfiles) SetWeeklyStats(req services.WeeklyStatsRequest) (*models.UserProfile, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockProfiles) Get(discordID string) (*models.UserProfile, error) {
	args := m.Called(discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockProfiles) BGGUsername(discordID, explicit string) (string, error) {
	args := m.Called(discordID, explicit)
	return args.String(0), args.Error(1)
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GameDetails(ctx context.Context, id int64) (*models.GameRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameRecord), args.Error(1)
}

func (m *MockCatalog) Collection(ctx context.Context, username string, filter models.CollectionStatus) ([]models.CollectionEntry, error) {
	args := m.Called(ctx, username, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CollectionEntry), args.Error(1)
}

type MockPlays struct {
	mock.Mock
}

func (m *MockPlays) Recent(ctx context.Context, ownerID, username string, limit int) (services.RecentPlays, error) {
	args := m.Called(ctx, ownerID, username, limit)
	return args.Get(0).(services.RecentPlays), args.Error(1)
}

type MockAssignments struct {
	mock.Mock
}

func (m *MockAssignments) Hit(userID, username string) (*models.ItchGame, error) {
	args := m.Called(userID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ItchGame), args.Error(1)
}

func (m *MockAssignments) Status(userID, username string) ([]services.GameStatus, error) {
	args := m.Called(userID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.GameStatus), args.Error(1)
}

func (m *MockAssignments) MyStats(userID, username string) (services.UserStats, error) {
	args := m.Called(userID, username)
	return args.Get(0).(services.UserStats), args.Error(1)
}

func (m *MockAssignments) GameInfo() (models.GameStats, error) {
	args := m.Called()
	return args.Get(0).(models.GameStats), args.Error(1)
}

func (m *MockAssignments) CompleteReview(gameID int64, userID, username, reviewURL string) (*models.ItchGame, error) {
	args := m.Called(gameID, userID, username, reviewURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ItchGame), args.Error(1)
}
