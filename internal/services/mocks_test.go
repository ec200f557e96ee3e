package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/2mOlaf/gamer-gambit/internal/models"

	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func strPtr(s string) *string { return &s }

type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) UpsertUserProfile(discordID string, patch models.ProfilePatch) (*models.UserProfile, error) {
	args := m.Called(discordID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockProfileStore) GetUserProfile(discordID string) (*models.UserProfile, error) {
	args := m.Called(discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

type MockBGG struct {
	mock.Mock
}

func (m *MockBGG) ValidateUser(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockBGG) GetGameDetails(ctx context.Context, ids []int64) ([]models.GameRecord, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GameRecord), args.Error(1)
}

func (m *MockBGG) GetUserCollection(ctx context.Context, username string, filters []models.CollectionStatus) ([]models.CollectionEntry, error) {
	args := m.Called(ctx, username, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CollectionEntry), args.Error(1)
}

func (m *MockBGG) GetUserPlays(ctx context.Context, username string, gameID int64, page int) (models.PlaysPage, error) {
	args := m.Called(ctx, username, gameID, page)
	return args.Get(0).(models.PlaysPage), args.Error(1)
}

type MockGameCache struct {
	mock.Mock
}

func (m *MockGameCache) GetGame(platform models.Platform, id int64) (*models.GameRecord, error) {
	args := m.Called(platform, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameRecord), args.Error(1)
}

func (m *MockGameCache) UpsertGame(g *models.GameRecord) error {
	args := m.Called(g)
	return args.Error(0)
}

type MockPlayStore struct {
	mock.Mock
}

func (m *MockPlayStore) RecordPlays(discordID string, plays []models.PlayRecord) error {
	args := m.Called(discordID, plays)
	return args.Error(0)
}

func (m *MockPlayStore) ListPlays(discordID string, limit int) ([]models.PlayRecord, error) {
	args := m.Called(discordID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PlayRecord), args.Error(1)
}

type MockAssignmentStore struct {
	mock.Mock
}

func (m *MockAssignmentStore) GetRandomUnassignedGame() (*models.ItchGame, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ItchGame), args.Error(1)
}

func (m *MockAssignmentStore) AssignGame(gameID int64, userID, username string) error {
	args := m.Called(gameID, userID, username)
	return args.Error(0)
}

func (m *MockAssignmentStore) UserGames(userID, username string) ([]models.ItchGame, error) {
	args := m.Called(userID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ItchGame), args.Error(1)
}

func (m *MockAssignmentStore) Stats() (models.GameStats, error) {
	args := m.Called()
	return args.Get(0).(models.GameStats), args.Error(1)
}

func (m *MockAssignmentStore) GetItchGame(id int64) (*models.ItchGame, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ItchGame), args.Error(1)
}

func (m *MockAssignmentStore) CompleteReview(gameID int64, userID, username, reviewURL string) error {
	args := m.Called(gameID, userID, username, reviewURL)
	return args.Error(0)
}
