package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2mOlaf/gamer-gambit/internal/clients/bgg"
	"github.com/2mOlaf/gamer-gambit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func playsPage(total int, dates ...string) models.PlaysPage {
	p := models.PlaysPage{Total: total, Page: 1}
	for i, d := range dates {
		p.Plays = append(p.Plays, models.PlayRecord{PlayID: int64(i + 1), Date: d, GameName: "Catan"})
	}
	return p
}

func TestPlaysService_Recent(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		client, store := &MockBGG{}, &MockPlayStore{}
		svc := NewPlaysService(client, store, testLogger())

		page := playsPage(57, "2024-05-03", "2024-05-02", "2024-05-01")
		client.On("GetUserPlays", ctx, "alice", int64(0), 1).Return(page, nil)
		store.On("RecordPlays", "123", page.Plays).Return(nil)

		got, err := svc.Recent(ctx, "123", "alice", 2)

		require.NoError(t, err)
		assert.Equal(t, 57, got.Total)
		assert.Len(t, got.Plays, 2)
		assert.False(t, got.Cached)
		store.AssertExpectations(t)
	})

	t.Run("other user is not cached", func(t *testing.T) {
		client, store := &MockBGG{}, &MockPlayStore{}
		svc := NewPlaysService(client, store, testLogger())

		client.On("GetUserPlays", ctx, "bob", int64(0), 1).Return(playsPage(1, "2024-05-03"), nil)

		_, err := svc.Recent(ctx, "", "bob", 0)

		require.NoError(t, err)
		store.AssertNotCalled(t, "RecordPlays", mock.Anything, mock.Anything)
	})

	t.Run("falls back to cache", func(t *testing.T) {
		client, store := &MockBGG{}, &MockPlayStore{}
		svc := NewPlaysService(client, store, testLogger())

		client.On("GetUserPlays", ctx, "alice", int64(0), 1).Return(models.PlaysPage{}, bgg.ErrUpstreamUnavailable)
		store.On("ListPlays", "123", MaxPlaysLimit).Return(playsPage(1, "2024-05-03").Plays, nil)

		got, err := svc.Recent(ctx, "123", "alice", 500)

		require.NoError(t, err)
		assert.True(t, got.Cached)
		assert.Len(t, got.Plays, 1)
	})

	t.Run("error", func(t *testing.T) {
		client, store := &MockBGG{}, &MockPlayStore{}
		svc := NewPlaysService(client, store, testLogger())

		client.On("GetUserPlays", ctx, "alice", int64(0), 1).Return(models.PlaysPage{}, bgg.ErrUpstreamUnavailable)
		store.On("ListPlays", "123", DefaultPlaysLimit).Return([]models.PlayRecord{}, nil)

		_, err := svc.Recent(ctx, "123", "alice", 0)
		assert.ErrorIs(t, err, bgg.ErrUpstreamUnavailable)
	})

	t.Run("cache write failure is not fatal", func(t *testing.T) {
		client, store := &MockBGG{}, &MockPlayStore{}
		svc := NewPlaysService(client, store, testLogger())

		client.On("GetUserPlays", ctx, "alice", int64(0), 1).Return(playsPage(1, "2024-05-03"), nil)
		store.On("RecordPlays", "123", mock.Anything).Return(errors.New("locked"))

		got, err := svc.Recent(ctx, "123", "alice", 10)

		require.NoError(t, err)
		assert.Len(t, got.Plays, 1)
	})
}

func TestPlaysService_Since(t *testing.T) {
	ctx := context.Background()
	client, store := &MockBGG{}, &MockPlayStore{}
	svc := NewPlaysService(client, store, testLogger())

	client.On("GetUserPlays", ctx, "alice", int64(0), 1).
		Return(playsPage(4, "2024-05-08", "2024-05-01", "2024-04-30", "2024-04-01"), nil)
	store.On("RecordPlays", "123", mock.Anything).Return(nil)

	got, err := svc.Since(ctx, "123", "alice", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-05-08", got[0].Date)
	assert.Equal(t, "2024-05-01", got[1].Date)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultPlaysLimit, clampLimit(0))
	assert.Equal(t, DefaultPlaysLimit, clampLimit(-3))
	assert.Equal(t, 1, clampLimit(1))
	assert.Equal(t, MaxPlaysLimit, clampLimit(51))
}
