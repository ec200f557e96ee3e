package catalog

import (
	"testing"

	"github.com/2mOlaf/gamer-gambit/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAggregateSuggestedPlayers(t *testing.T) {
	t.Run("best and not recommended", func(t *testing.T) {
		got := AggregateSuggestedPlayers([]PlayerCountPoll{
			{NumPlayers: "2", Votes: []Vote{{models.Best, 10}, {models.Recommended, 3}}},
			{NumPlayers: "4", Votes: []Vote{{models.NotRecommended, 5}}},
		})

		assert.Equal(t, map[string]models.Recommendation{
			"2": models.Best,
			"4": models.NotRecommended,
		}, got)
	})

	t.Run("recommended ignores vote counts", func(t *testing.T) {
		got := AggregateSuggestedPlayers([]PlayerCountPoll{
			{NumPlayers: "3", Votes: []Vote{{models.Best, 0}, {models.Recommended, 1}, {models.NotRecommended, 50}}},
		})

		assert.Equal(t, models.Recommended, got["3"])
	})

	t.Run("recommended never overrides best", func(t *testing.T) {
		got := AggregateSuggestedPlayers([]PlayerCountPoll{
			{NumPlayers: "1", Votes: []Vote{{models.Best, 2}, {models.Recommended, 40}}},
		})

		assert.Equal(t, models.Best, got["1"])
	})

	t.Run("best needs strictly more votes", func(t *testing.T) {
		got := AggregateSuggestedPlayers([]PlayerCountPoll{
			{NumPlayers: "5", Votes: []Vote{{models.Best, 0}}},
			{NumPlayers: "6", Votes: []Vote{{models.Recommended, 4}, {models.Best, 4}, {models.Best, 4}}},
		})

		assert.Equal(t, models.NotRecommended, got["5"])
		assert.Equal(t, models.Best, got["6"])
	})

	t.Run("later duplicate label wins", func(t *testing.T) {
		got := AggregateSuggestedPlayers([]PlayerCountPoll{
			{NumPlayers: "2", Votes: []Vote{{models.Best, 9}}},
			{NumPlayers: "2", Votes: []Vote{{models.Recommended, 1}}},
		})

		assert.Equal(t, models.Recommended, got["2"])
	})

	t.Run("empty label skipped", func(t *testing.T) {
		got := AggregateSuggestedPlayers([]PlayerCountPoll{{NumPlayers: "", Votes: []Vote{{models.Best, 3}}}})
		assert.Empty(t, got)
	})
}
