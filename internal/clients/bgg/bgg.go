package bgg

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/2mOlaf/gamer-gambit/internal/models"

	"github.com/gosimple/slug"
)

// thingBatchSize is the most ids BGG accepts in one /thing call.
const thingBatchSize = 20

func (c *Client) SearchGames(ctx context.Context, query string, exact bool) ([]models.GameRecord, error) {
	const op = "bgg.SearchGames"

	params := url.Values{}
	params.Set("query", query)
	params.Set("type", "boardgame")
	if exact {
		params.Set("exact", "1")
	}

	root, err := c.do(ctx, "search", params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c.parser.ParseSearch(root), nil
}

// GetGameDetails fetches full records with statistics, batching ids.
func (c *Client) GetGameDetails(ctx context.Context, ids []int64) ([]models.GameRecord, error) {
	const op = "bgg.GetGameDetails"

	var out []models.GameRecord
	for start := 0; start < len(ids); start += thingBatchSize {
		end := min(start+thingBatchSize, len(ids))

		parts := make([]string, 0, end-start)
		for _, id := range ids[start:end] {
			parts = append(parts, strconv.FormatInt(id, 10))
		}

		params := url.Values{}
		params.Set("id", strings.Join(parts, ","))
		params.Set("stats", "1")

		root, err := c.do(ctx, "thing", params)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, c.parser.ParseThings(root)...)
	}

	return out, nil
}

// GetUserCollection returns entries matching any of the filters, all four
// statuses when none are given. BGG combines status parameters as a
// conjunction, so only a single filter is pushed to the server.
func (c *Client) GetUserCollection(ctx context.Context, username string, filters []models.CollectionStatus) ([]models.CollectionEntry, error) {
	const op = "bgg.GetUserCollection"

	if len(filters) == 0 {
		filters = models.AllCollectionStatuses
	}

	params := url.Values{}
	params.Set("username", username)
	params.Set("stats", "1")
	if len(filters) == 1 {
		params.Set(string(filters[0]), "1")
	}

	root, err := c.do(ctx, "collection", params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c.parser.ParseCollection(root, filters), nil
}

// GetUserPlays returns one page of plays, optionally for a single game.
func (c *Client) GetUserPlays(ctx context.Context, username string, gameID int64, page int) (models.PlaysPage, error) {
	const op = "bgg.GetUserPlays"

	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("username", username)
	params.Set("page", strconv.Itoa(page))
	if gameID > 0 {
		params.Set("id", strconv.FormatInt(gameID, 10))
	}

	root, err := c.do(ctx, "plays", params)
	if err != nil {
		return models.PlaysPage{}, fmt.Errorf("%s: %w", op, err)
	}

	return c.parser.ParsePlays(root, page), nil
}

// ValidateUser checks that BGG knows the username.
func (c *Client) ValidateUser(ctx context.Context, username string) error {
	_, err := c.GetUserCollection(ctx, username, []models.CollectionStatus{models.StatusOwn})
	return err
}

func GameURL(id int64, name string) string {
	u := fmt.Sprintf("https://boardgamegeek.com/boardgame/%d", id)
	if s := slug.Make(name); s != "" {
		u += "/" + s
	}
	return u
}

func UserURL(username string) string {
	return "https://boardgamegeek.com/user/" + url.PathEscape(username)
}

func CollectionURL(username string, status models.CollectionStatus) string {
	return fmt.Sprintf("https://boardgamegeek.com/collection/user/%s?%s=1", url.PathEscape(username), status)
}

func PlaysURL(username string) string {
	return "https://boardgamegeek.com/plays/bydate/user/" + url.PathEscape(username)
}
