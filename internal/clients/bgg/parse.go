package bgg

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/2mOlaf/gamer-gambit/internal/catalog"
	"github.com/2mOlaf/gamer-gambit/internal/models"
)

const descriptionLimit = 1000

// Parser maps decoded BGG responses to models. Bad items are logged and
// skipped; they never fail the whole response.
type Parser struct {
	log *slog.Logger
}

func NewParser(log *slog.Logger) *Parser {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Parser{log: log}
}

func (p *Parser) skip(op string, err error) {
	p.log.Warn("skipping malformed item",
		slog.String("operation", op),
		slog.String("error", err.Error()))
}

// items lists the element children under key, logging any that did not
// decode to an element.
func (p *Parser) items(op string, n catalog.Node, key string) []catalog.Node {
	out, dropped := catalog.SplitNodes(n, key)
	if dropped > 0 {
		p.log.Warn("skipping non-element items",
			slog.String("operation", op),
			slog.String("element", key),
			slog.Int("skipped", dropped))
	}
	return out
}

// ParseSearch reads a /search response.
func (p *Parser) ParseSearch(root catalog.Node) []models.GameRecord {
	const op = "bgg.parse.ParseSearch"

	items := p.items(op, catalog.Child(root, "items"), "item")
	out := make([]models.GameRecord, 0, len(items))

	for _, item := range items {
		g, err := parseSearchItem(item)
		if err != nil {
			p.skip(op, err)
			continue
		}
		out = append(out, g)
	}

	return out
}

func parseSearchItem(item catalog.Node) (models.GameRecord, error) {
	id, err := catalog.ID(catalog.Attr(item, "id"))
	if err != nil {
		return models.GameRecord{}, err
	}

	name := catalog.AttrString(primaryName(item), "value")
	if name == "" {
		name = "Unknown"
	}

	return models.GameRecord{
		ID:            id,
		Platform:      models.PlatformBGG,
		Name:          name,
		YearPublished: catalog.SafeInt(catalog.Value(item, "yearpublished")),
	}, nil
}

// primaryName picks the name element typed "primary", else the first name.
func primaryName(item catalog.Node) catalog.Node {
	names := catalog.Nodes(item, "name")
	for _, n := range names {
		if catalog.AttrString(n, "type") == "primary" {
			return n
		}
	}
	if len(names) > 0 {
		return names[0]
	}
	return nil
}

// ParseThings reads a /thing response.
func (p *Parser) ParseThings(root catalog.Node) []models.GameRecord {
	const op = "bgg.parse.ParseThings"

	items := p.items(op, catalog.Child(root, "items"), "item")
	out := make([]models.GameRecord, 0, len(items))

	for _, item := range items {
		g, err := ParseThing(item)
		if err != nil {
			p.skip(op, err)
			continue
		}
		out = append(out, g)
	}

	return out
}

// ParseThing maps one thing item.
func ParseThing(item catalog.Node) (models.GameRecord, error) {
	id, err := catalog.ID(catalog.Attr(item, "id"))
	if err != nil {
		return models.GameRecord{}, err
	}

	name := catalog.AttrString(primaryName(item), "value")
	if name == "" {
		name = "Unknown Game"
	}

	ratings := catalog.Child(catalog.Child(item, "statistics"), "ratings")

	g := models.GameRecord{
		ID:               id,
		Platform:         models.PlatformBGG,
		Name:             name,
		YearPublished:    catalog.SafeInt(catalog.Value(item, "yearpublished")),
		Description:      catalog.Truncate(catalog.CleanHTML(catalog.Text(item["description"])), descriptionLimit),
		ImageURL:         catalog.OptionalText(item["image"]),
		ThumbnailURL:     catalog.OptionalText(item["thumbnail"]),
		PlayingTime:      catalog.SafeInt(catalog.Value(item, "playingtime")),
		MinPlaytime:      catalog.SafeInt(catalog.Value(item, "minplaytime")),
		MaxPlaytime:      catalog.SafeInt(catalog.Value(item, "maxplaytime")),
		MinAge:           catalog.SafeInt(catalog.Value(item, "minage")),
		Rating:           catalog.SafeFloat(catalog.Value(ratings, "average")),
		RatingCount:      catalog.SafeInt(catalog.Value(ratings, "usersrated")),
		Weight:           catalog.SafeFloat(catalog.Value(ratings, "averageweight")),
		SuggestedPlayers: catalog.AggregateSuggestedPlayers(playerCountPolls(item)),
	}
	g.MinPlayers, g.MaxPlayers = playerRange(
		catalog.SafeInt(catalog.Value(item, "minplayers")),
		catalog.SafeInt(catalog.Value(item, "maxplayers")),
	)

	return g, nil
}

// playerRange treats a zero count as unreported and orders the pair.
func playerRange(lo, hi *int) (*int, *int) {
	if lo != nil && *lo <= 0 {
		lo = nil
	}
	if hi != nil && *hi <= 0 {
		hi = nil
	}
	if lo != nil && hi != nil && *lo > *hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

func playerCountPolls(item catalog.Node) []catalog.PlayerCountPoll {
	var polls []catalog.PlayerCountPoll

	for _, poll := range catalog.Nodes(item, "poll") {
		if catalog.AttrString(poll, "name") != "suggested_numplayers" {
			continue
		}

		for _, res := range catalog.Nodes(poll, "results") {
			numPlayers := catalog.AttrString(res, "numplayers")
			if numPlayers == "" {
				continue
			}

			results := catalog.Nodes(res, "result")
			votes := make([]catalog.Vote, 0, len(results))
			for _, v := range results {
				n := 0
				if c := catalog.SafeInt(catalog.Attr(v, "numvotes")); c != nil {
					n = *c
				}
				votes = append(votes, catalog.Vote{
					Value:    models.Recommendation(catalog.AttrString(v, "value")),
					NumVotes: n,
				})
			}

			polls = append(polls, catalog.PlayerCountPoll{NumPlayers: numPlayers, Votes: votes})
		}
	}

	return polls
}

// ParseCollection reads a /collection response, keeping entries that carry
// at least one of the requested statuses. An empty filter keeps everything.
func (p *Parser) ParseCollection(root catalog.Node, filters []models.CollectionStatus) []models.CollectionEntry {
	const op = "bgg.parse.ParseCollection"

	items := p.items(op, catalog.Child(root, "items"), "item")
	out := make([]models.CollectionEntry, 0, len(items))

	for _, item := range items {
		e, err := parseCollectionItem(item)
		if err != nil {
			p.log.Debug("dropping collection item",
				slog.String("operation", op),
				slog.String("error", err.Error()))
			continue
		}
		if !matchesAny(e, filters) {
			continue
		}
		out = append(out, e)
	}

	return out
}

func matchesAny(e models.CollectionEntry, filters []models.CollectionStatus) bool {
	if len(filters) == 0 {
		return true
	}
	for _, f := range filters {
		if e.Has(f) {
			return true
		}
	}
	return false
}

func parseCollectionItem(item catalog.Node) (models.CollectionEntry, error) {
	id, err := catalog.ID(catalog.Attr(item, "objectid"))
	if err != nil {
		return models.CollectionEntry{}, err
	}

	name := catalog.Text(item["name"])
	if name == "" {
		name = "Unknown"
	}

	status := catalog.Child(item, "status")

	return models.CollectionEntry{
		GameID:        id,
		Name:          name,
		YearPublished: catalog.SafeInt(catalog.Text(item["yearpublished"])),
		ThumbnailURL:  catalog.OptionalText(item["thumbnail"]),
		Owned:         catalog.AttrFlag(status, "own"),
		Wishlist:      catalog.AttrFlag(status, "wishlist"),
		ForTrade:      catalog.AttrFlag(status, "fortrade"),
		Want:          catalog.AttrFlag(status, "want"),
		Rating:        catalog.SafeFloat(catalog.Value(catalog.Child(item, "stats"), "rating")),
	}, nil
}

// ParsePlays reads a /plays response. Total is the declared total, not the
// number of plays on this page.
func (p *Parser) ParsePlays(root catalog.Node, page int) models.PlaysPage {
	const op = "bgg.parse.ParsePlays"

	plays := catalog.Child(root, "plays")
	out := models.PlaysPage{Page: page}
	if plays == nil {
		return out
	}

	if total := catalog.SafeInt(catalog.Attr(plays, "total")); total != nil {
		out.Total = *total
	}

	items := p.items(op, plays, "play")
	out.Plays = make([]models.PlayRecord, 0, len(items))
	for _, item := range items {
		rec, err := p.parsePlay(item)
		if err != nil {
			p.skip(op, err)
			continue
		}
		out.Plays = append(out.Plays, rec)
	}

	return out
}

func (p *Parser) parsePlay(item catalog.Node) (models.PlayRecord, error) {
	const op = "bgg.parse.parsePlay"

	id, err := catalog.ID(catalog.Attr(item, "id"))
	if err != nil {
		return models.PlayRecord{}, err
	}

	rec := models.PlayRecord{
		PlayID:     id,
		Date:       catalog.AttrString(item, "date"),
		Quantity:   1,
		Incomplete: catalog.AttrFlag(item, "incomplete"),
		Location:   catalog.OptionalText(catalog.Attr(item, "location")),
		GameName:   "Unknown",
		Comments:   catalog.OptionalText(item["comments"]),
	}
	if q := catalog.SafeInt(catalog.Attr(item, "quantity")); q != nil {
		rec.Quantity = *q
	}
	if l := catalog.SafeInt(catalog.Attr(item, "length")); l != nil && *l > 0 {
		rec.DurationMinutes = *l
	}

	if game := catalog.Child(item, "item"); game != nil {
		if gid := catalog.SafeInt(catalog.Attr(game, "objectid")); gid != nil {
			rec.GameID = int64(*gid)
		}
		if n := catalog.AttrString(game, "name"); n != "" {
			rec.GameName = n
		}
	}

	raw := catalog.EnsureList[any](catalog.Child(item, "players")["player"])
	rec.Players = make([]models.Player, 0, len(raw))
	for i, v := range raw {
		pl, err := parsePlayer(v)
		if err != nil {
			p.log.Warn("dropping player",
				slog.String("operation", op),
				slog.Int64("play_id", id),
				slog.Int("index", i),
				slog.String("error", err.Error()))
			continue
		}
		rec.Players = append(rec.Players, pl)
	}

	return rec, nil
}

func parsePlayer(v any) (models.Player, error) {
	n, ok := v.(catalog.Node)
	if !ok {
		return models.Player{}, fmt.Errorf("%w: player is %T", catalog.ErrMalformedItem, v)
	}

	name := catalog.AttrString(n, "name")
	if name == "" {
		name = "Unknown"
	}

	return models.Player{
		Name:     name,
		Score:    catalog.OptionalText(catalog.Attr(n, "score")),
		IsNew:    catalog.AttrFlag(n, "new"),
		IsWinner: catalog.AttrFlag(n, "win"),
	}, nil
}
