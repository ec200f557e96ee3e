package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/2mOlaf/gamer-gambit/internal/models"
	"github.com/2mOlaf/gamer-gambit/internal/search"
	"github.com/2mOlaf/gamer-gambit/internal/services"
	"github.com/2mOlaf/gamer-gambit/internal/storage"

	"github.com/bwmarrin/discordgo"
)

const gameSelectPrefix = "kallax:game"

// popularGameIDs feeds /gg-random.
var popularGameIDs = []int64{
	174430, // Gloomhaven
	12333,  // Twilight Struggle
	233078, // Twilight Imperium 4
	167791, // Terraforming Mars
	220308, // Gaia Project
	161936, // Pandemic Legacy: Season 1
	182028, // Through the Ages: A New Story
	187645, // Star Wars: Rebellion
	115746, // War of the Ring (second edition)
	36218,  // Dominant Species
}

type GameSearcher interface {
	Search(ctx context.Context, query string, catalog models.Catalog, opts search.Options) ([]models.SearchResult, error)
}

type Profiles interface {
	SetPlatform(ctx context.Context, req services.SetPlatformRequest) (*models.UserProfile, error)
	SetWeeklyStats(req services.WeeklyStatsRequest) (*models.UserProfile, error)
	Get(discordID string) (*models.UserProfile, error)
	BGGUsername(discordID, explicit string) (string, error)
}

type GameCatalog interface {
	GameDetails(ctx context.Context, id int64) (*models.GameRecord, error)
	Collection(ctx context.Context, username string, filter models.CollectionStatus) ([]models.CollectionEntry, error)
}

type Plays interface {
	Recent(ctx context.Context, ownerID, username string, limit int) (services.RecentPlays, error)
}

// Kallax serves board and video game lookups, profiles and plays.
type Kallax struct {
	search   GameSearcher
	profiles Profiles
	catalog  GameCatalog
	plays    Plays
	pick     func(n int) int
}

func NewKallax(searcher GameSearcher, profiles Profiles, catalog GameCatalog, plays Plays) *Kallax {
	return &Kallax{
		search:   searcher,
		profiles: profiles,
		catalog:  catalog,
		plays:    plays,
		pick:     rand.IntN,
	}
}

func (k *Kallax) Commands() []Command {
	minLimit := 1.0
	minPage := 1.0

	catalogChoices := []*discordgo.ApplicationCommandOptionChoice{
		{Name: "BoardGameGeek", Value: string(models.CatalogBGG)},
		{Name: "Steam", Value: string(models.CatalogSteam)},
		{Name: "Xbox", Value: string(models.CatalogXbox)},
		{Name: "All platforms", Value: string(models.CatalogAll)},
	}

	return []Command{
		{
			Definition: &discordgo.ApplicationCommand{
				Name:        "gg-search",
				Description: "Search for games on BoardGameGeek, Steam or Xbox",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "query",
						Description: "Name of the game to search for",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "catalog",
						Description: "Where to search (defaults to BoardGameGeek)",
						Choices:     catalogChoices,
					},
				},
			},
			Handle: k.searchGames,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:        "gg-random",
				Description: "Get a random popular board game",
			},
			Handle: k.randomGame,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:        "gg-profile",
				Description: "Show your gaming profile",
			},
			Handle: k.showOwnProfile,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:        "gg-profile-set",
				Description: "Set your profile information for gaming platforms",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "platform",
						Description: "Gaming platform (bgg, steam, xbox)",
						Required:    true,
						Choices:     catalogChoices[:3],
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "username",
						Description: "Your username on that platform",
						Required:    true,
					},
				},
			},
			Handle: k.setProfile,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:        "gg-profile-show",
				Description: "Show a user's gaming profile",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "user",
						Description: "User whose profile to show (defaults to you)",
					},
				},
			},
			Handle: k.showProfile,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:        "gg-collection",
				Description: "Show BGG collection for a user",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "username",
						Description: "BGG username (defaults to your profile)",
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "collection_type",
						Description: "Type of collection to show",
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "Owned Games", Value: string(models.StatusOwn)},
							{Name: "Wishlist", Value: string(models.StatusWishlist)},
							{Name: "For Trade", Value: string(models.StatusForTrade)},
							{Name: "Want to Buy", Value: string(models.StatusWant)},
						},
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "page",
						Description: "Page to show",
						MinValue:    &minPage,
					},
				},
			},
			Handle: k.showCollection,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:        "gg-plays",
				Description: "Show recent game plays from BGG",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "username",
						Description: "BGG username (defaults to your profile)",
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "limit",
						Description: "Number of recent plays to show (1-50)",
						MinValue:    &minLimit,
						MaxValue:    services.MaxPlaysLimit,
					},
				},
			},
			Handle: k.showPlays,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:        "gg-weekly",
				Description: "Turn your weekly plays digest on or off",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "enabled",
						Description: "Post a weekly digest of your BGG plays",
						Required:    true,
					},
					{
						Type:         discordgo.ApplicationCommandOptionChannel,
						Name:         "channel",
						Description:  "Channel for the digest (defaults to this one)",
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
					},
				},
			},
			Handle: k.setWeekly,
		},
	}
}

func (k *Kallax) Components() map[string]HandlerFunc {
	return map[string]HandlerFunc{gameSelectPrefix: k.selectGame}
}

func (k *Kallax) searchGames(ctx context.Context, req *Request) (*Response, error) {
	const op = "bot.kallax.searchGames"

	query := strings.TrimSpace(req.String("query", ""))
	cat := models.Catalog(req.String("catalog", string(models.CatalogBGG)))

	var opts search.Options
	if cat == models.CatalogXbox || cat == models.CatalogAll {
		p, err := k.profiles.Get(req.Caller.ID)
		if err != nil {
			req.Log.Warn("could not load profile for gamertag",
				slog.String("operation", op),
				slog.String("error", err.Error()))
		} else if p.XboxGamertag != nil {
			opts.Gamertag = *p.XboxGamertag
		}
	}

	results, err := k.search.Search(ctx, query, cat, opts)
	switch {
	case errors.Is(err, search.ErrQueryTooShort):
		return reply("❌ Please provide a game name to search for (at least 2 characters)"), nil
	case errors.Is(err, search.ErrNoGamertag):
		return reply("❌ Set your Xbox gamertag with `/gg-profile-set` to search Xbox titles"), nil
	case errors.Is(err, search.ErrNoSearcher):
		return reply("❌ That catalog is not available right now"), nil
	case errors.Is(err, search.ErrInvalidCatalog):
		return reply("❌ Unknown catalog"), nil
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(results) == 0 {
		return reply(fmt.Sprintf("❌ No games found matching '%s'", query)), nil
	}

	if len(results) == 1 && results[0].Platform == models.PlatformBGG {
		return k.gameDetails(ctx, results[0].ID)
	}

	return &Response{
		Embeds:     []*discordgo.MessageEmbed{SearchResultsEmbed(query, results)},
		Components: GameSelectMenu(results),
	}, nil
}

func (k *Kallax) selectGame(ctx context.Context, req *Request) (*Response, error) {
	if len(req.Values) == 0 {
		return reply("❌ No game selected."), nil
	}
	id, err := strconv.ParseInt(req.Values[0], 10, 64)
	if err != nil {
		return reply("❌ No game selected."), nil
	}
	return k.gameDetails(ctx, id)
}

func (k *Kallax) randomGame(ctx context.Context, _ *Request) (*Response, error) {
	return k.gameDetails(ctx, popularGameIDs[k.pick(len(popularGameIDs))])
}

func (k *Kallax) gameDetails(ctx context.Context, id int64) (*Response, error) {
	const op = "bot.kallax.gameDetails"

	g, err := k.catalog.GameDetails(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return reply("❌ Could not retrieve game details."), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return embedReply(GameEmbed(g)), nil
}

func (k *Kallax) showOwnProfile(_ context.Context, req *Request) (*Response, error) {
	return k.profileFor(req, req.Caller)
}

func (k *Kallax) showProfile(_ context.Context, req *Request) (*Response, error) {
	return k.profileFor(req, req.User("user"))
}

func (k *Kallax) profileFor(req *Request, who User) (*Response, error) {
	const op = "bot.kallax.profileFor"

	p, err := k.profiles.Get(who.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Profiles that were never stored come back without timestamps.
	if p.CreatedAt.IsZero() {
		if who.ID == req.Caller.ID {
			return reply("❌ You don't have a profile yet. Use `/gg-profile-set` to get started!"), nil
		}
		return reply(fmt.Sprintf("❌ %s doesn't have a profile set up yet.", who.DisplayName)), nil
	}

	return embedReply(ProfileEmbed(p, who)), nil
}

func (k *Kallax) setProfile(ctx context.Context, req *Request) (*Response, error) {
	const op = "bot.kallax.setProfile"

	platform := strings.ToLower(req.String("platform", ""))
	username := strings.TrimSpace(req.String("username", ""))

	_, err := k.profiles.SetPlatform(ctx, services.SetPlatformRequest{
		DiscordID: req.Caller.ID,
		Platform:  platform,
		Username:  username,
	})
	switch {
	case errors.Is(err, services.ErrUnknownBGGUser):
		return reply(fmt.Sprintf("❌ Could not find BGG user '%s'. Please check the username and try again.", username)), nil
	case errors.Is(err, services.ErrInvalidInput):
		return reply("❌ Please provide a valid platform (bgg, steam, xbox) and a username of at most 64 characters"), nil
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req.Log.Info("profile set",
		slog.String("operation", op),
		slog.String("platform", platform))

	return reply(fmt.Sprintf("✅ %s profile set to: **%s**", strings.ToUpper(platform), username)), nil
}

// bggUser resolves the username option against the caller's profile. The
// returned owner is the caller's id when the caller's own account is used.
func (k *Kallax) bggUser(req *Request) (username, owner string, resp *Response, err error) {
	explicit := strings.TrimSpace(req.String("username", ""))

	username, err = k.profiles.BGGUsername(req.Caller.ID, explicit)
	if errors.Is(err, services.ErrNoProfile) {
		return "", "", reply("❌ Please specify a BGG username or set your profile with `/gg-profile-set`"), nil
	}
	if err != nil {
		return "", "", nil, err
	}

	if explicit == "" {
		owner = req.Caller.ID
	}
	return username, owner, nil, nil
}

func (k *Kallax) showCollection(ctx context.Context, req *Request) (*Response, error) {
	const op = "bot.kallax.showCollection"

	username, _, resp, err := k.bggUser(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp != nil {
		return resp, nil
	}

	status := models.CollectionStatus(strings.ToLower(req.String("collection_type", string(models.StatusOwn))))
	if !status.Valid() {
		status = models.StatusOwn
	}

	entries, err := k.catalog.Collection(ctx, username, status)
	if err != nil {
		req.Log.Warn("could not fetch collection",
			slog.String("operation", op),
			slog.String("username", username),
			slog.String("error", err.Error()))
		return reply(fmt.Sprintf("❌ Could not retrieve collection for user '%s'. Please check the username.", username)), nil
	}
	if len(entries) == 0 {
		return reply(fmt.Sprintf("❌ No games found in %s's %s collection", username, status.Title())), nil
	}

	return embedReply(CollectionEmbed(username, status, entries, req.Int("page", 1))), nil
}

func (k *Kallax) showPlays(ctx context.Context, req *Request) (*Response, error) {
	const op = "bot.kallax.showPlays"

	username, owner, resp, err := k.bggUser(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp != nil {
		return resp, nil
	}

	recent, err := k.plays.Recent(ctx, owner, username, req.Int("limit", services.DefaultPlaysLimit))
	if err != nil {
		req.Log.Warn("could not fetch plays",
			slog.String("operation", op),
			slog.String("username", username),
			slog.String("error", err.Error()))
		return reply(fmt.Sprintf("❌ Could not retrieve plays for user '%s'. Please check the username.", username)), nil
	}
	if len(recent.Plays) == 0 {
		return reply(fmt.Sprintf("❌ No recent plays found for user '%s'", username)), nil
	}

	return embedReply(PlaysEmbed(username, recent)), nil
}

func (k *Kallax) setWeekly(_ context.Context, req *Request) (*Response, error) {
	const op = "bot.kallax.setWeekly"

	enabled := req.Bool("enabled", false)
	channel := req.String("channel", req.ChannelID)

	_, err := k.profiles.SetWeeklyStats(services.WeeklyStatsRequest{
		DiscordID: req.Caller.ID,
		Enabled:   enabled,
		ChannelID: channel,
	})
	if errors.Is(err, services.ErrInvalidInput) {
		return reply("❌ Weekly stats need a text channel to post in"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !enabled {
		return reply("✅ Weekly stats disabled"), nil
	}
	return reply(fmt.Sprintf("✅ Weekly stats enabled in <#%s>. Make sure your BGG username is set with `/gg-profile-set`.", channel)), nil
}
