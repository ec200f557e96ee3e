package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/2mOlaf/gamer-gambit/internal/models"
	"github.com/2mOlaf/gamer-gambit/internal/services"
	"github.com/2mOlaf/gamer-gambit/internal/storage"

	"github.com/bwmarrin/discordgo"
)

type Assignments interface {
	Hit(userID, username string) (*models.ItchGame, error)
	Status(userID, username string) ([]services.GameStatus, error)
	MyStats(userID, username string) (services.UserStats, error)
	GameInfo() (models.GameStats, error)
	CompleteReview(gameID int64, userID, username, reviewURL string) (*models.ItchGame, error)
}

// Jarvfjallet hands out itch.io games for review and tracks progress.
type Jarvfjallet struct {
	assignments Assignments
}

func NewJarvfjallet(assignments Assignments) *Jarvfjallet {
	return &Jarvfjallet{assignments: assignments}
}

func (j *Jarvfjallet) Commands() []Command {
	minID := 1.0

	return []Command{
		{
			Definition: &discordgo.ApplicationCommand{
				Name:        "hit",
				Description: "Get a random unassigned game from itch.io",
			},
			Handle: j.hit,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:        "status",
				Description: "Check your assigned games and their status",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "user",
						Description: "Check another user's status (optional)",
					},
				},
			},
			Handle: j.status,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:        "mystats",
				Description: "Get detailed statistics about your assigned games",
			},
			Handle: j.myStats,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:        "gameinfo",
				Description: "Get information about the game database",
			},
			Handle: j.gameInfo,
		},
		{
			Definition: &discordgo.ApplicationCommand{
				Name:        "review",
				Description: "Submit the review link for a game assigned to you",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "game_id",
						Description: "Game ID from the assignment",
						Required:    true,
						MinValue:    &minID,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "url",
						Description: "Link to your published review",
						Required:    true,
					},
				},
			},
			Handle: j.review,
		},
	}
}

func (j *Jarvfjallet) Components() map[string]HandlerFunc {
	return nil
}

func (j *Jarvfjallet) hit(_ context.Context, req *Request) (*Response, error) {
	const op = "bot.jarvfjallet.hit"

	g, err := j.assignments.Hit(req.Caller.ID, req.Caller.Username)
	switch {
	case errors.Is(err, services.ErrNoGamesLeft):
		return embedReply(NoGamesEmbed()), nil
	case errors.Is(err, services.ErrAssignmentRaced):
		return embedReply(AssignmentFailedEmbed()), nil
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := embedReply(HitEmbed(g, req.Caller.DisplayName))
	resp.DirectMessage = HitDirectEmbed(g)

	return resp, nil
}

func (j *Jarvfjallet) status(_ context.Context, req *Request) (*Response, error) {
	const op = "bot.jarvfjallet.status"

	who := req.User("user")
	games, err := j.assignments.Status(who.ID, who.Username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return embedReply(StatusEmbed(who.DisplayName, games)), nil
}

func (j *Jarvfjallet) myStats(_ context.Context, req *Request) (*Response, error) {
	const op = "bot.jarvfjallet.myStats"

	st, err := j.assignments.MyStats(req.Caller.ID, req.Caller.Username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return embedReply(MyStatsEmbed(req.Caller, st)), nil
}

func (j *Jarvfjallet) gameInfo(_ context.Context, req *Request) (*Response, error) {
	const op = "bot.jarvfjallet.gameInfo"

	st, err := j.assignments.GameInfo()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return embedReply(GameInfoEmbed(st)), nil
}

func (j *Jarvfjallet) review(_ context.Context, req *Request) (*Response, error) {
	const op = "bot.jarvfjallet.review"

	gameID := int64(req.Int("game_id", 0))
	reviewURL := strings.TrimSpace(req.String("url", ""))

	g, err := j.assignments.CompleteReview(gameID, req.Caller.ID, req.Caller.Username, reviewURL)
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return &Response{Content: "❌ Please provide a valid http(s) link to your review.", Ephemeral: true}, nil
	case errors.Is(err, storage.ErrNotFound):
		return reply(fmt.Sprintf("❌ No game with ID %d.", gameID)), nil
	case errors.Is(err, storage.ErrNotReviewer):
		return reply(fmt.Sprintf("❌ Game %d is not assigned to you.", gameID)), nil
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return embedReply(ReviewedEmbed(g)), nil
}
