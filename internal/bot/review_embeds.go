package bot

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/2mOlaf/gamer-gambit/internal/catalog"
	"github.com/2mOlaf/gamer-gambit/internal/models"
	"github.com/2mOlaf/gamer-gambit/internal/services"

	"github.com/bwmarrin/discordgo"
)

const defaultHost = "itch.io"

var stateEmoji = map[services.ReviewState]string{
	services.StateActive:  "▶️",
	services.StateWaiting: "⏸",
	services.StateDone:    "⏹",
	services.StateUnknown: "❓",
}

func deref(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}

func platformList(g *models.ItchGame) []string {
	var out []string
	if g.Windows {
		out = append(out, "🪟 Windows")
	}
	if g.Mac {
		out = append(out, "🍎 macOS")
	}
	if g.Linux {
		out = append(out, "🐧 Linux")
	}
	return out
}

func NoGamesEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎮 No Games Available",
		Description: "Sorry, there are no unassigned games available at the moment!",
		Color:       colorOrange,
	}
}

func AssignmentFailedEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "❌ Assignment Failed",
		Description: "Failed to assign the game. Please try again.",
		Color:       colorRed,
	}
}

func HitEmbed(g *models.ItchGame, assignee string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🎯 Game Assigned: " + g.GameName,
		Description: deref(g.ShortText, "No description available"),
		URL:         g.GameURL,
		Color:       colorGreen,
	}

	if g.DevName != nil && *g.DevName != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Developer", Value: *g.DevName, Inline: true})
	}
	if p := platformList(g); len(p) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Platforms", Value: strings.Join(p, "\n"), Inline: true})
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Host", Value: deref(g.GameHost, defaultHost), Inline: true})

	if g.ThumbURL != nil && *g.ThumbURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: *g.ThumbURL}
	}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Game ID: %d • Assigned to %s", g.ID, assignee)}

	return embed
}

func HitDirectEmbed(g *models.ItchGame) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "📧 You've been assigned: " + g.GameName,
		Description: "Check it out: " + g.GameURL,
		Color:       colorBlue,
	}
}

// StatusEmbed lists a user's games under the status legend. Lists that
// overflow the embed description are cut with a note.
func StatusEmbed(who string, games []services.GameStatus) *discordgo.MessageEmbed {
	if len(games) == 0 {
		return &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("📋 %s's Games", who),
			Description: "No assigned games found.",
			Color:       colorLightGray,
		}
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📋 %s's Assigned Games", who),
		Color: colorBlue,
	}

	lines := []string{fmt.Sprintf("%s **Active**; %s **Waiting**; %s **Done**\n",
		stateEmoji[services.StateActive], stateEmoji[services.StateWaiting], stateEmoji[services.StateDone])}
	for _, gs := range games {
		lines = append(lines, fmt.Sprintf("%s [%s](%s) by %s",
			stateEmoji[gs.State], gs.Game.GameName, gs.Game.GameURL, deref(gs.Game.DevName, "Unknown")))
	}

	desc := strings.Join(lines, "\n")
	if utf8.RuneCountInString(desc) > maxEmbedDesc {
		embed.Description = catalog.Ellipsize(desc, maxEmbedDesc)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Note",
			Value: "List truncated due to length. Use `/mystats` for full details.",
		})
	} else {
		embed.Description = desc
	}

	embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Total games: %d", len(games))}

	return embed
}

func MyStatsEmbed(who User, st services.UserStats) *discordgo.MessageEmbed {
	if st.Total == 0 {
		return &discordgo.MessageEmbed{
			Title:       "📊 Your Game Statistics",
			Description: "You haven't been assigned any games yet! Use `/hit` to get started.",
			Color:       colorLightGray,
		}
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📊 %s's Game Statistics", who.DisplayName),
		Color: colorPurple,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "📈 Overview",
				Value:  fmt.Sprintf("**Total Games:** %d\n**Completed:** %d\n**Pending:** %d", st.Total, st.Completed, st.Pending),
				Inline: true,
			},
			{
				Name:   "💻 Platforms",
				Value:  fmt.Sprintf("🪟 Windows: %d\n🍎 macOS: %d\n🐧 Linux: %d", st.Windows, st.Mac, st.Linux),
				Inline: true,
			},
			{
				Name:   "🎯 Completion Rate",
				Value:  fmt.Sprintf("%.1f%%", st.CompletionRate),
				Inline: true,
			},
		},
	}

	recent := make([]string, 0, len(st.Recent))
	for i := range st.Recent {
		g := &st.Recent[i]
		mark := "⏳"
		if g.Reviewed() {
			mark = "✅"
		}
		recent = append(recent, fmt.Sprintf("%s [%s](%s)", mark, g.GameName, g.GameURL))
	}
	if len(recent) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "🕐 Recent Games", Value: strings.Join(recent, "\n")})
	}

	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Keep up the great work! • User ID: " + who.ID}

	return embed
}

func GameInfoEmbed(st models.GameStats) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🎮 Game Database Information",
		Color: colorGold,
		Fields: []*discordgo.MessageEmbedField{{
			Name: "📊 Database Stats",
			Value: fmt.Sprintf("**Total Games:** %d\n**Available:** %d\n**Assigned:** %d\n**Completed:** %d",
				st.Total, st.Unassigned, st.Assigned, st.Completed),
			Inline: true,
		}},
	}

	if st.Total > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "📈 Percentages",
			Value: fmt.Sprintf("**Available:** %.1f%%\n**Assigned:** %.1f%%\n**Completed:** %.1f%%",
				st.AvailablePct(), st.AssignedPct(), st.CompletedPct()),
			Inline: true,
		})
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "🎯 How to Play",
		Value: "• Use `/hit` to get a random game\n" +
			"• Use `/status` to see your games\n" +
			"• Use `/mystats` for detailed stats\n" +
			"• Use `/review` once your review is up\n" +
			"• Complete reviews to help the community!",
	})
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Games sourced from itch.io • Bot by 2mOlaf"}

	return embed
}

func ReviewedEmbed(g *models.ItchGame) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "✅ Review Recorded: " + g.GameName,
		Description: fmt.Sprintf("Thanks for reviewing [%s](%s)!", g.GameName, g.GameURL),
		URL:         deref(g.ReviewURL, ""),
		Color:       colorGreen,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Game ID: %d", g.ID)},
	}
}
