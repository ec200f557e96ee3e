package bot

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/2mOlaf/gamer-gambit/internal/catalog"
	"github.com/2mOlaf/gamer-gambit/internal/clients/bgg"
	"github.com/2mOlaf/gamer-gambit/internal/models"
	"github.com/2mOlaf/gamer-gambit/internal/services"

	"github.com/bwmarrin/discordgo"
)

const (
	colorBlue      = 0x3498db
	colorGreen     = 0x2ecc71
	colorPurple    = 0x9b59b6
	colorRed       = 0xe74c3c
	colorOrange    = 0xe67e22
	colorGold      = 0xf1c40f
	colorLightGray = 0x979c9f
)

const (
	bggIconURL = "https://cf.geekdo-static.com/images/logos/navbar-logo-bgg-b2.svg"

	CollectionPageSize = 15
	maxPlayFields      = 10
	maxListedPlayers   = 4
	maxCommentLength   = 100
	maxDescription     = 300
	maxEmbedDesc       = 4096
	maxSelectOptions   = 25
)

var numberEmojis = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}

func ErrorEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "❌ Error",
		Description: "An unexpected error occurred. Please try again.",
		Color:       colorRed,
	}
}

func platformLabel(p models.Platform) string {
	switch p {
	case models.PlatformBGG:
		return "BoardGameGeek"
	case models.PlatformSteam:
		return "Steam"
	case models.PlatformXbox:
		return "Xbox"
	}
	return string(p)
}

func yearSuffix(y *int) string {
	if y == nil {
		return ""
	}
	return fmt.Sprintf(" (%d)", *y)
}

func SearchResultsEmbed(query string, results []models.SearchResult) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🎲 Search Results for '%s'", query),
		Description: "Pick a board game from the menu below to see detailed information.",
		Color:       colorBlue,
	}

	for i, r := range results[:min(len(results), len(numberEmojis))] {
		value := platformLabel(r.Platform)
		if r.URL != "" {
			value = fmt.Sprintf("[%s](%s)", value, r.URL)
		}
		if r.Rating != nil {
			value += fmt.Sprintf(" • ⭐ %.1f", *r.Rating)
		}
		if r.TopPick {
			value += " • 🏅 Top pick"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s %s%s", numberEmojis[i], r.Name, yearSuffix(r.YearPublished)),
			Value: value,
		})
	}

	embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%d results", len(results))}

	return embed
}

// GameSelectMenu lists the BoardGameGeek results, the only ones with a
// details view. It returns nil when there are none.
func GameSelectMenu(results []models.SearchResult) []discordgo.MessageComponent {
	var options []discordgo.SelectMenuOption
	for _, r := range results {
		if r.Platform != models.PlatformBGG {
			continue
		}
		options = append(options, discordgo.SelectMenuOption{
			Label:       catalog.Ellipsize(r.Name+yearSuffix(r.YearPublished), 100),
			Value:       strconv.FormatInt(r.ID, 10),
			Description: fmt.Sprintf("BGG ID: %d", r.ID),
		})
		if len(options) == maxSelectOptions {
			break
		}
	}
	if len(options) == 0 {
		return nil
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					MenuType:    discordgo.StringSelectMenu,
					CustomID:    gameSelectPrefix,
					Placeholder: "Choose a game",
					Options:     options,
				},
			},
		},
	}
}

func WeightLabel(weight float64) string {
	switch {
	case weight < 1.5:
		return "Light"
	case weight < 2.5:
		return "Light-Medium"
	case weight < 3.5:
		return "Medium"
	case weight < 4.5:
		return "Medium-Heavy"
	}
	return "Heavy"
}

// playerCounts orders poll keys numerically, with "N+" after N.
func playerCounts(suggested map[string]models.Recommendation) []string {
	keys := make([]string, 0, len(suggested))
	for k := range suggested {
		keys = append(keys, k)
	}
	rank := func(k string) float64 {
		plus := strings.HasSuffix(k, "+")
		n, err := strconv.Atoi(strings.TrimSuffix(k, "+"))
		if err != nil {
			return 1 << 20
		}
		if plus {
			return float64(n) + 0.5
		}
		return float64(n)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return rank(keys[i]) < rank(keys[j])
	})
	return keys
}

func GameEmbed(g *models.GameRecord) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: g.Name,
		URL:   bgg.GameURL(g.ID, g.Name),
		Color: colorGreen,
	}
	if g.ThumbnailURL != nil {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: *g.ThumbnailURL}
	}
	if g.ImageURL != nil {
		embed.Image = &discordgo.MessageEmbedImage{URL: *g.ImageURL}
	}

	var info []string
	if g.YearPublished != nil {
		info = append(info, fmt.Sprintf("**Year:** %d", *g.YearPublished))
	}
	if g.MinPlayers != nil && g.MaxPlayers != nil {
		if *g.MinPlayers == *g.MaxPlayers {
			info = append(info, fmt.Sprintf("**Players:** %d", *g.MinPlayers))
		} else {
			info = append(info, fmt.Sprintf("**Players:** %d - %d", *g.MinPlayers, *g.MaxPlayers))
		}
	}
	switch {
	case g.PlayingTime != nil && *g.PlayingTime > 0:
		info = append(info, fmt.Sprintf("**Play Time:** %d min", *g.PlayingTime))
	case g.MinPlaytime != nil && g.MaxPlaytime != nil:
		info = append(info, fmt.Sprintf("**Play Time:** %d - %d min", *g.MinPlaytime, *g.MaxPlaytime))
	}
	if g.MinAge != nil && *g.MinAge > 0 {
		info = append(info, fmt.Sprintf("**Min Age:** %d+", *g.MinAge))
	}
	if len(info) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "📋 Game Info", Value: strings.Join(info, "\n"), Inline: true,
		})
	}

	var ratings []string
	if g.Rating != nil && *g.Rating > 0 {
		ratings = append(ratings, fmt.Sprintf("**BGG Rating:** %.1f/10", *g.Rating))
	}
	if g.RatingCount != nil && *g.RatingCount > 0 {
		ratings = append(ratings, fmt.Sprintf("**Ratings:** %s", thousands(*g.RatingCount)))
	}
	if g.Weight != nil && *g.Weight > 0 {
		ratings = append(ratings, fmt.Sprintf("**Complexity:** %.1f/5 (%s)", *g.Weight, WeightLabel(*g.Weight)))
	}
	if len(ratings) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "⭐ Ratings", Value: strings.Join(ratings, "\n"), Inline: true,
		})
	}

	var recs []string
	for _, k := range playerCounts(g.SuggestedPlayers) {
		switch g.SuggestedPlayers[k] {
		case models.Best:
			recs = append(recs, fmt.Sprintf("**%s:** 🌟 %s", k, models.Best))
		case models.Recommended:
			recs = append(recs, fmt.Sprintf("**%s:** ✅ %s", k, models.Recommended))
		}
	}
	if len(recs) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "👥 Best Player Counts", Value: strings.Join(recs[:min(len(recs), 5)], "\n"),
		})
	}

	if g.Description != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "📖 Description", Value: catalog.Ellipsize(g.Description, maxDescription),
		})
	}

	embed.Footer = &discordgo.MessageEmbedFooter{
		Text:    fmt.Sprintf("BGG ID: %d | Use /gg-collection <username> to see someone's collection", g.ID),
		IconURL: bggIconURL,
	}

	return embed
}

// thousands formats n with comma separators.
func thousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// PageCount is the number of collection pages, at least one.
func PageCount(n int) int {
	return max(1, (n+CollectionPageSize-1)/CollectionPageSize)
}

// CollectionEmbed renders one page (1-based, clamped) of a collection
// sorted by name.
func CollectionEmbed(username string, status models.CollectionStatus, entries []models.CollectionEntry, page int) *discordgo.MessageEmbed {
	sorted := make([]models.CollectionEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	pages := PageCount(len(sorted))
	page = min(max(page, 1), pages)

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🎲 %s's %s Collection", username, status.Title()),
		Description: fmt.Sprintf("Page %d of %d • %d total games", page, pages, len(sorted)),
		URL:         bgg.CollectionURL(username, status),
		Color:       colorGreen,
	}

	var summary []string
	for _, s := range models.AllCollectionStatuses {
		count := 0
		for i := range sorted {
			if sorted[i].Has(s) {
				count++
			}
		}
		if count > 0 {
			summary = append(summary, fmt.Sprintf("[%s: %d](%s)", s.Title(), count, bgg.CollectionURL(username, s)))
		}
	}
	if len(summary) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "📊 Collection Summary", Value: strings.Join(summary, " • "),
		})
	}

	start := (page - 1) * CollectionPageSize
	end := min(start+CollectionPageSize, len(sorted))
	lines := make([]string, 0, end-start)
	for i, e := range sorted[start:end] {
		line := fmt.Sprintf("%d. **%s**%s", start+i+1, e.Name, yearSuffix(e.YearPublished))
		if e.Rating != nil && *e.Rating > 0 {
			line += fmt.Sprintf(" ⭐%.1f", *e.Rating)
		}
		lines = append(lines, line)
	}
	if len(lines) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Games", Value: strings.Join(lines, "\n"),
		})
	}

	embed.Footer = &discordgo.MessageEmbedFooter{
		Text:    "Use the page option to navigate • BGG Collection",
		IconURL: bggIconURL,
	}

	return embed
}

// FormatDuration renders minutes as "1h 30m" or "45m".
func FormatDuration(minutes int) string {
	h, m := minutes/60, minutes%60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// PlayersLine lists the first few players with win and score markers.
func PlayersLine(players []models.Player) string {
	parts := make([]string, 0, maxListedPlayers+1)
	for _, p := range players[:min(len(players), maxListedPlayers)] {
		name := p.Name
		if name == "" {
			name = "Unknown"
		}
		if p.IsWinner {
			name += " 🏆"
		}
		if p.Score != nil && *p.Score != "" {
			name += fmt.Sprintf(" (%s)", *p.Score)
		}
		parts = append(parts, name)
	}
	if extra := len(players) - maxListedPlayers; extra > 0 {
		parts = append(parts, fmt.Sprintf("... +%d more", extra))
	}
	return strings.Join(parts, ", ")
}

func playLines(p models.PlayRecord) []string {
	date := p.Date
	if date == "" {
		date = "Unknown Date"
	}
	lines := []string{"📅 " + date}

	if p.DurationMinutes > 0 {
		lines = append(lines, "⏱️ "+FormatDuration(p.DurationMinutes))
	}
	if len(p.Players) > 0 {
		lines = append(lines, "👥 "+PlayersLine(p.Players))
	}
	if p.Location != nil && *p.Location != "" {
		lines = append(lines, "📍 "+*p.Location)
	}
	if p.Comments != nil && *p.Comments != "" {
		c := *p.Comments
		if utf8.RuneCountInString(c) > maxCommentLength {
			c = catalog.Truncate(c, maxCommentLength) + "..."
		}
		lines = append(lines, "💬 "+c)
	}

	return lines
}

func PlaysEmbed(username string, recent services.RecentPlays) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🎮 Recent Plays for %s", username),
		Description: fmt.Sprintf("Showing %d of %d total plays", len(recent.Plays), recent.Total),
		URL:         bgg.PlaysURL(username),
		Color:       colorPurple,
	}

	for i, p := range recent.Plays[:min(len(recent.Plays), maxPlayFields)] {
		name := p.GameName
		if name == "" {
			name = "Unknown Game"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%d. %s", i+1, name),
			Value: strings.Join(playLines(p), "\n"),
		})
	}

	footer := "BGG Plays Data"
	if recent.Cached {
		footer += " • BGG unavailable, showing saved plays"
	}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: footer, IconURL: bggIconURL}

	return embed
}

func ProfileEmbed(p *models.UserProfile, who User) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🎮 Gaming Profile",
		Color: colorBlue,
	}
	if who.DisplayName != "" {
		embed.Author = &discordgo.MessageEmbedAuthor{Name: who.DisplayName, IconURL: who.AvatarURL}
	}

	var platforms []string
	if p.BGGUsername != nil {
		platforms = append(platforms, fmt.Sprintf("🎲 **BGG:** [%s](%s)", *p.BGGUsername, bgg.UserURL(*p.BGGUsername)))
	}
	if p.SteamID != nil {
		platforms = append(platforms, "🎮 **Steam:** "+*p.SteamID)
	}
	if p.XboxGamertag != nil {
		platforms = append(platforms, "🎯 **Xbox:** "+*p.XboxGamertag)
	}
	value := "*No platforms configured*"
	if len(platforms) > 0 {
		value = strings.Join(platforms, "\n")
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Gaming Platforms", Value: value})

	weekly := "❌ Disabled"
	if p.WeeklyStatsEnabled {
		weekly = "✅ Enabled"
		if p.WeeklyStatsChannelID != nil {
			weekly += fmt.Sprintf(" in <#%s>", *p.WeeklyStatsChannelID)
		}
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Weekly Stats", Value: weekly, Inline: true})

	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Use /gg-profile-set to update your profile"}

	return embed
}

// WeeklyDigestEmbed summarises a week of plays: sessions per game, most
// played first, then the individual plays.
func WeeklyDigestEmbed(username, discordID string, plays []models.PlayRecord, since time.Time) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📅 Weekly Plays for %s", username),
		URL:   bgg.PlaysURL(username),
		Color: colorPurple,
	}

	if len(plays) == 0 {
		embed.Description = fmt.Sprintf("<@%s> logged no plays since %s.", discordID, since.Format(time.DateOnly))
		return embed
	}

	sessions := make(map[string]int)
	var names []string
	minutes := 0
	for _, p := range plays {
		q := max(p.Quantity, 1)
		if _, ok := sessions[p.GameName]; !ok {
			names = append(names, p.GameName)
		}
		sessions[p.GameName] += q
		minutes += p.DurationMinutes
	}
	sort.SliceStable(names, func(i, j int) bool { return sessions[names[i]] > sessions[names[j]] })

	embed.Description = fmt.Sprintf("<@%s> logged %d plays of %d games since %s.",
		discordID, len(plays), len(names), since.Format(time.DateOnly))

	lines := make([]string, 0, len(names))
	for _, n := range names {
		lines = append(lines, fmt.Sprintf("**%s** × %d", n, sessions[n]))
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "🎲 Games", Value: catalog.Ellipsize(strings.Join(lines, "\n"), 1024),
	})
	if minutes > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "⏱️ Time Played", Value: FormatDuration(minutes), Inline: true,
		})
	}

	embed.Footer = &discordgo.MessageEmbedFooter{Text: "BGG Plays Data • /gg-weekly to turn off", IconURL: bggIconURL}

	return embed
}
