package models

import "time"

type Platform string

const (
	PlatformBGG   Platform = "bgg"
	PlatformSteam Platform = "steam"
	PlatformXbox  Platform = "xbox"
)

// Catalog is a search filter: a single platform or every platform at once.
type Catalog string

const (
	CatalogAll   Catalog = "all"
	CatalogBGG   Catalog = Catalog(PlatformBGG)
	CatalogSteam Catalog = Catalog(PlatformSteam)
	CatalogXbox  Catalog = Catalog(PlatformXbox)
)

// Platforms expands the filter into the platforms it covers.
func (c Catalog) Platforms() []Platform {
	switch c {
	case CatalogBGG:
		return []Platform{PlatformBGG}
	case CatalogSteam:
		return []Platform{PlatformSteam}
	case CatalogXbox:
		return []Platform{PlatformXbox}
	case CatalogAll:
		return []Platform{PlatformBGG, PlatformSteam, PlatformXbox}
	}
	return nil
}

func (c Catalog) Valid() bool {
	return c.Platforms() != nil
}

type Recommendation string

const (
	Best           Recommendation = "Best"
	Recommended    Recommendation = "Recommended"
	NotRecommended Recommendation = "Not Recommended"
)

// GameRecord is a normalized catalog entry. ID and Name are always set;
// pointer fields are nil when the source did not report them.
type GameRecord struct {
	ID               int64                     `json:"id"`
	Platform         Platform                  `json:"platform"`
	Name             string                    `json:"name"`
	YearPublished    *int                      `json:"year_published,omitempty"`
	Rating           *float64                  `json:"rating,omitempty"`
	RatingCount      *int                      `json:"rating_count,omitempty"`
	Weight           *float64                  `json:"weight,omitempty"`
	MinPlayers       *int                      `json:"min_players,omitempty"`
	MaxPlayers       *int                      `json:"max_players,omitempty"`
	PlayingTime      *int                      `json:"playing_time,omitempty"`
	MinPlaytime      *int                      `json:"min_playtime,omitempty"`
	MaxPlaytime      *int                      `json:"max_playtime,omitempty"`
	MinAge           *int                      `json:"min_age,omitempty"`
	Description      string                    `json:"description,omitempty"`
	ImageURL         *string                   `json:"image_url,omitempty"`
	ThumbnailURL     *string                   `json:"thumbnail_url,omitempty"`
	SuggestedPlayers map[string]Recommendation `json:"suggested_players,omitempty"`
	CachedAt         time.Time                 `json:"cached_at,omitempty"`
}

// SearchResult is a ranked, platform-tagged candidate. It is never stored.
type SearchResult struct {
	ID             int64    `json:"id"`
	Platform       Platform `json:"platform"`
	Name           string   `json:"name"`
	YearPublished  *int     `json:"year_published,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
	ThumbnailURL   *string  `json:"thumbnail_url,omitempty"`
	URL            string   `json:"url,omitempty"`
	RelevanceScore float64  `json:"relevance_score"`
	TopPick        bool     `json:"top_pick"`
}

func (g *GameRecord) SearchResult() SearchResult {
	return SearchResult{
		ID:            g.ID,
		Platform:      g.Platform,
		Name:          g.Name,
		YearPublished: g.YearPublished,
		Rating:        g.Rating,
		ThumbnailURL:  g.ThumbnailURL,
	}
}
