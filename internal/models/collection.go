package models

type CollectionStatus string

const (
	StatusOwn      CollectionStatus = "own"
	StatusWishlist CollectionStatus = "wishlist"
	StatusForTrade CollectionStatus = "fortrade"
	StatusWant     CollectionStatus = "want"
)

var AllCollectionStatuses = []CollectionStatus{StatusOwn, StatusWishlist, StatusForTrade, StatusWant}

func (s CollectionStatus) Valid() bool {
	for _, v := range AllCollectionStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Title is the display name used in embeds, e.g. "For Trade".
func (s CollectionStatus) Title() string {
	switch s {
	case StatusOwn:
		return "Own"
	case StatusWishlist:
		return "Wishlist"
	case StatusForTrade:
		return "For Trade"
	case StatusWant:
		return "Want"
	}
	return string(s)
}

// CollectionEntry is one game in a user's collection. The four flags are
// independent of each other.
type CollectionEntry struct {
	GameID        int64    `json:"game_id"`
	Name          string   `json:"name"`
	YearPublished *int     `json:"year_published,omitempty"`
	ThumbnailURL  *string  `json:"thumbnail_url,omitempty"`
	Owned         bool     `json:"owned"`
	Wishlist      bool     `json:"wishlist"`
	ForTrade      bool     `json:"for_trade"`
	Want          bool     `json:"want"`
	Rating        *float64 `json:"rating,omitempty"`
}

func (e *CollectionEntry) Has(s CollectionStatus) bool {
	switch s {
	case StatusOwn:
		return e.Owned
	case StatusWishlist:
		return e.Wishlist
	case StatusForTrade:
		return e.ForTrade
	case StatusWant:
		return e.Want
	}
	return false
}
