package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/2mOlaf/gamer-gambit/internal/models"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TopPickThreshold is the score the first result must beat to be shown as
// the most relevant match.
const TopPickThreshold = 0.7

const (
	exactScore    = 1.0
	prefixScore   = 0.9
	containsScore = 0.8
	fuzzyWeight   = 0.7

	platformBonus     = 0.1
	allCatalogBGGBias = 0.05
	maxRatingBonus    = 0.1
	maxYearBonus      = 0.1
	yearBonusFloor    = 2000
)

// Score rates one candidate against the query. Scores are not normalized
// and can exceed 1.
func Score(query string, r models.SearchResult, catalog models.Catalog) float64 {
	lower := cases.Lower(language.Und)
	q := lower.String(strings.TrimSpace(query))
	name := lower.String(strings.TrimSpace(r.Name))

	var score float64
	switch {
	case name == q:
		score = exactScore
	case strings.HasPrefix(name, q):
		score = prefixScore
	case strings.Contains(name, q):
		score = containsScore
	default:
		score = Similarity(q, name) * fuzzyWeight
	}

	switch {
	case catalog == models.CatalogAll && r.Platform == models.PlatformBGG:
		score += allCatalogBGGBias
	case catalog != models.CatalogAll && string(catalog) == string(r.Platform):
		score += platformBonus
	}

	if r.Platform == models.PlatformBGG && r.Rating != nil {
		score += min(*r.Rating/10*0.1, maxRatingBonus)
	}

	if r.YearPublished != nil && *r.YearPublished > yearBonusFloor {
		score += min(float64(*r.YearPublished-yearBonusFloor)/200, maxYearBonus)
	}

	return score
}

// Similarity is a normalized edit similarity in [0,1]. It is symmetric and
// equal strings score 1.
func Similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// Rank scores every candidate and orders them best first. Equal scores keep
// their input order. The input slice is not modified.
func Rank(query string, results []models.SearchResult, catalog models.Catalog) []models.SearchResult {
	out := make([]models.SearchResult, len(results))
	copy(out, results)

	for i := range out {
		out[i].RelevanceScore = Score(query, out[i], catalog)
		out[i].TopPick = false
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RelevanceScore > out[j].RelevanceScore
	})

	if len(out) > 0 && out[0].RelevanceScore > TopPickThreshold {
		out[0].TopPick = true
	}

	return out
}
