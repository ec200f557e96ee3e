package catalog

import "github.com/2mOlaf/gamer-gambit/internal/models"

type Vote struct {
	Value    models.Recommendation
	NumVotes int
}

// PlayerCountPoll is the vote tally for one player-count label, in source order.
type PlayerCountPoll struct {
	NumPlayers string
	Votes      []Vote
}

// AggregateSuggestedPlayers reduces each tally to one recommendation.
//
// Best wins only with strictly more votes than the best seen so far for that
// count. Recommended replaces anything except Best and does not compare vote
// counts. A later tally for a label already seen overwrites the earlier result.
func AggregateSuggestedPlayers(polls []PlayerCountPoll) map[string]models.Recommendation {
	out := make(map[string]models.Recommendation, len(polls))

	for _, p := range polls {
		if p.NumPlayers == "" {
			continue
		}

		bestVotes := 0
		rec := models.NotRecommended
		for _, v := range p.Votes {
			switch {
			case v.Value == models.Best && v.NumVotes > bestVotes:
				rec = models.Best
				bestVotes = v.NumVotes
			case v.Value == models.Recommended && rec != models.Best:
				rec = models.Recommended
			}
		}

		out[p.NumPlayers] = rec
	}

	return out
}
