package patriot

import (
	"strings"

	"github.com/greenmason/greenmason/pkg/models"
)

// minScore is the admission threshold: a best match scoring below this is
// treated as no-match, so one-off short substring hits don't trigger a
// redirect.
const minScore = 4

// Route scores a free-text message against every agent's keyword set and
// returns the best match, or nil when no agent clears the threshold.
//
// Matching is case-insensitive substring containment — no stemming, no
// token boundaries. Each hit adds len(keyword) to the agent's score, so
// longer, more specific keywords outweigh short generic ones. Ties go to
// the first-declared agent in the catalog.
//
// Pure function over the message and the static catalog; safe for
// concurrent use.
func Route(message string) *models.AgentMatch {
	lower := strings.ToLower(message)

	var (
		best        *models.Agent
		bestScore   int
		bestMatched []string
	)

	for i := range catalog {
		agent := &catalog[i]
		score := 0
		var matched []string
		for _, kw := range agent.Keywords {
			if strings.Contains(lower, kw) {
				score += len(kw)
				matched = append(matched, kw)
			}
		}
		if score > bestScore {
			best = agent
			bestScore = score
			bestMatched = matched
		}
	}

	if best == nil || bestScore < minScore {
		return nil
	}

	return &models.AgentMatch{
		AgentKey:         best.Key,
		AgentName:        best.Name,
		AgentEmoji:       best.Emoji,
		AgentDescription: best.Description,
		AgentURL:         best.URL,
		MatchedKeywords:  bestMatched,
		ExampleQueries:   best.ExampleQueries,
	}
}
