package advisor

import (
	"sort"
	"strings"
)

// rankRecommendations merges candidate lists, deduplicates by card name
// case-insensitively, and sorts by confidence then synergy. List order is
// a deliberate priority: when several strategies suggest the same card,
// the earliest generator's version wins.
func rankRecommendations(lists ...[]*Recommendation) []*Recommendation {
	seen := make(map[string]bool)
	var merged []*Recommendation

	for _, list := range lists {
		for _, rec := range list {
			if rec == nil {
				continue
			}
			key := strings.ToLower(rec.Name)
			if seen[key] {
				continue
			}
			seen[key] = true

			rec.Confidence = clampScore(rec.Confidence)
			rec.Synergy = clampScore(rec.Synergy)
			rec.Meta = clampScore(rec.Meta)
			rec.DeckFit = clampScore(rec.DeckFit)
			merged = append(merged, rec)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Confidence != merged[j].Confidence {
			return merged[i].Confidence > merged[j].Confidence
		}
		return merged[i].Synergy > merged[j].Synergy
	})

	return merged
}
