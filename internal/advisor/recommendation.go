// Package advisor implements the deck recommendation engine: deck
// profiling, archetype classification, candidate generation, ranking,
// ownership annotation, and incremental batch retrieval.
package advisor

import "strings"

// OwnershipStatus describes whether the user owns a recommended card and,
// if not, what it would cost to craft.
type OwnershipStatus string

const (
	OwnershipOwned         OwnershipStatus = "owned"
	OwnershipCraftCommon   OwnershipStatus = "craft-common"
	OwnershipCraftUncommon OwnershipStatus = "craft-uncommon"
	OwnershipCraftRare     OwnershipStatus = "craft-rare"
	OwnershipCraftMythic   OwnershipStatus = "craft-mythic"
	OwnershipUnknown       OwnershipStatus = "unknown"
)

// craftStatusForRarity maps a card rarity to the matching craft status.
// Unrecognized rarities map to OwnershipUnknown.
func craftStatusForRarity(rarity string) OwnershipStatus {
	switch strings.ToLower(rarity) {
	case "common":
		return OwnershipCraftCommon
	case "uncommon":
		return OwnershipCraftUncommon
	case "rare":
		return OwnershipCraftRare
	case "mythic":
		return OwnershipCraftMythic
	default:
		return OwnershipUnknown
	}
}

// Recommendation is a single card-addition suggestion. It is created by a
// candidate generator with partial fields, enriched by the ranker and the
// ownership annotator, and immutable thereafter. Recommendations are never
// persisted; they are regenerated per request.
type Recommendation struct {
	Name     string `json:"name"`
	ManaCost string `json:"mana_cost,omitempty"`
	TypeLine string `json:"type_line"`
	Rarity   string `json:"rarity"`

	// Scores, all in [0, 1].
	Confidence float64 `json:"confidence"`
	Synergy    float64 `json:"synergy"`
	Meta       float64 `json:"meta"`
	DeckFit    float64 `json:"deck_fit"`

	// Reasons are human-readable explanations for the suggestion.
	Reasons []string `json:"reasons"`

	Ownership OwnershipStatus `json:"ownership"`

	Legalities map[string]string `json:"legalities,omitempty"`
	Keywords   []string          `json:"keywords,omitempty"`
}

// clampScore bounds a score to [0, 1].
func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
