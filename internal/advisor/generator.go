package advisor

import (
	"context"
	"strings"

	"github.com/deckadvisor/deck-advisor/internal/cards"
)

// generateRequest carries everything a candidate generator needs for one
// pass: the deck profile, the winning archetype, the current deck contents
// for dedup, the deck's colors, the target format, and a result cap.
type generateRequest struct {
	profile   *DeckProfile
	template  ArchetypeTemplate
	deckNames map[string]bool // lowercased card names already in the deck
	colors    []string
	format    string
	limit     int
}

// candidateGenerator is one recommendation strategy. Implementations
// populate Confidence and Reasons and leave Ownership "unknown"; they must
// never suggest a card already in the deck and must tolerate catalog
// failures by returning what they have.
type candidateGenerator interface {
	name() string
	generate(ctx context.Context, req *generateRequest) []*Recommendation
}

// inDeck reports whether a card name is already present in the deck,
// case-insensitively.
func (r *generateRequest) inDeck(name string) bool {
	return r.deckNames[strings.ToLower(name)]
}

// baseRecommendation builds a Recommendation skeleton from catalog card
// metadata, extracting ability keywords for downstream display.
func baseRecommendation(card *cards.Card) *Recommendation {
	return &Recommendation{
		Name:       card.Name,
		ManaCost:   card.ManaCost,
		TypeLine:   card.TypeLine,
		Rarity:     card.Rarity,
		Ownership:  OwnershipUnknown,
		Legalities: card.Legalities,
		Keywords:   cards.ExtractKeywords(card.OracleText),
	}
}
