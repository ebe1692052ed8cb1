package advisor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/deckadvisor/deck-advisor/internal/cards"
)

// archetypeFitGenerator suggests cards matching the winning archetype's
// keyword list and mana-value range.
type archetypeFitGenerator struct {
	catalog cards.Catalog
	logger  *slog.Logger
}

func (g *archetypeFitGenerator) name() string { return "archetype-fit" }

func (g *archetypeFitGenerator) generate(ctx context.Context, req *generateRequest) []*Recommendation {
	t := req.template

	query := cards.Query{
		ColorIdentity:     req.colors,
		Format:            req.format,
		TextAny:           t.Keywords,
		Min:               cards.IntPtr(t.MinManaValue),
		Max:               cards.IntPtr(t.MaxManaValue),
		ExcludeBasicLands: true,
	}

	found, err := g.catalog.Search(ctx, query, req.limit*2)
	if err != nil {
		g.logger.Warn("archetype-fit search failed", "archetype", t.Name, "error", err)
		return nil
	}

	var recs []*Recommendation
	for _, card := range found {
		if len(recs) >= req.limit {
			break
		}
		if req.inDeck(card.Name) {
			continue
		}

		fit, reasons := g.scoreFit(card, t)

		rec := baseRecommendation(card)
		rec.DeckFit = clampScore(fit)
		rec.Confidence = clampScore(0.6 + fit*0.3)
		rec.Reasons = reasons
		recs = append(recs, rec)
	}

	return recs
}

// scoreFit computes the archetype-fit score as a capped sum: keyword
// matches at 0.1 each up to 0.4, 0.3 for landing in the mana-value range,
// and 0.2 when the card's creature-ness matches the template's leaning.
func (g *archetypeFitGenerator) scoreFit(card *cards.Card, t ArchetypeTemplate) (float64, []string) {
	fit := 0.0
	var reasons []string

	kwSet := cards.KeywordSet(card.OracleText)
	matches := 0
	for _, kw := range t.Keywords {
		if kwSet[kw] {
			matches++
		}
	}
	if matches > 0 {
		kwScore := float64(matches) * 0.1
		if kwScore > 0.4 {
			kwScore = 0.4
		}
		fit += kwScore
		reasons = append(reasons, fmt.Sprintf("Carries %d %s keyword(s)", matches, t.Name))
	}

	mv := int(card.ManaValue)
	if mv >= t.MinManaValue && mv <= t.MaxManaValue {
		fit += 0.3
		reasons = append(reasons, fmt.Sprintf("On-curve for %s (%d mana)", t.Name, mv))
	}

	if card.IsCreature() == t.CreatureRatio.CreatureLeaning() {
		fit += 0.2
		if card.IsCreature() {
			reasons = append(reasons, fmt.Sprintf("Creature for a creature-led %s plan", t.Name))
		} else {
			reasons = append(reasons, fmt.Sprintf("Spell for a spell-led %s plan", t.Name))
		}
	}

	if len(reasons) == 0 {
		reasons = append(reasons, fmt.Sprintf("Playable in %s decks", t.Name))
	}

	return fit, reasons
}
