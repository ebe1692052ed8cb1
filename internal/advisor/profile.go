package advisor

import (
	"context"

	"github.com/deckadvisor/deck-advisor/internal/cards"
	"github.com/deckadvisor/deck-advisor/internal/deck"
)

// DeckProfile is an aggregate view of a deck's mainboard, recomputed on
// demand and never persisted.
type DeckProfile struct {
	// Colors counts mainboard cards per color symbol. Multicolor cards
	// contribute to each of their colors.
	Colors map[string]int

	// ManaValues counts mainboard cards per mana value bucket; values of
	// seven or more share bucket 7. Every card lands in exactly one
	// bucket, so the counts sum to TotalCards.
	ManaValues map[int]int

	// Types counts mainboard cards per card type (Creature, Instant, ...).
	Types map[string]int

	// Keywords counts ability keyword tags weighted by card quantity.
	Keywords map[string]int

	// Tribes counts creature subtypes weighted by card quantity.
	Tribes map[string]int

	CreatureCount int
	NonLandCount  int
	TotalCards    int
}

// CreatureRatio returns the fraction of non-land cards that are creatures.
// A profile with no non-land cards has ratio 0.
func (p *DeckProfile) CreatureRatio() float64 {
	if p.NonLandCount == 0 {
		return 0
	}
	return float64(p.CreatureCount) / float64(p.NonLandCount)
}

// KeywordWeight returns the summed weight of the given keyword tags.
func (p *DeckProfile) KeywordWeight(tags ...string) int {
	total := 0
	for _, tag := range tags {
		total += p.Keywords[tag]
	}
	return total
}

// Analyze converts a deck's mainboard into a DeckProfile. Card metadata is
// resolved through the catalog; on a lookup miss or transport failure the
// entry's own stored card data is used instead, so analysis never fails.
// An empty deck yields an all-zero profile.
func (e *Engine) Analyze(ctx context.Context, d *deck.Deck) *DeckProfile {
	profile := &DeckProfile{
		Colors:     make(map[string]int),
		ManaValues: make(map[int]int),
		Types:      make(map[string]int),
		Keywords:   make(map[string]int),
		Tribes:     make(map[string]int),
	}
	if d == nil {
		return profile
	}

	for _, entry := range d.Mainboard() {
		if entry.Quantity <= 0 {
			continue
		}
		card := e.resolveCard(ctx, entry.Card)
		qty := entry.Quantity

		profile.TotalCards += qty
		profile.ManaValues[card.ManaValueBucket()] += qty

		for _, color := range card.Colors {
			profile.Colors[color] += qty
		}

		for _, t := range card.Types() {
			profile.Types[t] += qty
		}

		if card.IsCreature() {
			profile.CreatureCount += qty
			for _, sub := range card.Subtypes() {
				profile.Tribes[sub] += qty
			}
		}
		if !card.IsLand() {
			profile.NonLandCount += qty
		}

		for tag := range cards.KeywordSet(card.OracleText) {
			profile.Keywords[tag] += qty
		}
	}

	return profile
}

// resolveCard returns enriched metadata for a card, falling back to the
// locally stored copy when the catalog cannot resolve it.
func (e *Engine) resolveCard(ctx context.Context, local cards.Card) *cards.Card {
	resolved, err := e.catalog.LookupByName(ctx, local.Name)
	if err != nil {
		e.logger.Debug("catalog lookup failed, using local card data",
			"card", local.Name, "error", err)
		return &local
	}
	if resolved == nil {
		return &local
	}
	return resolved
}
