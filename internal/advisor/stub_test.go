package advisor

import (
	"context"
	"strings"

	"github.com/deckadvisor/deck-advisor/internal/cards"
)

// stubCatalog is a deterministic in-memory catalog for engine tests.
// Search filters its fixed card list with Query.Matches, preserving list
// order, so test expectations are stable.
type stubCatalog struct {
	cards     []*cards.Card
	lookupErr error
	searchErr error
}

func (s *stubCatalog) LookupByName(_ context.Context, name string) (*cards.Card, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	for _, c := range s.cards {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, nil
}

func (s *stubCatalog) Search(_ context.Context, q cards.Query, limit int) ([]*cards.Card, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	var out []*cards.Card
	for _, c := range s.cards {
		if len(out) >= limit {
			break
		}
		if q.Matches(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func creatureCard(name string, mv float64, colors []string, subtypes, oracle string) *cards.Card {
	return &cards.Card{
		Name:       name,
		ManaValue:  mv,
		TypeLine:   "Creature — " + subtypes,
		Colors:     colors,
		Rarity:     "common",
		OracleText: oracle,
		Legalities: map[string]string{"standard": "legal"},
	}
}

func spellCard(name string, mv float64, colors []string, typeLine, oracle string) *cards.Card {
	return &cards.Card{
		Name:       name,
		ManaValue:  mv,
		TypeLine:   typeLine,
		Colors:     colors,
		Rarity:     "common",
		OracleText: oracle,
		Legalities: map[string]string{"standard": "legal"},
	}
}
