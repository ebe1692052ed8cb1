package scryfall

import (
	"fmt"

	"github.com/deckadvisor/deck-advisor/internal/cards"
)

// Card represents the catalog service's card object schema.
type Card struct {
	ID            string            `json:"id"`
	OracleID      string            `json:"oracle_id"`
	Name          string            `json:"name"`
	ManaCost      string            `json:"mana_cost"`
	CMC           float64           `json:"cmc"`
	TypeLine      string            `json:"type_line"`
	OracleText    string            `json:"oracle_text,omitempty"`
	Power         string            `json:"power,omitempty"`
	Toughness     string            `json:"toughness,omitempty"`
	Colors        []string          `json:"colors"`
	ColorIdentity []string          `json:"color_identity"`
	Rarity        string            `json:"rarity"`
	Legalities    map[string]string `json:"legalities,omitempty"`
	CardFaces     []CardFace        `json:"card_faces,omitempty"`
}

// CardFace represents one face of a multi-faced card.
type CardFace struct {
	Name       string   `json:"name"`
	TypeLine   string   `json:"type_line"`
	ManaCost   string   `json:"mana_cost"`
	OracleText string   `json:"oracle_text"`
	Colors     []string `json:"colors"`
	Power      string   `json:"power,omitempty"`
	Toughness  string   `json:"toughness,omitempty"`
}

// SearchResult is a paginated list of cards returned by the search endpoint.
type SearchResult struct {
	Object     string  `json:"object"`
	TotalCards int     `json:"total_cards"`
	HasMore    bool    `json:"has_more"`
	NextPage   string  `json:"next_page,omitempty"`
	Data       []*Card `json:"data"`
}

// APIError is the error object the catalog service returns for failed
// requests.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Details string `json:"details"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog API error (status %d, code %q): %s", e.Status, e.Code, e.Details)
}

// NotFoundError indicates the requested card does not exist.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.URL)
}

// ToCard converts a catalog card to the internal Card representation.
// For multi-faced cards the front face supplies type line and oracle text
// when the top-level fields are empty.
func (sc *Card) ToCard() *cards.Card {
	card := &cards.Card{
		Name:          sc.Name,
		ManaCost:      sc.ManaCost,
		ManaValue:     sc.CMC,
		TypeLine:      sc.TypeLine,
		OracleText:    sc.OracleText,
		Colors:        sc.Colors,
		ColorIdentity: sc.ColorIdentity,
		Rarity:        sc.Rarity,
		Legalities:    sc.Legalities,
	}

	if sc.Power != "" {
		p := sc.Power
		card.Power = &p
	}
	if sc.Toughness != "" {
		t := sc.Toughness
		card.Toughness = &t
	}

	if len(sc.CardFaces) > 0 {
		front := sc.CardFaces[0]
		if card.TypeLine == "" {
			card.TypeLine = front.TypeLine
		}
		if card.OracleText == "" {
			card.OracleText = front.OracleText
		}
		if card.ManaCost == "" {
			card.ManaCost = front.ManaCost
		}
		if len(card.Colors) == 0 {
			card.Colors = front.Colors
		}
	}

	return card
}
