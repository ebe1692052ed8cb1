// Package cards defines the card value type and the catalog contract
// consumed by the recommendation engine.
package cards

import "strings"

// Card represents canonical metadata about a single card.
// A Card is immutable once constructed; it is sourced either from local
// storage or from the catalog service.
type Card struct {
	// Name uniquely identifies the card across printings.
	Name string `json:"name"`

	// Mana information
	ManaCost  string  `json:"mana_cost,omitempty"`
	ManaValue float64 `json:"mana_value"`

	TypeLine string `json:"type_line"`

	// Colors and identity
	Colors        []string `json:"colors,omitempty"`
	ColorIdentity []string `json:"color_identity,omitempty"`

	Rarity string `json:"rarity"` // "common", "uncommon", "rare", "mythic"

	OracleText string `json:"oracle_text,omitempty"`

	// Power/Toughness (for creatures)
	Power     *string `json:"power,omitempty"`
	Toughness *string `json:"toughness,omitempty"`

	// Per-format legality, e.g. "standard" -> "legal"
	Legalities map[string]string `json:"legalities,omitempty"`
}

// ManaValueBucket returns the card's mana value as an integer histogram
// bucket. Values of seven or more share a single bucket.
func (c *Card) ManaValueBucket() int {
	mv := int(c.ManaValue)
	if mv > 7 {
		mv = 7
	}
	return mv
}

// IsCreature reports whether the card's type line contains "Creature".
func (c *Card) IsCreature() bool {
	return containsType(c.TypeLine, "Creature")
}

// IsLand reports whether the card's type line contains "Land".
func (c *Card) IsLand() bool {
	return containsType(c.TypeLine, "Land")
}

// IsBasicLand reports whether the card is a basic land.
func (c *Card) IsBasicLand() bool {
	return containsType(c.TypeLine, "Basic") && c.IsLand()
}

// LegalIn reports whether the card is marked legal in the given format.
// Cards with no legality data are treated as not legal.
func (c *Card) LegalIn(format string) bool {
	if c.Legalities == nil {
		return false
	}
	return strings.EqualFold(c.Legalities[strings.ToLower(format)], "legal")
}

// FitsColors reports whether every color of the card is contained in the
// given color set. Colorless cards fit any color set.
func (c *Card) FitsColors(colors []string) bool {
	if len(c.Colors) == 0 {
		return true
	}
	allowed := make(map[string]bool, len(colors))
	for _, col := range colors {
		allowed[strings.ToUpper(col)] = true
	}
	for _, col := range c.Colors {
		if !allowed[strings.ToUpper(col)] {
			return false
		}
	}
	return true
}

// Types returns the card types from the type line, e.g.
// "Legendary Creature — Elf Druid" -> ["Legendary", "Creature"].
func (c *Card) Types() []string {
	typePart := c.TypeLine
	if idx := strings.Index(typePart, "—"); idx >= 0 {
		typePart = typePart[:idx]
	}

	known := []string{
		"Creature", "Artifact", "Enchantment", "Instant", "Sorcery",
		"Land", "Planeswalker", "Battle",
		"Legendary", "Basic", "Snow",
	}

	lower := strings.ToLower(typePart)
	var types []string
	for _, t := range known {
		if strings.Contains(lower, strings.ToLower(t)) {
			types = append(types, t)
		}
	}
	return types
}

// Subtypes returns the subtypes after the em dash in the type line, e.g.
// "Creature — Elf Druid" -> ["Elf", "Druid"].
func (c *Card) Subtypes() []string {
	parts := strings.SplitN(c.TypeLine, "—", 2)
	if len(parts) < 2 {
		parts = strings.SplitN(c.TypeLine, " - ", 2)
	}
	if len(parts) < 2 {
		return nil
	}
	return strings.Fields(strings.TrimSpace(parts[1]))
}

func containsType(typeLine, target string) bool {
	return strings.Contains(strings.ToLower(typeLine), strings.ToLower(target))
}
