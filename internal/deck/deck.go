// Package deck defines deck and collection snapshot types consumed by the
// recommendation engine.
package deck

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/deckadvisor/deck-advisor/internal/cards"
)

// Entry is a single deck slot: a card, its quantity, and which board it
// lives on. A deck holds at most one Entry per (card name, sideboard) pair.
type Entry struct {
	Card      cards.Card
	Quantity  int
	Sideboard bool
}

// Deck is an ordered list of entries.
type Deck struct {
	ID      string
	Name    string
	Format  string
	Entries []Entry
}

// AddCard adds quantity copies of a card to the deck. If an entry for the
// same (name, board) pair already exists its quantity is incremented;
// duplicates are never appended.
func (d *Deck) AddCard(card cards.Card, quantity int, sideboard bool) {
	if quantity <= 0 {
		return
	}
	for i := range d.Entries {
		e := &d.Entries[i]
		if e.Sideboard == sideboard && strings.EqualFold(e.Card.Name, card.Name) {
			e.Quantity += quantity
			return
		}
	}
	d.Entries = append(d.Entries, Entry{Card: card, Quantity: quantity, Sideboard: sideboard})
}

// Mainboard returns the mainboard entries in deck order.
func (d *Deck) Mainboard() []Entry {
	var main []Entry
	for _, e := range d.Entries {
		if !e.Sideboard {
			main = append(main, e)
		}
	}
	return main
}

// MainboardCount returns the total mainboard quantity.
func (d *Deck) MainboardCount() int {
	total := 0
	for _, e := range d.Entries {
		if !e.Sideboard {
			total += e.Quantity
		}
	}
	return total
}

// NameSet returns the lowercased names of every card in the deck,
// mainboard and sideboard alike.
func (d *Deck) NameSet() map[string]bool {
	names := make(map[string]bool, len(d.Entries))
	for _, e := range d.Entries {
		names[strings.ToLower(e.Card.Name)] = true
	}
	return names
}

// Colors returns the deck's color identity in WUBRG order, derived from
// the mainboard cards.
func (d *Deck) Colors() []string {
	present := make(map[string]bool)
	for _, e := range d.Entries {
		if e.Sideboard {
			continue
		}
		for _, c := range e.Card.Colors {
			present[strings.ToUpper(c)] = true
		}
		for _, c := range e.Card.ColorIdentity {
			present[strings.ToUpper(c)] = true
		}
	}

	var colors []string
	for _, c := range []string{"W", "U", "B", "R", "G"} {
		if present[c] {
			colors = append(colors, c)
		}
	}
	return colors
}

// Fingerprint returns a stable digest of the deck's mainboard contents.
// Two decks with the same cards and quantities share a fingerprint
// regardless of entry order.
func (d *Deck) Fingerprint() string {
	lines := make([]string, 0, len(d.Entries))
	for _, e := range d.Entries {
		if e.Sideboard {
			continue
		}
		lines = append(lines, strings.ToLower(e.Card.Name)+"\x00"+strconv.Itoa(e.Quantity))
	}
	sort.Strings(lines)

	sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:])
}
