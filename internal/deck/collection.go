package deck

import "strings"

// Quantities holds the owned copies of a single card, split between
// regular and foil printings.
type Quantities struct {
	Regular int
	Foil    int
}

// Total returns regular plus foil copies.
func (q Quantities) Total() int {
	return q.Regular + q.Foil
}

// Collection is a read-only snapshot of the user's card collection,
// keyed by card name.
type Collection map[string]Quantities

// Owned returns the total owned copies of a card. It performs a direct
// lookup first, then falls back to a case-insensitive scan.
func (c Collection) Owned(name string) int {
	if c == nil {
		return 0
	}
	if q, ok := c[name]; ok {
		return q.Total()
	}
	for owned, q := range c {
		if strings.EqualFold(owned, name) {
			return q.Total()
		}
	}
	return 0
}

// Add merges quantities for a card into the collection.
func (c Collection) Add(name string, regular, foil int) {
	q := c[name]
	q.Regular += regular
	q.Foil += foil
	c[name] = q
}
