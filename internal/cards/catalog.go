package cards

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Query describes a filtered card search against the catalog.
// Zero-valued fields are not applied.
type Query struct {
	// ColorIdentity restricts results to cards whose colors fit within
	// this set. Colorless cards always pass.
	ColorIdentity []string

	// Format requires legality in the named format.
	Format string

	// Mana value bounds. Exact takes precedence over Min/Max.
	Exact *int
	Min   *int
	Max   *int

	// TextAny matches cards whose oracle text contains any of these terms.
	TextAny []string

	// ExcludeRarities removes cards of the listed rarities.
	ExcludeRarities []string

	// ExcludeBasicLands removes basic lands from the result.
	ExcludeBasicLands bool
}

// Key returns a deterministic string form of the query, suitable as a
// cache key. Slices are sorted so that logically equal queries share a key.
func (q Query) Key() string {
	var b strings.Builder

	writeList := func(prefix string, items []string) {
		if len(items) == 0 {
			return
		}
		sorted := make([]string, len(items))
		copy(sorted, items)
		sort.Strings(sorted)
		fmt.Fprintf(&b, "%s=%s;", prefix, strings.Join(sorted, ","))
	}

	writeList("ci", q.ColorIdentity)
	if q.Format != "" {
		fmt.Fprintf(&b, "f=%s;", strings.ToLower(q.Format))
	}
	if q.Exact != nil {
		fmt.Fprintf(&b, "mv=%d;", *q.Exact)
	}
	if q.Min != nil {
		fmt.Fprintf(&b, "mv>=%d;", *q.Min)
	}
	if q.Max != nil {
		fmt.Fprintf(&b, "mv<=%d;", *q.Max)
	}
	writeList("text", q.TextAny)
	writeList("-r", q.ExcludeRarities)
	if q.ExcludeBasicLands {
		b.WriteString("-basic;")
	}
	return b.String()
}

// Matches reports whether a card satisfies the query. The catalog service
// applies most filters server-side; this is used by local result filtering
// and by test stubs.
func (q Query) Matches(c *Card) bool {
	if c == nil {
		return false
	}
	if len(q.ColorIdentity) > 0 && !c.FitsColors(q.ColorIdentity) {
		return false
	}
	if q.Format != "" && c.Legalities != nil && !c.LegalIn(q.Format) {
		return false
	}
	mv := int(c.ManaValue)
	if q.Exact != nil && mv != *q.Exact {
		return false
	}
	if q.Min != nil && mv < *q.Min {
		return false
	}
	if q.Max != nil && mv > *q.Max {
		return false
	}
	for _, r := range q.ExcludeRarities {
		if strings.EqualFold(c.Rarity, r) {
			return false
		}
	}
	if q.ExcludeBasicLands && c.IsBasicLand() {
		return false
	}
	if len(q.TextAny) > 0 {
		text := strings.ToLower(c.OracleText + " " + c.TypeLine)
		found := false
		for _, term := range q.TextAny {
			if strings.Contains(text, strings.ToLower(term)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Catalog resolves card names to canonical metadata and supports filtered
// search. Implementations must return (nil, nil) from LookupByName when the
// card does not exist; errors indicate transport failure only.
type Catalog interface {
	// LookupByName resolves a single card by exact name.
	LookupByName(ctx context.Context, name string) (*Card, error)

	// Search returns up to limit cards matching the query.
	Search(ctx context.Context, q Query, limit int) ([]*Card, error)
}

// IntPtr returns a pointer to v. Convenience for building queries.
func IntPtr(v int) *int { return &v }

// NormalizeName lowercases and trims a card name for case-insensitive
// keying.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
