package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/deckadvisor/deck-advisor/internal/cards"
)

// Theme detection thresholds: tribal themes (creature subtypes) need two
// weighted occurrences, mechanic themes (ability keywords) need three.
const (
	tribalThemeThreshold   = 2
	mechanicThemeThreshold = 3
	maxSynergyThemes       = 2
)

// synergyTheme is a detected tribal or mechanical pattern in the deck.
type synergyTheme struct {
	term     string // subtype or keyword tag, usable as a search term
	tribal   bool
	strength int // keyword-weighted occurrence count
}

// synergyGenerator suggests cards reinforcing the deck's strongest tribal
// or mechanical themes.
type synergyGenerator struct {
	catalog cards.Catalog
	logger  *slog.Logger
}

func (g *synergyGenerator) name() string { return "synergy" }

func (g *synergyGenerator) generate(ctx context.Context, req *generateRequest) []*Recommendation {
	themes := detectThemes(req.profile)
	if len(themes) == 0 {
		return nil
	}

	var recs []*Recommendation
	for _, theme := range themes {
		if len(recs) >= req.limit {
			break
		}

		query := cards.Query{
			ColorIdentity:     req.colors,
			Format:            req.format,
			TextAny:           []string{theme.term},
			ExcludeBasicLands: true,
		}

		found, err := g.catalog.Search(ctx, query, req.limit)
		if err != nil {
			g.logger.Warn("synergy search failed", "theme", theme.term, "error", err)
			continue
		}

		strength := float64(theme.strength) / 10.0
		if strength > 1.0 {
			strength = 1.0
		}

		for _, card := range found {
			if len(recs) >= req.limit {
				break
			}
			if req.inDeck(card.Name) {
				continue
			}

			rec := baseRecommendation(card)
			rec.Synergy = strength
			rec.Confidence = clampScore(0.7 + strength*0.2)
			if theme.tribal {
				rec.Reasons = []string{
					fmt.Sprintf("Strengthens your %s tribal theme (%d in deck)", theme.term, theme.strength),
				}
			} else {
				rec.Reasons = []string{
					fmt.Sprintf("Builds on your %s theme (%d cards)", theme.term, theme.strength),
				}
			}
			recs = append(recs, rec)
		}
	}

	return recs
}

// detectThemes finds the deck's strongest themes: creature subtypes with
// at least two weighted occurrences and ability keywords with at least
// three. The top one or two themes are returned, strongest first;
// deterministic ordering is guaranteed by the name tie-break.
func detectThemes(profile *DeckProfile) []synergyTheme {
	var themes []synergyTheme

	for tribe, count := range profile.Tribes {
		if count >= tribalThemeThreshold {
			themes = append(themes, synergyTheme{term: tribe, tribal: true, strength: count})
		}
	}
	for keyword, count := range profile.Keywords {
		if count >= mechanicThemeThreshold {
			themes = append(themes, synergyTheme{term: keyword, strength: count})
		}
	}

	sort.Slice(themes, func(i, j int) bool {
		if themes[i].strength != themes[j].strength {
			return themes[i].strength > themes[j].strength
		}
		return themes[i].term < themes[j].term
	})

	if len(themes) > maxSynergyThemes {
		themes = themes[:maxSynergyThemes]
	}
	return themes
}
