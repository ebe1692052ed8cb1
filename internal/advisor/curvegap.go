package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/deckadvisor/deck-advisor/internal/cards"
)

// idealCurve is the target mana-value distribution for a deck's non-land
// cards. Slots filled below 60% of their ideal share are treated as gaps.
var idealCurve = map[int]float64{
	1: 0.20,
	2: 0.30,
	3: 0.25,
	4: 0.15,
	5: 0.10,
}

const curveGapTrigger = 0.6 // fraction of ideal below which a slot is a gap
const maxCurveGaps = 2

// curveGap is a mana-value slot running short of its ideal share.
type curveGap struct {
	manaValue int
	// size is the shortfall as a fraction of the non-land card count.
	size float64
}

// curveGapGenerator suggests cards at mana values where the deck runs
// materially below the ideal distribution. Mythics are excluded to keep
// the suggestions craftable.
type curveGapGenerator struct {
	catalog cards.Catalog
	logger  *slog.Logger
}

func (g *curveGapGenerator) name() string { return "curve-gap" }

func (g *curveGapGenerator) generate(ctx context.Context, req *generateRequest) []*Recommendation {
	gaps := findCurveGaps(req.profile)
	if len(gaps) == 0 {
		return nil
	}

	perGap := (req.limit + len(gaps) - 1) / len(gaps)

	var recs []*Recommendation
	for _, gap := range gaps {
		if len(recs) >= req.limit {
			break
		}

		query := cards.Query{
			ColorIdentity:     req.colors,
			Format:            req.format,
			Exact:             cards.IntPtr(gap.manaValue),
			ExcludeRarities:   []string{"mythic"},
			ExcludeBasicLands: true,
		}

		found, err := g.catalog.Search(ctx, query, perGap*2)
		if err != nil {
			g.logger.Warn("curve-gap search failed", "manaValue", gap.manaValue, "error", err)
			continue
		}

		taken := 0
		for _, card := range found {
			if len(recs) >= req.limit || taken >= perGap {
				break
			}
			if req.inDeck(card.Name) {
				continue
			}

			rec := baseRecommendation(card)
			rec.DeckFit = clampScore(gap.size)
			rec.Confidence = clampScore(0.6 + gap.size)
			rec.Reasons = []string{
				fmt.Sprintf("Fills a gap at %d mana in your curve", gap.manaValue),
			}
			recs = append(recs, rec)
			taken++
		}
	}

	return recs
}

// findCurveGaps compares the profile's mana-value histogram against the
// ideal distribution and returns at most two gaps, largest first.
func findCurveGaps(profile *DeckProfile) []curveGap {
	if profile.NonLandCount == 0 {
		return nil
	}
	total := float64(profile.NonLandCount)

	var gaps []curveGap
	for mv, share := range idealCurve {
		ideal := share * total
		actual := float64(profile.ManaValues[mv])
		if actual < curveGapTrigger*ideal {
			gaps = append(gaps, curveGap{
				manaValue: mv,
				size:      math.Max(0, ideal-actual) / total,
			})
		}
	}

	sort.Slice(gaps, func(i, j int) bool {
		if gaps[i].size != gaps[j].size {
			return gaps[i].size > gaps[j].size
		}
		return gaps[i].manaValue < gaps[j].manaValue
	})

	if len(gaps) > maxCurveGaps {
		gaps = gaps[:maxCurveGaps]
	}
	return gaps
}
