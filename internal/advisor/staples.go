package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/deckadvisor/deck-advisor/internal/cards"
)

// staplesGenerator suggests broadly played cards that are legal in the
// target format and fit the deck's color identity. Rarity is used as a
// proxy for competitive relevance.
type staplesGenerator struct {
	catalog cards.Catalog
	logger  *slog.Logger
}

func (g *staplesGenerator) name() string { return "staples" }

func (g *staplesGenerator) generate(ctx context.Context, req *generateRequest) []*Recommendation {
	query := cards.Query{
		ColorIdentity:     req.colors,
		Format:            req.format,
		ExcludeBasicLands: true,
	}

	// Over-fetch so that cards already in the deck can be dropped without
	// starving the result.
	found, err := g.catalog.Search(ctx, query, req.limit*2)
	if err != nil {
		g.logger.Warn("staples search failed", "format", req.format, "error", err)
		return nil
	}

	// Higher rarities first; stable so the catalog's own relevance order
	// breaks ties.
	sort.SliceStable(found, func(i, j int) bool {
		return rarityRank(found[i].Rarity) > rarityRank(found[j].Rarity)
	})

	var recs []*Recommendation
	for _, card := range found {
		if len(recs) >= req.limit {
			break
		}
		if req.inDeck(card.Name) || card.IsBasicLand() {
			continue
		}

		rec := baseRecommendation(card)
		rec.Meta = metaScoreForRarity(card.Rarity)

		confidence := 0.6
		reasons := []string{fmt.Sprintf("Widely played in %s", req.format)}

		if card.LegalIn(req.format) {
			confidence += 0.2
			reasons = append(reasons, fmt.Sprintf("Legal in %s", req.format))
		}
		switch strings.ToLower(card.Rarity) {
		case "mythic", "rare":
			confidence += 0.1
			reasons = append(reasons, "High-rarity staple")
		case "uncommon":
			confidence += 0.05
		}

		rec.Confidence = clampScore(confidence)
		rec.Reasons = reasons
		recs = append(recs, rec)
	}

	return recs
}

// rarityRank orders rarities for staple bias.
func rarityRank(rarity string) int {
	switch strings.ToLower(rarity) {
	case "mythic":
		return 4
	case "rare":
		return 3
	case "uncommon":
		return 2
	case "common":
		return 1
	default:
		return 0
	}
}

// metaScoreForRarity is the rarity-based popularity proxy.
func metaScoreForRarity(rarity string) float64 {
	switch strings.ToLower(rarity) {
	case "mythic":
		return 0.9
	case "rare":
		return 0.8
	case "uncommon":
		return 0.65
	case "common":
		return 0.5
	default:
		return 0.5
	}
}
