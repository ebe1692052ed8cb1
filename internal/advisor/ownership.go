package advisor

import "github.com/deckadvisor/deck-advisor/internal/deck"

// ownedConfidenceBoost is added to a recommendation's confidence when the
// user already owns the card.
const ownedConfidenceBoost = 0.1

// annotateOwnership cross-references recommendations against the user's
// collection, marking each as owned or craft-required at its rarity. Owned
// cards get a confidence boost, re-clamped to 1.0. The collection itself
// is never modified.
func annotateOwnership(recs []*Recommendation, collection deck.Collection) {
	for _, rec := range recs {
		if collection.Owned(rec.Name) > 0 {
			rec.Ownership = OwnershipOwned
			rec.Confidence = clampScore(rec.Confidence + ownedConfidenceBoost)
			continue
		}
		rec.Ownership = craftStatusForRarity(rec.Rarity)
	}
}
