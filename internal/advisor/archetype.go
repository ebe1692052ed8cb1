package advisor

import "fmt"

// Archetype scoring constants. These are hand-tuned weights carried over
// from long-term use; there is no ground truth to re-derive them from.
const (
	curveFitWeight      = 0.3  // max contribution of mana-value range fit
	creatureRatioWeight = 0.2  // contribution when the creature-ratio bound holds
	keywordOverlapCap   = 0.4  // max contribution of keyword overlap
	featureFlagWeight   = 0.15 // contribution per satisfied feature flag
	classifyThreshold   = 0.3  // below this the classifier defaults to midrange
)

// defaultArchetype is reported when no template scores above the threshold.
const defaultArchetype = "midrange"

// RatioBound constrains a creature ratio. Nil ends are unbounded.
type RatioBound struct {
	Min *float64
	Max *float64
}

// Satisfied reports whether the ratio falls within the bound.
func (b RatioBound) Satisfied(ratio float64) bool {
	if b.Min != nil && ratio < *b.Min {
		return false
	}
	if b.Max != nil && ratio > *b.Max {
		return false
	}
	return true
}

// CreatureLeaning reports whether the bound describes a creature-heavy
// strategy (it has a lower bound) as opposed to a spell-heavy one.
func (b RatioBound) CreatureLeaning() bool {
	return b.Min != nil
}

// FeatureFlag awards a fixed score when the named keyword category is
// present in the deck at all.
type FeatureFlag struct {
	Name    string // human-readable, e.g. "expects counterspells"
	Keyword string // keyword-table tag that must be non-zero
}

// ArchetypeTemplate is the static description of one deck strategy. The
// template set is read-only configuration, validated at package load.
type ArchetypeTemplate struct {
	Name          string
	Keywords      []string // keyword-table tags typical for the strategy
	MinManaValue  int
	MaxManaValue  int
	CreatureRatio RatioBound
	Flags         []FeatureFlag
}

func ratio(v float64) *float64 { return &v }

// defaultTemplates lists the archetypes in classification order. Ordering
// matters: exact score ties resolve to the earlier entry.
var defaultTemplates = mustValidateTemplates([]ArchetypeTemplate{
	{
		Name:          "aggro",
		Keywords:      []string{"haste", "first strike", "trample", "menace", "prowess"},
		MinManaValue:  1,
		MaxManaValue:  3,
		CreatureRatio: RatioBound{Min: ratio(0.5)},
	},
	{
		Name:          "control",
		Keywords:      []string{"counterspell", "removal", "carddraw", "flash"},
		MinManaValue:  2,
		MaxManaValue:  6,
		CreatureRatio: RatioBound{Max: ratio(0.35)},
		Flags: []FeatureFlag{
			{Name: "expects counterspells", Keyword: "counterspell"},
		},
	},
	{
		Name:          "midrange",
		Keywords:      []string{"removal", "vigilance", "deathtouch", "counters", "lifelink"},
		MinManaValue:  2,
		MaxManaValue:  5,
		CreatureRatio: RatioBound{Min: ratio(0.35), Max: ratio(0.65)},
	},
	{
		Name:          "combo",
		Keywords:      []string{"flashback", "sacrifice", "token", "graveyard", "carddraw"},
		MinManaValue:  1,
		MaxManaValue:  4,
		CreatureRatio: RatioBound{Max: ratio(0.5)},
		Flags: []FeatureFlag{
			{Name: "graveyard recursion", Keyword: "graveyard"},
		},
	},
	{
		Name:          "ramp",
		Keywords:      []string{"ramp", "reach", "lifegain"},
		MinManaValue:  3,
		MaxManaValue:  7,
		CreatureRatio: RatioBound{Min: ratio(0.3), Max: ratio(0.7)},
		Flags: []FeatureFlag{
			{Name: "land search", Keyword: "ramp"},
		},
	},
})

// mustValidateTemplates checks static template configuration and panics on
// malformed entries. A bad template is a programming error, not a runtime
// condition.
func mustValidateTemplates(templates []ArchetypeTemplate) []ArchetypeTemplate {
	if len(templates) == 0 {
		panic("advisor: empty archetype template set")
	}
	seen := make(map[string]bool, len(templates))
	for _, t := range templates {
		if t.Name == "" {
			panic("advisor: archetype template with empty name")
		}
		if seen[t.Name] {
			panic(fmt.Sprintf("advisor: duplicate archetype template %q", t.Name))
		}
		seen[t.Name] = true
		if t.MinManaValue < 0 || t.MaxManaValue < t.MinManaValue {
			panic(fmt.Sprintf("advisor: archetype %q has invalid mana-value range [%d, %d]",
				t.Name, t.MinManaValue, t.MaxManaValue))
		}
		if t.CreatureRatio.Min != nil && t.CreatureRatio.Max != nil &&
			*t.CreatureRatio.Min > *t.CreatureRatio.Max {
			panic(fmt.Sprintf("advisor: archetype %q has inverted creature-ratio bound", t.Name))
		}
		for _, f := range t.Flags {
			if f.Keyword == "" {
				panic(fmt.Sprintf("advisor: archetype %q has feature flag %q without keyword", t.Name, f.Name))
			}
		}
	}
	if !seen[defaultArchetype] {
		panic(fmt.Sprintf("advisor: template set is missing the default archetype %q", defaultArchetype))
	}
	return templates
}

// Classify scores the profile against every archetype template and returns
// the best-fit name plus the per-archetype scores. When no template clears
// the threshold the result is "midrange". Ties resolve to the
// first-listed template.
func (e *Engine) Classify(profile *DeckProfile) (string, map[string]float64) {
	scores := make(map[string]float64, len(e.templates))

	best := ""
	bestScore := -1.0
	for _, t := range e.templates {
		score := e.scoreTemplate(profile, t)
		scores[t.Name] = score
		if score > bestScore {
			best = t.Name
			bestScore = score
		}
	}

	if bestScore < classifyThreshold {
		best = defaultArchetype
	}
	return best, scores
}

// scoreTemplate computes the unweighted sum of the four capped partial
// scores for one template.
func (e *Engine) scoreTemplate(profile *DeckProfile, t ArchetypeTemplate) float64 {
	score := 0.0

	// (a) fraction of non-land cards within the template's mana-value
	// range, scaled to a max contribution of 0.3.
	if profile.NonLandCount > 0 {
		inRange := 0
		for mv, count := range profile.ManaValues {
			if mv >= t.MinManaValue && mv <= t.MaxManaValue {
				inRange += count
			}
		}
		landCount := profile.TotalCards - profile.NonLandCount
		// Lands sit in the zero bucket; keep them out of the fraction.
		if t.MinManaValue == 0 {
			inRange -= landCount
			if inRange < 0 {
				inRange = 0
			}
		}
		score += float64(inRange) / float64(profile.NonLandCount) * curveFitWeight
	}

	// (b) creature-ratio bound.
	if profile.NonLandCount > 0 && t.CreatureRatio.Satisfied(profile.CreatureRatio()) {
		score += creatureRatioWeight
	}

	// (c) keyword overlap, capped.
	if profile.TotalCards > 0 {
		matched := profile.KeywordWeight(t.Keywords...)
		overlap := float64(matched) / float64(profile.TotalCards) * 2
		if overlap > keywordOverlapCap {
			overlap = keywordOverlapCap
		}
		score += overlap
	}

	// (d) boolean feature flags.
	for _, f := range t.Flags {
		if profile.Keywords[f.Keyword] > 0 {
			score += featureFlagWeight
		}
	}

	return score
}

// templateByName returns the template for an archetype name, falling back
// to the default archetype's template.
func (e *Engine) templateByName(name string) ArchetypeTemplate {
	for _, t := range e.templates {
		if t.Name == name {
			return t
		}
	}
	for _, t := range e.templates {
		if t.Name == defaultArchetype {
			return t
		}
	}
	// Unreachable: template validation guarantees the default exists.
	return e.templates[0]
}
