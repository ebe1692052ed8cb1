package advisor

import "testing"

func TestClassifyAggro(t *testing.T) {
	engine := NewEngine(&stubCatalog{})

	profile := &DeckProfile{
		ManaValues:    map[int]int{0: 4, 1: 8, 2: 8, 3: 4},
		Keywords:      map[string]int{"haste": 6},
		CreatureCount: 12,
		NonLandCount:  20,
		TotalCards:    24,
	}

	archetype, scores := engine.Classify(profile)
	if archetype != "aggro" {
		t.Fatalf("Classify() = %q (scores %v), want aggro", archetype, scores)
	}
	if scores["aggro"] <= scores["control"] {
		t.Errorf("aggro score %v not above control score %v", scores["aggro"], scores["control"])
	}
	if len(scores) != len(defaultTemplates) {
		t.Errorf("got %d scores, want one per template", len(scores))
	}
}

func TestClassifyControl(t *testing.T) {
	engine := NewEngine(&stubCatalog{})

	profile := &DeckProfile{
		ManaValues:    map[int]int{2: 8, 3: 6, 4: 6, 6: 4},
		Keywords:      map[string]int{"counterspell": 8, "removal": 6, "carddraw": 6},
		CreatureCount: 4,
		NonLandCount:  24,
		TotalCards:    36,
	}

	archetype, _ := engine.Classify(profile)
	if archetype != "control" {
		t.Errorf("Classify() = %q, want control", archetype)
	}
}

func TestClassifyEmptyProfileDefaultsToMidrange(t *testing.T) {
	engine := NewEngine(&stubCatalog{})

	profile := &DeckProfile{
		Colors:     map[string]int{},
		ManaValues: map[int]int{},
		Keywords:   map[string]int{},
	}

	archetype, scores := engine.Classify(profile)
	if archetype != "midrange" {
		t.Errorf("Classify() on empty profile = %q, want midrange", archetype)
	}
	for name, score := range scores {
		if score != 0 {
			t.Errorf("empty profile scored %v for %s, want 0", score, name)
		}
	}
}

func TestClassifyTieBreaksToFirstListed(t *testing.T) {
	// Two templates with identical criteria must resolve to the one
	// listed first.
	templates := []ArchetypeTemplate{
		{Name: "first", MinManaValue: 1, MaxManaValue: 3},
		{Name: "second", MinManaValue: 1, MaxManaValue: 3},
		{Name: "midrange", MinManaValue: 6, MaxManaValue: 7},
	}
	engine := NewEngine(&stubCatalog{}, WithTemplates(templates))

	profile := &DeckProfile{
		ManaValues:    map[int]int{1: 10, 2: 10},
		Keywords:      map[string]int{},
		CreatureCount: 10,
		NonLandCount:  20,
		TotalCards:    20,
	}

	archetype, scores := engine.Classify(profile)
	if scores["first"] != scores["second"] {
		t.Fatalf("expected a tie, got %v vs %v", scores["first"], scores["second"])
	}
	if archetype != "first" {
		t.Errorf("tie resolved to %q, want first", archetype)
	}
}

func TestTemplateValidationPanics(t *testing.T) {
	tests := []struct {
		name      string
		templates []ArchetypeTemplate
	}{
		{"empty set", nil},
		{"empty name", []ArchetypeTemplate{{Name: ""}}},
		{"duplicate name", []ArchetypeTemplate{
			{Name: "midrange"}, {Name: "midrange"},
		}},
		{"inverted mana range", []ArchetypeTemplate{
			{Name: "midrange", MinManaValue: 4, MaxManaValue: 2},
		}},
		{"missing default", []ArchetypeTemplate{
			{Name: "aggro", MinManaValue: 1, MaxManaValue: 3},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			mustValidateTemplates(tt.templates)
		})
	}
}

func TestRatioBound(t *testing.T) {
	unbounded := RatioBound{}
	if !unbounded.Satisfied(0.0) || !unbounded.Satisfied(1.0) {
		t.Error("unbounded ratio must accept everything")
	}
	if unbounded.CreatureLeaning() {
		t.Error("unbounded ratio must not be creature-leaning")
	}

	lower := RatioBound{Min: ratio(0.5)}
	if lower.Satisfied(0.4) || !lower.Satisfied(0.5) {
		t.Error("lower bound misbehaved")
	}
	if !lower.CreatureLeaning() {
		t.Error("lower-bounded ratio should be creature-leaning")
	}

	upper := RatioBound{Max: ratio(0.35)}
	if upper.Satisfied(0.4) || !upper.Satisfied(0.35) {
		t.Error("upper bound misbehaved")
	}
}
