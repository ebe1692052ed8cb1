package cards

import (
	"reflect"
	"testing"
)

func TestManaValueBucket(t *testing.T) {
	tests := []struct {
		name string
		mv   float64
		want int
	}{
		{"zero", 0, 0},
		{"one", 1, 1},
		{"six", 6, 6},
		{"seven", 7, 7},
		{"ten caps at seven", 10, 7},
		{"fractional truncates", 2.5, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Card{ManaValue: tt.mv}
			if got := c.ManaValueBucket(); got != tt.want {
				t.Errorf("ManaValueBucket(%v) = %d, want %d", tt.mv, got, tt.want)
			}
		})
	}
}

func TestTypePredicates(t *testing.T) {
	tests := []struct {
		typeLine  string
		creature  bool
		land      bool
		basicLand bool
	}{
		{"Creature — Elf Druid", true, false, false},
		{"Legendary Creature — Dragon", true, false, false},
		{"Basic Land — Forest", false, true, true},
		{"Land — Gate", false, true, false},
		{"Instant", false, false, false},
		{"Artifact Creature — Golem", true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.typeLine, func(t *testing.T) {
			c := &Card{TypeLine: tt.typeLine}
			if got := c.IsCreature(); got != tt.creature {
				t.Errorf("IsCreature() = %v, want %v", got, tt.creature)
			}
			if got := c.IsLand(); got != tt.land {
				t.Errorf("IsLand() = %v, want %v", got, tt.land)
			}
			if got := c.IsBasicLand(); got != tt.basicLand {
				t.Errorf("IsBasicLand() = %v, want %v", got, tt.basicLand)
			}
		})
	}
}

func TestLegalIn(t *testing.T) {
	c := &Card{Legalities: map[string]string{"standard": "legal", "modern": "banned"}}

	if !c.LegalIn("standard") {
		t.Error("expected legal in standard")
	}
	if !c.LegalIn("Standard") {
		t.Error("expected format lookup to be case-insensitive")
	}
	if c.LegalIn("modern") {
		t.Error("banned card reported as legal")
	}
	if c.LegalIn("vintage") {
		t.Error("unknown format reported as legal")
	}

	none := &Card{}
	if none.LegalIn("standard") {
		t.Error("card without legality data reported as legal")
	}
}

func TestFitsColors(t *testing.T) {
	tests := []struct {
		name   string
		colors []string
		deck   []string
		want   bool
	}{
		{"mono fits", []string{"R"}, []string{"R", "G"}, true},
		{"off-color rejected", []string{"U"}, []string{"R", "G"}, false},
		{"multicolor partial rejected", []string{"R", "B"}, []string{"R", "G"}, false},
		{"colorless always fits", nil, []string{"W"}, true},
		{"case-insensitive", []string{"r"}, []string{"R"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Card{Colors: tt.colors}
			if got := c.FitsColors(tt.deck); got != tt.want {
				t.Errorf("FitsColors(%v) = %v, want %v", tt.deck, got, tt.want)
			}
		})
	}
}

func TestTypesAndSubtypes(t *testing.T) {
	c := &Card{TypeLine: "Legendary Creature — Elf Druid"}

	wantTypes := []string{"Creature", "Legendary"}
	if got := c.Types(); !reflect.DeepEqual(got, wantTypes) {
		t.Errorf("Types() = %v, want %v", got, wantTypes)
	}

	wantSubs := []string{"Elf", "Druid"}
	if got := c.Subtypes(); !reflect.DeepEqual(got, wantSubs) {
		t.Errorf("Subtypes() = %v, want %v", got, wantSubs)
	}

	plain := &Card{TypeLine: "Instant"}
	if got := plain.Subtypes(); got != nil {
		t.Errorf("Subtypes() on plain type line = %v, want nil", got)
	}
}
