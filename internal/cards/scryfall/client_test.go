package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deckadvisor/deck-advisor/internal/cards"
)

func TestLookupByName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cards/named" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("exact"); got != "Lightning Bolt" {
			t.Errorf("exact = %q, want Lightning Bolt", got)
		}
		_ = json.NewEncoder(w).Encode(Card{
			Name:     "Lightning Bolt",
			CMC:      1,
			TypeLine: "Instant",
			ManaCost: "{R}",
			Colors:   []string{"R"},
			Rarity:   "common",
		})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	card, err := client.LookupByName(context.Background(), "Lightning Bolt")
	if err != nil {
		t.Fatalf("LookupByName error: %v", err)
	}
	if card == nil || card.Name != "Lightning Bolt" || card.ManaValue != 1 {
		t.Errorf("unexpected card: %+v", card)
	}
}

func TestLookupByNameNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	card, err := client.LookupByName(context.Background(), "Not A Card")
	if err != nil {
		t.Fatalf("missing card must not be an error, got: %v", err)
	}
	if card != nil {
		t.Errorf("missing card yielded %+v, want nil", card)
	}
}

func TestSearchPagination(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		if page == "2" {
			_ = json.NewEncoder(w).Encode(SearchResult{
				Data: []*Card{{Name: "Card C"}, {Name: "Card D"}},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(SearchResult{
			HasMore:  true,
			NextPage: server.URL + "/cards/search?page=2",
			Data:     []*Card{{Name: "Card A"}, {Name: "Card B"}},
		})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	result, err := client.Search(context.Background(), cards.Query{}, 3)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("got %d cards, want 3 (limit honored across pages)", len(result))
	}
	if result[2].Name != "Card C" {
		t.Errorf("third card = %q, want Card C", result[2].Name)
	}
}

func TestSearchEmptyResultIsNotError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The search endpoint answers 404 when nothing matches.
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	result, err := client.Search(context.Background(), cards.Query{Format: "standard"}, 5)
	if err != nil {
		t.Fatalf("empty search must not error, got: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("got %d cards, want 0", len(result))
	}
}

func TestSearchRetriesOn429(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(SearchResult{Data: []*Card{{Name: "Card A"}}})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	result, err := client.Search(context.Background(), cards.Query{}, 1)
	if err != nil {
		t.Fatalf("Search error after retry: %v", err)
	}
	if attempts != 2 {
		t.Errorf("made %d attempts, want 2", attempts)
	}
	if len(result) != 1 {
		t.Errorf("got %d cards, want 1", len(result))
	}
}

func TestAPIErrorSurface(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"status":400,"code":"bad_request","details":"invalid query"}`)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	_, err := client.Search(context.Background(), cards.Query{}, 5)
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name  string
		query cards.Query
		want  string
	}{
		{
			"colors and format",
			cards.Query{ColorIdentity: []string{"W", "U"}, Format: "Standard"},
			"id<=wu f:standard",
		},
		{
			"exact mana value wins over range",
			cards.Query{Exact: cards.IntPtr(3), Min: cards.IntPtr(1)},
			"mv=3",
		},
		{
			"mana value range",
			cards.Query{Min: cards.IntPtr(2), Max: cards.IntPtr(5)},
			"mv>=2 mv<=5",
		},
		{
			"single text term",
			cards.Query{TextAny: []string{"haste"}},
			"o:haste",
		},
		{
			"multiple text terms join with or",
			cards.Query{TextAny: []string{"haste", "first strike"}},
			`(o:haste or o:"first strike")`,
		},
		{
			"exclusions",
			cards.Query{ExcludeRarities: []string{"Mythic"}, ExcludeBasicLands: true},
			"-r:mythic -t:basic",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildQuery(tt.query); got != tt.want {
				t.Errorf("BuildQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToCardMultiFace(t *testing.T) {
	sc := &Card{
		Name: "Delver of Secrets // Insectile Aberration",
		CMC:  1,
		CardFaces: []CardFace{
			{Name: "Delver of Secrets", TypeLine: "Creature — Human Wizard", ManaCost: "{U}", OracleText: "At the beginning of your upkeep...", Colors: []string{"U"}},
			{Name: "Insectile Aberration", TypeLine: "Creature — Human Insect", OracleText: "Flying"},
		},
	}

	card := sc.ToCard()
	if card.TypeLine != "Creature — Human Wizard" {
		t.Errorf("TypeLine = %q, want front face type line", card.TypeLine)
	}
	if card.ManaCost != "{U}" {
		t.Errorf("ManaCost = %q, want front face cost", card.ManaCost)
	}
	if len(card.Colors) != 1 || card.Colors[0] != "U" {
		t.Errorf("Colors = %v, want [U]", card.Colors)
	}
}
