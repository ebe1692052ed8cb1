package cards

import (
	"sort"
	"strings"
)

// abilityKeywords maps a keyword tag to the oracle-text substrings that
// indicate it. The table is fixed; the analyzer and every candidate
// generator share it so that keyword tags are comparable across components.
var abilityKeywords = map[string][]string{
	"flying":       {"flying"},
	"first strike": {"first strike"},
	"deathtouch":   {"deathtouch"},
	"haste":        {"haste"},
	"hexproof":     {"hexproof"},
	"lifelink":     {"lifelink"},
	"menace":       {"menace"},
	"reach":        {"reach"},
	"trample":      {"trample"},
	"vigilance":    {"vigilance"},
	"ward":         {"ward"},
	"flash":        {"flash"},
	"defender":     {"defender"},
	"prowess":      {"prowess"},
	"flashback":    {"flashback"},
	"sacrifice":    {"sacrifice"},
	"counterspell": {"counter target spell", "counter that spell"},
	"token":        {"create", "token"},
	"graveyard":    {"from your graveyard", "in your graveyard"},
	"lifegain":     {"gain life", "gains life", "you gain"},
	"carddraw":     {"draw a card", "draw two cards", "draws a card"},
	"ramp":         {"search your library for a land", "search your library for a basic land", "untap target land"},
	"removal":      {"destroy target", "exile target", "deals damage to target"},
	"counters":     {"+1/+1 counter"},
}

// ExtractKeywords returns the ability keyword tags present in the given
// oracle text, sorted for deterministic output.
func ExtractKeywords(oracleText string) []string {
	set := KeywordSet(oracleText)
	if len(set) == 0 {
		return nil
	}
	keywords := make([]string, 0, len(set))
	for kw := range set {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)
	return keywords
}

// KeywordSet returns the ability keyword tags present in the given oracle
// text as a set.
func KeywordSet(oracleText string) map[string]bool {
	if oracleText == "" {
		return nil
	}
	lower := strings.ToLower(oracleText)
	set := make(map[string]bool)
	for tag, patterns := range abilityKeywords {
		if tag == "token" {
			// Token generation needs both "create" and "token" in the text;
			// either word alone is too common to be a signal.
			if strings.Contains(lower, "create") && strings.Contains(lower, "token") {
				set[tag] = true
			}
			continue
		}
		for _, p := range patterns {
			if strings.Contains(lower, p) {
				set[tag] = true
				break
			}
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}
