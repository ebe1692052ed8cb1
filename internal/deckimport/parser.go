// Package deckimport parses deck lists and collection exports from the
// plain-text formats commonly produced by deck builders.
package deckimport

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/deckadvisor/deck-advisor/internal/cards"
	"github.com/deckadvisor/deck-advisor/internal/deck"
)

// arenaLine matches the Arena export format:
//
//	4 Lightning Bolt (M21) 123
//
// The set code and collector number are optional, which also covers
// plain "4 Lightning Bolt" lists.
var arenaLine = regexp.MustCompile(`^(\d+)\s+(.+?)(?:\s+\(([A-Z0-9]{2,6})\)\s+(\S+))?$`)

// ParseError reports a line that could not be parsed.
type ParseError struct {
	Line int
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: cannot parse %q", e.Line, e.Text)
}

// ParseDeck reads a deck list in Arena or plain-text format. Section
// headers "Deck", "Mainboard", "Sideboard", and "Commander" are
// recognized; blank lines after the mainboard also switch to the
// sideboard, matching Arena's untitled export. Duplicate entries for
// the same card merge their quantities.
func ParseDeck(r io.Reader, name, format string) (*deck.Deck, error) {
	d := &deck.Deck{Name: name, Format: format}

	scanner := bufio.NewScanner(r)
	sideboard := false
	sawMainboard := false
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			if sawMainboard {
				sideboard = true
			}
			continue
		}
		if strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") {
			continue
		}

		switch strings.ToLower(line) {
		case "deck", "mainboard", "main", "commander":
			sideboard = false
			continue
		case "sideboard", "side":
			sideboard = true
			continue
		}

		qty, cardName, ok := parseEntry(line)
		if !ok {
			return nil, &ParseError{Line: lineNo, Text: line}
		}

		d.AddCard(cards.Card{Name: cardName}, qty, sideboard)
		if !sideboard {
			sawMainboard = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read deck list: %w", err)
	}
	if len(d.Entries) == 0 {
		return nil, fmt.Errorf("deck list is empty")
	}
	return d, nil
}

func parseEntry(line string) (qty int, name string, ok bool) {
	m := arenaLine.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}
	qty, err := strconv.Atoi(m[1])
	if err != nil || qty <= 0 {
		return 0, "", false
	}
	return qty, strings.TrimSpace(m[2]), true
}
