package deckimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/deckadvisor/deck-advisor/internal/deck"
)

// ParseCollectionCSV reads a collection export with a header row. The
// card name, regular and foil quantity columns are located by header
// name, so column order does not matter. A missing foil column is
// treated as zero foils.
func ParseCollectionCSV(r io.Reader) (deck.Collection, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	nameCol, qtyCol, foilCol := -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "name", "card name", "card":
			nameCol = i
		case "quantity", "qty", "count", "regular":
			qtyCol = i
		case "foil", "foil quantity", "foil qty":
			foilCol = i
		}
	}
	if nameCol < 0 || qtyCol < 0 {
		return nil, fmt.Errorf("CSV header missing name or quantity column")
	}

	collection := make(deck.Collection)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read CSV line %d: %w", line, err)
		}
		if nameCol >= len(record) || qtyCol >= len(record) {
			continue
		}

		name := strings.TrimSpace(record[nameCol])
		if name == "" {
			continue
		}

		qty, err := strconv.Atoi(strings.TrimSpace(record[qtyCol]))
		if err != nil {
			return nil, fmt.Errorf("CSV line %d: bad quantity %q", line, record[qtyCol])
		}

		foil := 0
		if foilCol >= 0 && foilCol < len(record) && strings.TrimSpace(record[foilCol]) != "" {
			foil, err = strconv.Atoi(strings.TrimSpace(record[foilCol]))
			if err != nil {
				return nil, fmt.Errorf("CSV line %d: bad foil quantity %q", line, record[foilCol])
			}
		}

		collection.Add(name, qty, foil)
	}
	return collection, nil
}
