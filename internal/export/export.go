package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/deckadvisor/deck-advisor/internal/advisor"
)

// Format represents the export format.
type Format string

const (
	// FormatCSV represents CSV export format.
	FormatCSV Format = "csv"
	// FormatJSON represents JSON export format.
	FormatJSON Format = "json"
)

// ParseFormat converts a user-supplied format string to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", s)
	}
}

// Options holds configuration for export operations.
type Options struct {
	Format     Format
	FilePath   string
	PrettyJSON bool
	Overwrite  bool
}

// WriteRecommendations exports a recommendation list to an io.Writer.
// Useful for writing to stdout or other streams.
func WriteRecommendations(w io.Writer, format Format, recs []*advisor.Recommendation, prettyJSON bool) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		if prettyJSON {
			encoder.SetIndent("", "  ")
		}
		return encoder.Encode(recs)
	case FormatCSV:
		return writeRecommendationsCSV(w, recs)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// ExportRecommendations exports a recommendation list to a file per the
// given options.
func ExportRecommendations(recs []*advisor.Recommendation, opts Options) (err error) {
	if len(recs) == 0 {
		return fmt.Errorf("no data to export")
	}

	file, fileErr := createFile(opts)
	if fileErr != nil {
		return fileErr
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return WriteRecommendations(file, opts.Format, recs, opts.PrettyJSON)
}

var recommendationHeader = []string{
	"Name", "Mana Cost", "Type", "Rarity",
	"Confidence", "Synergy", "Meta", "Deck Fit",
	"Ownership", "Reasons",
}

func writeRecommendationsCSV(w io.Writer, recs []*advisor.Recommendation) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(recommendationHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, rec := range recs {
		row := []string{
			rec.Name,
			rec.ManaCost,
			rec.TypeLine,
			rec.Rarity,
			formatScore(rec.Confidence),
			formatScore(rec.Synergy),
			formatScore(rec.Meta),
			formatScore(rec.DeckFit),
			string(rec.Ownership),
			strings.Join(rec.Reasons, "; "),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}
	return nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// createFile creates the output file, handling overwrite settings.
func createFile(opts Options) (*os.File, error) {
	dir := filepath.Dir(opts.FilePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	if _, err := os.Stat(opts.FilePath); err == nil && !opts.Overwrite {
		return nil, fmt.Errorf("file already exists: %s (use overwrite option to replace)", opts.FilePath)
	}

	file, err := os.Create(opts.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return file, nil
}

// GenerateFilename generates a default filename based on the export type and format.
func GenerateFilename(exportType string, format Format) string {
	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("%s_%s.%s", exportType, timestamp, format)
}
