package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deckadvisor/deck-advisor/internal/advisor"
)

func sampleRecommendations() []*advisor.Recommendation {
	return []*advisor.Recommendation{
		{
			Name:       "Lightning Bolt",
			ManaCost:   "{R}",
			TypeLine:   "Instant",
			Rarity:     "uncommon",
			Confidence: 0.85,
			Synergy:    0.5,
			Meta:       0.9,
			DeckFit:    0.7,
			Reasons:    []string{"Format staple", "Fits your colors"},
			Ownership:  advisor.OwnershipOwned,
		},
		{
			Name:       "Monastery Swiftspear",
			ManaCost:   "{R}",
			TypeLine:   "Creature - Human Monk",
			Rarity:     "common",
			Confidence: 0.72,
			Reasons:    []string{"Matches your aggro gameplan"},
			Ownership:  advisor.OwnershipCraftCommon,
		},
	}
}

func TestWriteRecommendationsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecommendations(&buf, FormatCSV, sampleRecommendations(), false); err != nil {
		t.Fatalf("WriteRecommendations error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}
	if records[0][0] != "Name" {
		t.Errorf("header starts with %q, want Name", records[0][0])
	}
	if records[1][0] != "Lightning Bolt" {
		t.Errorf("first row name = %q", records[1][0])
	}
	if records[1][4] != "0.85" {
		t.Errorf("confidence column = %q, want 0.85", records[1][4])
	}
	if !strings.Contains(records[1][9], "; ") {
		t.Errorf("reasons column should join with semicolons, got %q", records[1][9])
	}
	if records[2][8] != string(advisor.OwnershipCraftCommon) {
		t.Errorf("ownership column = %q", records[2][8])
	}
}

func TestWriteRecommendationsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecommendations(&buf, FormatJSON, sampleRecommendations(), true); err != nil {
		t.Fatalf("WriteRecommendations error: %v", err)
	}

	var decoded []advisor.Recommendation
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(decoded))
	}
	if decoded[0].Name != "Lightning Bolt" {
		t.Errorf("first name = %q", decoded[0].Name)
	}
	if decoded[1].Ownership != advisor.OwnershipCraftCommon {
		t.Errorf("ownership = %q", decoded[1].Ownership)
	}
}

func TestExportRecommendationsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recs.csv")
	opts := Options{Format: FormatCSV, FilePath: path}

	if err := ExportRecommendations(sampleRecommendations(), opts); err != nil {
		t.Fatalf("ExportRecommendations error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Lightning Bolt") {
		t.Error("exported file missing expected row")
	}

	// A second export without overwrite must refuse to clobber the file.
	if err := ExportRecommendations(sampleRecommendations(), opts); err == nil {
		t.Error("expected error when file exists and overwrite is off")
	}
	opts.Overwrite = true
	if err := ExportRecommendations(sampleRecommendations(), opts); err != nil {
		t.Errorf("overwrite export failed: %v", err)
	}
}

func TestExportRecommendationsEmpty(t *testing.T) {
	opts := Options{Format: FormatCSV, FilePath: filepath.Join(t.TempDir(), "recs.csv")}
	if err := ExportRecommendations(nil, opts); err == nil {
		t.Error("expected error for empty recommendation list")
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("CSV"); err != nil || f != FormatCSV {
		t.Errorf("ParseFormat(CSV) = %v, %v", f, err)
	}
	if f, err := ParseFormat(" json "); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(json) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestGenerateFilename(t *testing.T) {
	name := GenerateFilename("recommendations", FormatJSON)
	if !strings.HasPrefix(name, "recommendations_") || !strings.HasSuffix(name, ".json") {
		t.Errorf("unexpected filename %q", name)
	}
}
