// Package export renders deck analysis results as interactive HTML
// charts.
package export

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/deckadvisor/deck-advisor/internal/advisor"
)

// ChartConfig holds rendering options shared by all charts.
type ChartConfig struct {
	Width  string
	Height string
	Theme  string
	Colors []string
}

// DefaultChartConfig returns the standard chart appearance.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:  "900px",
		Height: "500px",
		Theme:  "light",
		Colors: []string{"#5470C6", "#91CC75", "#FAC858", "#EE6666"},
	}
}

// idealCurveShare mirrors the curve targets the recommendation engine
// aims for, used here only for the comparison series.
var idealCurveShare = map[int]float64{
	1: 0.20,
	2: 0.30,
	3: 0.25,
	4: 0.15,
	5: 0.10,
}

// RenderCurveChart writes a bar chart comparing the deck's actual mana
// curve against the ideal distribution scaled to the same card count.
func RenderCurveChart(deckName string, profile *advisor.DeckProfile, config ChartConfig, outputPath string) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Mana Curve",
			Subtitle: deckName,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
		charts.WithColorsOpts(opts.Colors{config.Colors[0], config.Colors[1]}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Mana Value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Cards"}),
	)

	maxBucket := 7
	nonLand := float64(profile.NonLandCount)

	labels := make([]string, 0, maxBucket+1)
	actual := make([]opts.BarData, 0, maxBucket+1)
	ideal := make([]opts.BarData, 0, maxBucket+1)
	for mv := 0; mv <= maxBucket; mv++ {
		label := fmt.Sprintf("%d", mv)
		if mv == maxBucket {
			label = "7+"
		}
		labels = append(labels, label)
		actual = append(actual, opts.BarData{Value: profile.ManaValues[mv]})
		ideal = append(ideal, opts.BarData{Value: idealCurveShare[mv] * nonLand})
	}

	bar.SetXAxis(labels).
		AddSeries("Actual", actual).
		AddSeries("Ideal", ideal)

	return renderToFile(bar, outputPath)
}

// RenderArchetypeChart writes a bar chart of the archetype match scores
// produced by classification.
func RenderArchetypeChart(deckName, archetype string, scores map[string]float64, config ChartConfig, outputPath string) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Archetype Scores",
			Subtitle: fmt.Sprintf("%s (classified as %s)", deckName, archetype),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithColorsOpts(opts.Colors{config.Colors[0]}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Score"}),
	)

	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)

	data := make([]opts.BarData, len(names))
	for i, name := range names {
		data[i] = opts.BarData{Value: scores[name]}
	}

	bar.SetXAxis(names).AddSeries("Score", data)

	return renderToFile(bar, outputPath)
}

type renderer interface {
	Render(w io.Writer) error
}

func renderToFile(chart renderer, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := chart.Render(f); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
