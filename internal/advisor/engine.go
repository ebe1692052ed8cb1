package advisor

import (
	"context"
	"log/slog"

	"github.com/deckadvisor/deck-advisor/internal/cards"
	"github.com/deckadvisor/deck-advisor/internal/deck"
)

// Engine produces ranked card-addition recommendations for a deck. It is
// a best-effort heuristic advisor: scoring weights are hand-tuned
// constants, not learned values.
//
// The engine is synchronous; each call performs a bounded number of
// catalog lookups. Callers with responsiveness requirements should invoke
// it from a background worker. Invocations for different decks share no
// mutable state.
type Engine struct {
	catalog    cards.Catalog
	logger     *slog.Logger
	templates  []ArchetypeTemplate
	generators []candidateGenerator
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTemplates replaces the archetype template set. The templates are
// validated immediately; malformed configuration panics, since it is a
// programming error rather than a runtime condition.
func WithTemplates(templates []ArchetypeTemplate) Option {
	return func(e *Engine) {
		e.templates = mustValidateTemplates(templates)
	}
}

// NewEngine creates a recommendation engine backed by the given catalog.
// The catalog is the engine's only external dependency; there is no
// ambient global state.
func NewEngine(catalog cards.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:   catalog,
		logger:    slog.Default(),
		templates: defaultTemplates,
	}
	for _, opt := range opts {
		opt(e)
	}

	// Fixed strategy order; the ranker's dedup gives earlier generators
	// priority when a card is suggested by several of them.
	e.generators = []candidateGenerator{
		&staplesGenerator{catalog: e.catalog, logger: e.logger},
		&archetypeFitGenerator{catalog: e.catalog, logger: e.logger},
		&synergyGenerator{catalog: e.catalog, logger: e.logger},
		&curveGapGenerator{catalog: e.catalog, logger: e.logger},
	}
	return e
}

// Recommend returns up to count ranked recommendations for the deck.
// It is stateless and one-shot; identical inputs against a deterministic
// catalog yield identical output. An empty deck yields an empty list.
func (e *Engine) Recommend(
	ctx context.Context,
	d *deck.Deck,
	collection deck.Collection,
	count int,
	format string,
) ([]*Recommendation, error) {
	if d == nil || d.MainboardCount() == 0 || count <= 0 {
		return []*Recommendation{}, nil
	}

	profile := e.Analyze(ctx, d)
	archetype, scores := e.Classify(profile)
	e.logger.Debug("classified deck",
		"deck", d.Name, "archetype", archetype, "scores", scores)

	req := &generateRequest{
		profile:   profile,
		template:  e.templateByName(archetype),
		deckNames: d.NameSet(),
		colors:    d.Colors(),
		format:    format,
		limit:     count,
	}

	lists := make([][]*Recommendation, 0, len(e.generators))
	for _, g := range e.generators {
		candidates := g.generate(ctx, req)
		e.logger.Debug("generated candidates",
			"strategy", g.name(), "count", len(candidates))
		lists = append(lists, candidates)
	}

	ranked := rankRecommendations(lists...)
	annotateOwnership(ranked, collection)

	if len(ranked) > count {
		ranked = ranked[:count]
	}
	return ranked, nil
}
