package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deckadvisor/deck-advisor/internal/deck"
)

// ErrBatchStateMismatch is returned when a BatchState created for one deck
// is used with another. Silently accepting it would cross-contaminate the
// already-returned sets, so it is a hard caller error.
var ErrBatchStateMismatch = errors.New("batch state belongs to a different deck")

// BatchState tracks incremental recommendation retrieval for one deck.
// It is session-scoped and owned by the caller; it must not be shared
// across callers analyzing different decks. It is not safe for concurrent
// use.
type BatchState struct {
	fingerprint string
	seen        map[string]bool
	requested   int
	exhausted   bool
}

// NewBatchState creates batch state bound to the given deck.
func NewBatchState(d *deck.Deck) *BatchState {
	s := &BatchState{}
	s.Reset(d)
	return s
}

// Reset clears returned-name tracking and re-binds the state to a deck,
// reverting to the active state.
func (s *BatchState) Reset(d *deck.Deck) {
	s.fingerprint = ""
	if d != nil {
		s.fingerprint = d.Fingerprint()
	}
	s.seen = make(map[string]bool)
	s.requested = 0
	s.exhausted = false
}

// Exhausted reports whether the result space has run dry. Once exhausted,
// further requests return empty results until Reset.
func (s *BatchState) Exhausted() bool { return s.exhausted }

// ReturnedCount returns how many distinct recommendations have been
// handed out so far.
func (s *BatchState) ReturnedCount() int { return len(s.seen) }

// RecommendBatch returns up to increment additional recommendations for
// the deck, excluding everything already returned through the same state.
// The state transitions to exhausted when a request yields fewer than half
// of the requested increment, or no new candidates at all; subsequent
// calls then return an empty list without error.
func (e *Engine) RecommendBatch(
	ctx context.Context,
	state *BatchState,
	d *deck.Deck,
	collection deck.Collection,
	increment int,
	format string,
) ([]*Recommendation, error) {
	if state == nil {
		return nil, errors.New("nil batch state")
	}
	if d == nil {
		return nil, errors.New("nil deck")
	}
	if state.fingerprint != d.Fingerprint() {
		return nil, fmt.Errorf("%w: deck %q", ErrBatchStateMismatch, d.Name)
	}
	if state.exhausted || increment <= 0 {
		return []*Recommendation{}, nil
	}

	// Regenerate the full ranked set up to the cumulative target, then
	// slice off everything already returned.
	target := len(state.seen) + increment
	full, err := e.Recommend(ctx, d, collection, target, format)
	if err != nil {
		return nil, err
	}

	fresh := make([]*Recommendation, 0, increment)
	for _, rec := range full {
		if len(fresh) >= increment {
			break
		}
		key := strings.ToLower(rec.Name)
		if state.seen[key] {
			continue
		}
		state.seen[key] = true
		fresh = append(fresh, rec)
	}
	state.requested += increment

	if len(fresh) == 0 || len(fresh)*2 < increment {
		state.exhausted = true
	}

	return fresh, nil
}
