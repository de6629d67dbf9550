package matching

import (
	"fmt"
	"unicode/utf8"

	"github.com/ahrav/go-quorum/internal/domain"
	"github.com/ahrav/go-quorum/internal/ports"
)

var (
	_ ports.EquivalenceDecider = (*Decider)(nil)
	_ ports.AnswerKeyer        = (*Decider)(nil)
)

// Decider decides whether two answers to the same question are the same
// answer. Date questions compare canonical dates; everything else, and any
// date answer that fails to parse, is compared by similarity against a
// length-adaptive threshold.
//
// The decider is stateless and thread-safe for concurrent execution.
type Decider struct {
	layout     domain.Layout
	config     Config
	normalizer ports.Normalizer
	dates      ports.DateParser
	scorer     ports.SimilarityScorer
}

// NewDecider creates a Decider for the given game layout.
// Returns an error if configuration validation fails.
func NewDecider(layout domain.Layout, cfg Config) (*Decider, error) {
	scorer, err := NewScorer(cfg)
	if err != nil {
		return nil, err
	}
	if layout.QuestionsPerRound < 1 {
		return nil, fmt.Errorf("%w: layout needs at least one question per round", domain.ErrInvalidConfiguration)
	}

	return &Decider{
		layout:     layout,
		config:     cfg,
		normalizer: TextNormalizer{},
		dates:      DateParser{},
		scorer:     scorer,
	}, nil
}

// IsDateQuestion reports whether q occupies a date slot of the layout.
func (d *Decider) IsDateQuestion(q domain.QuestionID) bool {
	return d.layout.IsDateQuestion(q.Round, q.Slot)
}

// Threshold returns the similarity two answers must reach when the shorter
// one has minLength runes.
func (d *Decider) Threshold(minLength int) float64 { return d.config.Threshold(minLength) }

// Similarity exposes the underlying scorer.
func (d *Decider) Similarity(a, b string) float64 { return d.scorer.Similarity(a, b) }

// Equivalent implements ports.EquivalenceDecider. Outside a date match the
// decision is exactly Similarity(a, b) >= Threshold(shorter length), so two
// answers that both normalize to nothing are equivalent. Clustering drops
// such answers before they are compared.
func (d *Decider) Equivalent(a, b string, q domain.QuestionID) bool {
	if d.IsDateQuestion(q) {
		da, okA := d.dates.ParseDate(a)
		db, okB := d.dates.ParseDate(b)
		if okA && okB {
			return da == db
		}
	}

	minLength := min(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	return d.scorer.Similarity(a, b) >= d.Threshold(minLength)
}

// CanonicalKey returns the grouping key of an answer: the "DD/MM" form of a
// parsed date on date questions, the normalized text otherwise. Date keys
// contain a slash, which normalized text never does, so the two key spaces
// cannot collide. An empty key means the answer cannot be grouped.
func (d *Decider) CanonicalKey(text string, q domain.QuestionID) string {
	if d.IsDateQuestion(q) {
		if date, ok := d.dates.ParseDate(text); ok {
			return date.Key()
		}
	}
	return d.normalizer.Normalize(text)
}
