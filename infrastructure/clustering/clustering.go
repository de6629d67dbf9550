// Package clustering groups one team's answers to one question into
// clusters of answers that count as the same.
package clustering

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/ahrav/go-quorum/internal/domain"
	"github.com/ahrav/go-quorum/internal/ports"
)

// Strategy names how answers are grouped.
type Strategy string

// Supported clustering strategies.
const (
	// StrategyCanonicalKey groups answers whose canonical keys are identical.
	StrategyCanonicalKey Strategy = "canonical_key"

	// StrategyPairwise merges every pair of answers judged equivalent, even
	// when their keys differ.
	StrategyPairwise Strategy = "pairwise"
)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// Config selects the clustering strategy.
type Config struct {
	// Strategy is either "canonical_key" or "pairwise".
	Strategy Strategy `yaml:"strategy" json:"strategy" validate:"required,oneof=canonical_key pairwise"`
}

// DefaultConfig returns canonical-key clustering.
func DefaultConfig() Config {
	return Config{Strategy: StrategyCanonicalKey}
}

// Matcher is what the builders need from the matching layer.
type Matcher interface {
	ports.AnswerKeyer
	ports.EquivalenceDecider
}

// New creates the ClusterBuilder selected by cfg.
func New(cfg Config, matcher Matcher) (ports.ClusterBuilder, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if matcher == nil {
		return nil, fmt.Errorf("%w: matcher is required", domain.ErrInvalidConfiguration)
	}

	switch cfg.Strategy {
	case StrategyPairwise:
		return NewPairwiseBuilder(matcher), nil
	default:
		return NewKeyBuilder(matcher), nil
	}
}

// keyedAnswer is an answer together with its canonical key.
type keyedAnswer struct {
	answer domain.RawAnswer
	key    string
}

// prepare keeps each player's latest answer to q, in the order the player
// first appeared, and drops answers whose key is empty. Answers without a
// player ID are never merged with each other.
func prepare(answers []domain.RawAnswer, q domain.QuestionID, keyer ports.AnswerKeyer) []keyedAnswer {
	latest := make([]domain.RawAnswer, 0, len(answers))
	position := make(map[domain.PlayerID]int, len(answers))

	for _, a := range answers {
		if a.QuestionID != q {
			continue
		}
		if a.PlayerID != "" {
			if i, seen := position[a.PlayerID]; seen {
				latest[i] = a
				continue
			}
			position[a.PlayerID] = len(latest)
		}
		latest = append(latest, a)
	}

	keyed := make([]keyedAnswer, 0, len(latest))
	for _, a := range latest {
		if key := keyer.CanonicalKey(a.Text, q); key != "" {
			keyed = append(keyed, keyedAnswer{answer: a, key: key})
		}
	}
	return keyed
}

// qualifying drops clusters below the qualifying size and orders the rest
// by size, largest first. The sort is stable, so equal sizes keep the
// first-seen order they arrived in.
func qualifying(clusters []domain.AnswerCluster) []domain.AnswerCluster {
	out := make([]domain.AnswerCluster, 0, len(clusters))
	for _, c := range clusters {
		if c.Qualifies() {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.AnswerCluster) int {
		return b.Size - a.Size
	})
	return out
}
