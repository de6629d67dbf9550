package matching

import (
	"fmt"
)

// Algorithm names the generic string-similarity coefficient used once the
// exact and substring shortcuts do not apply.
type Algorithm string

// Supported similarity algorithms.
const (
	// AlgorithmDice is the Sørensen–Dice coefficient over character bigrams.
	AlgorithmDice Algorithm = "dice"

	// AlgorithmLevenshtein is 1 - editDistance/maxLength.
	AlgorithmLevenshtein Algorithm = "levenshtein"
)

// ThresholdBand maps answers up to MaxLength runes to the similarity they
// must reach to be considered equivalent.
type ThresholdBand struct {
	// MaxLength is the inclusive upper bound on the shorter answer's length.
	MaxLength int `yaml:"max_length" json:"max_length" validate:"min=0"`

	// Threshold is the minimum similarity, 0.0-1.0.
	Threshold float64 `yaml:"threshold" json:"threshold" validate:"min=0.0,max=1.0"`
}

// Config defines the parameters of the equivalence decision.
// All fields are validated during Decider creation.
type Config struct {
	// Algorithm selects the fallback similarity coefficient.
	Algorithm Algorithm `yaml:"algorithm" json:"algorithm" validate:"required,oneof=dice levenshtein"`

	// Bands lists length bands in ascending MaxLength order.
	Bands []ThresholdBand `yaml:"bands" json:"bands" validate:"required,min=1,max=16,ascending_bands,dive"`

	// LongThreshold applies when the shorter answer is longer than every band.
	LongThreshold float64 `yaml:"long_threshold" json:"long_threshold" validate:"min=0.0,max=1.0"`

	// MaxAnswerLength caps how many runes of each answer the Levenshtein
	// distance compares. Runes past the cap count as edits.
	MaxAnswerLength int `yaml:"max_answer_length" json:"max_answer_length" validate:"min=1,max=10000"`
}

// DefaultConfig returns the standard length-adaptive thresholds: very short
// answers need near-exact matches, long answers tolerate more noise.
func DefaultConfig() Config {
	return Config{
		Algorithm: AlgorithmDice,
		Bands: []ThresholdBand{
			{MaxLength: 5, Threshold: 0.90},
			{MaxLength: 10, Threshold: 0.85},
			{MaxLength: 20, Threshold: 0.80},
		},
		LongThreshold:   0.75,
		MaxAnswerLength: 256,
	}
}

// Validate checks the configuration against its struct tags.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// Threshold returns the similarity required for answers whose shorter side
// has minLength runes.
func (c Config) Threshold(minLength int) float64 {
	for _, band := range c.Bands {
		if minLength <= band.MaxLength {
			return band.Threshold
		}
	}
	return c.LongThreshold
}
