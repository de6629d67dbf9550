package matching

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/ahrav/go-quorum/internal/ports"
)

var _ ports.SimilarityScorer = (*Scorer)(nil)

// ContainmentScore is returned when a one-word answer appears inside the
// other answer, e.g. "Tesco" and "Tesco Express".
const ContainmentScore = 0.9

// Scorer computes the similarity between two raw answers.
// The scorer is stateless and thread-safe for concurrent execution.
type Scorer struct {
	algorithm  Algorithm
	maxRunes   int
	normalizer ports.Normalizer
}

// NewScorer creates a Scorer for the algorithm and answer-length cap in cfg.
func NewScorer(cfg Config) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{
		algorithm:  cfg.Algorithm,
		maxRunes:   cfg.MaxAnswerLength,
		normalizer: TextNormalizer{},
	}, nil
}

// Similarity returns a score in [0, 1]. Exact matches after normalization
// score 1.0 and one-word containment scores ContainmentScore; both are
// checked on the full normalized answers before the generic coefficient,
// which under-scores short strings contained in longer ones.
func (s *Scorer) Similarity(a, b string) float64 {
	na := s.normalizer.Normalize(a)
	nb := s.normalizer.Normalize(b)

	if na == nb {
		return 1.0
	}

	if containsSingleToken(na, nb) || containsSingleToken(nb, na) {
		return ContainmentScore
	}

	switch s.algorithm {
	case AlgorithmLevenshtein:
		return s.boundedLevenshtein(na, nb)
	default:
		return DiceCoefficient(na, nb)
	}
}

// String describes the scorer for logs and traces.
func (s *Scorer) String() string {
	return fmt.Sprintf("scorer(algorithm=%s, max_runes=%d)", s.algorithm, s.maxRunes)
}

// containsSingleToken reports whether word is a single non-empty token that
// occurs inside text.
func containsSingleToken(word, text string) bool {
	if word == "" || strings.Contains(word, " ") {
		return false
	}
	return strings.Contains(text, word)
}

// DiceCoefficient returns the Sørensen–Dice coefficient of the character
// bigram multisets of a and b. Spaces take part in bigrams. Strings shorter
// than two runes score 0 unless identical.
func DiceCoefficient(a, b string) float64 {
	if a == b {
		return 1.0
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) < 2 || len(rb) < 2 {
		return 0
	}

	type bigram [2]rune
	counts := make(map[bigram]int, len(ra)-1)
	for i := 0; i < len(ra)-1; i++ {
		counts[bigram{ra[i], ra[i+1]}]++
	}

	matches := 0
	for i := 0; i < len(rb)-1; i++ {
		bg := bigram{rb[i], rb[i+1]}
		if counts[bg] > 0 {
			counts[bg]--
			matches++
		}
	}

	return float64(2*matches) / float64(len(ra)+len(rb)-2)
}

// LevenshteinRatio returns 1 - distance/maxLength over runes. Two empty
// strings score 1.0.
func LevenshteinRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}

	// The levenshtein library operates on runes, so lengths are rune counts.
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(a, b)
	similarity := 1.0 - float64(distance)/float64(maxLen)
	if similarity < 0 {
		similarity = 0
	}
	return similarity
}

// boundedLevenshtein is LevenshteinRatio with the edit distance computed
// over at most maxRunes runes per side. Runes past the cap count as edits, so
// two answers that differ only after the cap never score 1.0.
func (s *Scorer) boundedLevenshtein(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) <= s.maxRunes && len(rb) <= s.maxRunes {
		return LevenshteinRatio(a, b)
	}

	ha, hb := ra[:min(len(ra), s.maxRunes)], rb[:min(len(rb), s.maxRunes)]
	tail := max(len(ra)-len(ha), len(rb)-len(hb))
	distance := levenshtein.ComputeDistance(string(ha), string(hb)) + tail
	similarity := 1.0 - float64(distance)/float64(max(len(ra), len(rb)))
	if similarity < 0 {
		similarity = 0
	}
	return similarity
}
