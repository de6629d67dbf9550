// Package ports defines the core interfaces that form the contract between
// the domain/application layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the system testable.
package ports

import "github.com/ahrav/go-quorum/internal/domain"

// Normalizer canonicalizes raw answer text for comparison.
// Implementations must be pure and idempotent.
type Normalizer interface {
	Normalize(text string) string
}

// DateParser detects date-shaped answers and reduces them to a
// year-independent canonical date.
type DateParser interface {
	// ParseDate returns the canonical date and true, or false when the text
	// is not a recognizable, valid date.
	ParseDate(text string) (domain.CanonicalDate, bool)
}

// SimilarityScorer computes a similarity in [0, 1] between two raw answers.
type SimilarityScorer interface {
	Similarity(a, b string) float64
}

// EquivalenceDecider decides whether two raw answers to the same question
// count as the same answer.
type EquivalenceDecider interface {
	Equivalent(a, b string, question domain.QuestionID) bool
}

// ClusterBuilder partitions one team's answers to one question into
// qualifying clusters, largest first.
//
// Implementations must be deterministic: the same answers in the same order
// always produce the same clusters.
type ClusterBuilder interface {
	Build(answers []domain.RawAnswer, question domain.QuestionID) []domain.AnswerCluster
}

// AnswerKeyer maps an answer to the canonical key used for grouping.
// An empty key marks an answer that cannot join any cluster.
type AnswerKeyer interface {
	CanonicalKey(text string, question domain.QuestionID) string
}
