package clustering

import (
	"github.com/ahrav/go-quorum/internal/domain"
	"github.com/ahrav/go-quorum/internal/ports"
)

var _ ports.ClusterBuilder = (*KeyBuilder)(nil)

// KeyBuilder groups answers that share an identical canonical key. It is
// cheap, deterministic and independent of comparison order, but two answers
// that are only fuzzily equivalent stay apart when their keys differ.
type KeyBuilder struct {
	keyer ports.AnswerKeyer
}

// NewKeyBuilder creates a KeyBuilder.
func NewKeyBuilder(keyer ports.AnswerKeyer) *KeyBuilder {
	return &KeyBuilder{keyer: keyer}
}

// Build implements ports.ClusterBuilder.
func (b *KeyBuilder) Build(answers []domain.RawAnswer, q domain.QuestionID) []domain.AnswerCluster {
	byKey := make(map[string]int)
	var clusters []domain.AnswerCluster

	for _, ka := range prepare(answers, q, b.keyer) {
		i, ok := byKey[ka.key]
		if !ok {
			i = len(clusters)
			byKey[ka.key] = i
			clusters = append(clusters, domain.AnswerCluster{
				QuestionID:         q,
				Key:                ka.key,
				RepresentativeText: ka.answer.Text,
			})
		}
		clusters[i].Members = append(clusters[i].Members, ka.answer.PlayerID)
		clusters[i].Size++
	}

	return qualifying(clusters)
}
