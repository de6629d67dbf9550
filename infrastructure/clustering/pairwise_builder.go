package clustering

import (
	"github.com/ahrav/go-quorum/internal/domain"
	"github.com/ahrav/go-quorum/internal/ports"
)

var _ ports.ClusterBuilder = (*PairwiseBuilder)(nil)

// PairwiseBuilder compares every pair of answers and merges equivalent
// pairs with union-find, so "Tesco" and "Tesco Express" end up together
// even though their keys differ. Equivalence is applied transitively.
// Cost is quadratic in the number of answers.
type PairwiseBuilder struct {
	matcher Matcher
}

// NewPairwiseBuilder creates a PairwiseBuilder.
func NewPairwiseBuilder(matcher Matcher) *PairwiseBuilder {
	return &PairwiseBuilder{matcher: matcher}
}

// Build implements ports.ClusterBuilder.
func (b *PairwiseBuilder) Build(answers []domain.RawAnswer, q domain.QuestionID) []domain.AnswerCluster {
	keyed := prepare(answers, q, b.matcher)
	sets := newDisjointSet(len(keyed))

	for i := range keyed {
		for j := i + 1; j < len(keyed); j++ {
			if sets.find(i) == sets.find(j) {
				continue
			}
			if keyed[i].key == keyed[j].key ||
				b.matcher.Equivalent(keyed[i].answer.Text, keyed[j].answer.Text, q) {
				sets.union(i, j)
			}
		}
	}

	// Roots are the smallest index of their set, so iterating in index order
	// creates clusters in first-seen order.
	byRoot := make(map[int]int)
	var clusters []domain.AnswerCluster
	for i, ka := range keyed {
		root := sets.find(i)
		c, ok := byRoot[root]
		if !ok {
			c = len(clusters)
			byRoot[root] = c
			clusters = append(clusters, domain.AnswerCluster{
				QuestionID:         q,
				Key:                ka.key,
				RepresentativeText: ka.answer.Text,
			})
		}
		clusters[c].Members = append(clusters[c].Members, ka.answer.PlayerID)
		clusters[c].Size++
	}

	return qualifying(clusters)
}

// disjointSet is a union-find forest whose roots are always the smallest
// member index.
type disjointSet struct {
	parent []int
}

func newDisjointSet(n int) *disjointSet {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &disjointSet{parent: parent}
}

func (s *disjointSet) find(i int) int {
	for s.parent[i] != i {
		s.parent[i] = s.parent[s.parent[i]]
		i = s.parent[i]
	}
	return i
}

func (s *disjointSet) union(i, j int) {
	ri, rj := s.find(i), s.find(j)
	if ri == rj {
		return
	}
	if ri < rj {
		s.parent[rj] = ri
	} else {
		s.parent[ri] = rj
	}
}
