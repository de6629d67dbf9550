// Package application wires the matching and clustering layers into round
// resolution and exposes the engine used by the CLI.
package application

import (
	"slices"

	"github.com/ahrav/go-quorum/internal/domain"
	"github.com/ahrav/go-quorum/internal/ports"
)

// RoundResolver decides which team or teams won a round. It never fails:
// empty rounds, teams without answers and unparsable answers are outcomes,
// not errors. RoundResolver is stateless and safe for concurrent use.
type RoundResolver struct {
	builder ports.ClusterBuilder
	layout  domain.Layout
}

// NewRoundResolver creates a RoundResolver that clusters answers with
// builder and walks question slots according to layout.
func NewRoundResolver(builder ports.ClusterBuilder, layout domain.Layout) *RoundResolver {
	return &RoundResolver{builder: builder, layout: layout}
}

// ResolveRound clusters every team's answers to the round's questions and
// picks the teams whose largest cluster is the largest of the round.
// Answers to other rounds are ignored. Every team in teams appears in the
// result, and so does any team that answered without being listed.
func (r *RoundResolver) ResolveRound(answers []domain.RawAnswer, teams []domain.TeamID, round int) domain.RoundResult {
	byTeam := make(map[domain.TeamID][]domain.RawAnswer, len(teams))
	for _, team := range teams {
		byTeam[team] = nil
	}
	for _, a := range answers {
		if a.QuestionID.Round != round {
			continue
		}
		byTeam[a.TeamID] = append(byTeam[a.TeamID], a)
	}

	result := domain.RoundResult{
		RoundNumber:      round,
		PerTeamClusters:  make(map[domain.TeamID][]domain.AnswerCluster, len(byTeam)),
		BestClusterSizes: make(map[domain.TeamID]int, len(byTeam)),
		WinningTeams:     []domain.TeamID{},
	}

	questions := r.questions(round, answers)
	for team, teamAnswers := range byTeam {
		clusters := r.teamClusters(teamAnswers, questions)
		result.PerTeamClusters[team] = clusters

		best := 0
		if len(clusters) > 0 {
			best = clusters[0].Size
		}
		result.BestClusterSizes[team] = best
		result.MaxMatches = max(result.MaxMatches, best)
	}

	if result.MaxMatches < domain.MinQualifyingSize {
		return result
	}
	for team, best := range result.BestClusterSizes {
		if best == result.MaxMatches {
			result.WinningTeams = append(result.WinningTeams, team)
		}
	}
	slices.Sort(result.WinningTeams)

	return result
}

// teamClusters builds the clusters of one team for every question, in slot
// order, then orders them by size. The sort is stable so ties keep slot
// order, then first-seen order within a question.
func (r *RoundResolver) teamClusters(answers []domain.RawAnswer, questions []domain.QuestionID) []domain.AnswerCluster {
	clusters := []domain.AnswerCluster{}
	if len(answers) == 0 {
		return clusters
	}
	for _, q := range questions {
		clusters = append(clusters, r.builder.Build(answers, q)...)
	}
	slices.SortStableFunc(clusters, func(a, b domain.AnswerCluster) int {
		return b.Size - a.Size
	})
	return clusters
}

// questions returns the round's slots from the layout followed by any other
// slot that the answers reference, in slot order.
func (r *RoundResolver) questions(round int, answers []domain.RawAnswer) []domain.QuestionID {
	questions := r.layout.Questions(round)
	for _, a := range answers {
		if a.QuestionID.Round == round && !slices.Contains(questions, a.QuestionID) {
			questions = append(questions, a.QuestionID)
		}
	}
	slices.SortFunc(questions, func(a, b domain.QuestionID) int {
		return a.Slot - b.Slot
	})
	return questions
}
