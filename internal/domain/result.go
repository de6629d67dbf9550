package domain

import "slices"

// RoundResult is the outcome of resolving one round across all teams.
type RoundResult struct {
	// RoundNumber is the round that was resolved.
	RoundNumber int `json:"round" yaml:"round"`

	// PerTeamClusters holds each team's qualifying clusters across all
	// questions of the round, largest first. Teams without a qualifying
	// cluster map to an empty slice.
	PerTeamClusters map[TeamID][]AnswerCluster `json:"per_team_clusters" yaml:"per_team_clusters"`

	// BestClusterSizes holds each team's largest qualifying cluster size,
	// or 0 when the team has none.
	BestClusterSizes map[TeamID]int `json:"best_cluster_sizes" yaml:"best_cluster_sizes"`

	// MaxMatches is the largest BestClusterSizes value of the round.
	MaxMatches int `json:"max_matches" yaml:"max_matches"`

	// WinningTeams lists every team whose best cluster equals MaxMatches,
	// sorted by team ID. It is empty when no team reached a qualifying
	// cluster.
	WinningTeams []TeamID `json:"winning_teams" yaml:"winning_teams"`
}

// IsWinner reports whether team won the round, alone or tied.
func (r RoundResult) IsWinner(team TeamID) bool {
	return slices.Contains(r.WinningTeams, team)
}

// Teams returns the teams present in the result, sorted by ID.
func (r RoundResult) Teams() []TeamID {
	teams := make([]TeamID, 0, len(r.BestClusterSizes))
	for team := range r.BestClusterSizes {
		teams = append(teams, team)
	}
	slices.Sort(teams)
	return teams
}

// TeamStanding summarizes one team's performance over a game.
type TeamStanding struct {
	// TeamID identifies the team.
	TeamID TeamID `json:"team" yaml:"team"`

	// RoundsWon counts rounds the team won, ties included.
	RoundsWon int `json:"rounds_won" yaml:"rounds_won"`

	// WonRounds lists the round numbers the team won, ascending.
	WonRounds []int `json:"won_rounds" yaml:"won_rounds"`

	// TotalBestMatches sums the team's best cluster size over all rounds.
	TotalBestMatches int `json:"total_best_matches" yaml:"total_best_matches"`
}

// GameStandings is the aggregate of several round results.
type GameStandings struct {
	// Teams is ordered by rounds won (descending), then team ID.
	Teams []TeamStanding `json:"teams" yaml:"teams"`

	// Leaders lists every team with the most round wins. It is empty when
	// no round produced a winner.
	Leaders []TeamID `json:"leaders" yaml:"leaders"`
}

// Clone returns a deep copy of r, so a result held in a cache can be handed
// out without sharing its maps and slices.
func (r RoundResult) Clone() RoundResult {
	out := r
	if r.PerTeamClusters != nil {
		out.PerTeamClusters = make(map[TeamID][]AnswerCluster, len(r.PerTeamClusters))
		for team, clusters := range r.PerTeamClusters {
			cloned := make([]AnswerCluster, len(clusters))
			for i, c := range clusters {
				c.Members = slices.Clone(c.Members)
				cloned[i] = c
			}
			out.PerTeamClusters[team] = cloned
		}
	}
	if r.BestClusterSizes != nil {
		out.BestClusterSizes = make(map[TeamID]int, len(r.BestClusterSizes))
		for team, size := range r.BestClusterSizes {
			out.BestClusterSizes[team] = size
		}
	}
	if r.WinningTeams != nil {
		out.WinningTeams = slices.Clone(r.WinningTeams)
	}
	return out
}
