package application

import (
	"cmp"
	"slices"

	"github.com/ahrav/go-quorum/internal/domain"
)

// Standings aggregates round results into game standings. A shared round
// counts as a win for every tied team. Leaders are the teams with the most
// round wins; there are none when no round had a winner.
func Standings(results []domain.RoundResult) domain.GameStandings {
	byTeam := make(map[domain.TeamID]*domain.TeamStanding)
	standing := func(team domain.TeamID) *domain.TeamStanding {
		s, ok := byTeam[team]
		if !ok {
			s = &domain.TeamStanding{TeamID: team, WonRounds: []int{}}
			byTeam[team] = s
		}
		return s
	}

	for _, r := range results {
		for _, team := range r.Teams() {
			standing(team).TotalBestMatches += r.BestClusterSizes[team]
		}
		for _, team := range r.WinningTeams {
			s := standing(team)
			s.RoundsWon++
			s.WonRounds = append(s.WonRounds, r.RoundNumber)
		}
	}

	out := domain.GameStandings{
		Teams:   make([]domain.TeamStanding, 0, len(byTeam)),
		Leaders: []domain.TeamID{},
	}
	mostWins := 0
	for _, s := range byTeam {
		slices.Sort(s.WonRounds)
		out.Teams = append(out.Teams, *s)
		mostWins = max(mostWins, s.RoundsWon)
	}
	slices.SortFunc(out.Teams, func(a, b domain.TeamStanding) int {
		if c := cmp.Compare(b.RoundsWon, a.RoundsWon); c != 0 {
			return c
		}
		return cmp.Compare(a.TeamID, b.TeamID)
	})

	if mostWins == 0 {
		return out
	}
	for _, s := range out.Teams {
		if s.RoundsWon == mostWins {
			out.Leaders = append(out.Leaders, s.TeamID)
		}
	}
	return out
}
