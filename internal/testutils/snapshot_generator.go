// Package testutils provides synthetic game data for tests, benchmarks and
// the CLI's generate command. Nothing here is used on the resolution path.
package testutils

import (
	"fmt"
	"math/rand"

	"github.com/ahrav/go-quorum/internal/domain"
)

// GeneratorConfig controls synthetic round generation.
type GeneratorConfig struct {
	// Layout is the game shape to fill.
	Layout domain.Layout
	// Teams is the roster; every team gets PlayersPerTeam players.
	Teams []domain.TeamID
	// PlayersPerTeam is the number of players in each team.
	PlayersPerTeam int
	// Agreement is the probability, 0.0-1.0, that a player gives the team's
	// consensus answer instead of a distractor.
	Agreement float64
	// Resubmissions is the probability that a player answers a question a
	// second time with a different answer.
	Resubmissions float64
}

// DefaultGeneratorConfig fills the default layout with four teams of four.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Layout:         domain.DefaultLayout(),
		Teams:          domain.DefaultTeams(),
		PlayersPerTeam: 4,
		Agreement:      0.5,
		Resubmissions:  0.1,
	}
}

// GenerateRoundAnswers produces the answers of one round in submission
// order. Within a question, first answers from every team arrive
// interleaved and resubmissions arrive after them. The seed parameter
// controls randomization; a fixed value gives reproducible rounds.
func GenerateRoundAnswers(cfg GeneratorConfig, round int, seed int64) []domain.RawAnswer {
	rng := rand.New(rand.NewSource(seed))
	questions := cfg.Layout.Questions(round)
	answers := make([]domain.RawAnswer, 0, len(questions)*len(cfg.Teams)*cfg.PlayersPerTeam)

	for _, q := range questions {
		isDate := cfg.Layout.IsDateQuestion(q.Round, q.Slot)
		var first, again []domain.RawAnswer

		for _, team := range cfg.Teams {
			consensus := rng.Intn(1 << 16)
			for p := 0; p < cfg.PlayersPerTeam; p++ {
				a := domain.RawAnswer{
					PlayerID:      PlayerID(team, p),
					TeamID:        team,
					QuestionID:    q,
					Text:          pickAnswer(rng, isDate, consensus, cfg.Agreement),
					RemainingTime: 1 + rng.Intn(30),
				}
				first = append(first, a)

				if rng.Float64() < cfg.Resubmissions {
					a.Text = pickAnswer(rng, isDate, consensus, cfg.Agreement)
					a.RemainingTime = rng.Intn(a.RemainingTime)
					again = append(again, a)
				}
			}
		}

		rng.Shuffle(len(first), func(i, j int) { first[i], first[j] = first[j], first[i] })
		answers = append(answers, first...)
		answers = append(answers, again...)
	}
	return answers
}

// PlayerID returns the synthetic identifier of player n of team.
func PlayerID(team domain.TeamID, n int) domain.PlayerID {
	return domain.PlayerID(fmt.Sprintf("%s-%d", team, n+1))
}

func pickAnswer(rng *rand.Rand, isDate bool, consensus int, agreement float64) string {
	if rng.Float64() >= agreement {
		return Distractors[rng.Intn(len(Distractors))]
	}
	if isDate {
		d := DateAnswers[consensus%len(DateAnswers)]
		return d.Variants[rng.Intn(len(d.Variants))]
	}
	a := TextAnswers[consensus%len(TextAnswers)]
	spellings := append([]string{a.Canonical}, a.Variants...)
	return spellings[rng.Intn(len(spellings))]
}
