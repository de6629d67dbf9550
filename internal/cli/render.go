package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-quorum/internal/application"
	"github.com/ahrav/go-quorum/internal/domain"
)

// Output formats accepted by --format.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q is not a structured format", format)
	}
}

// writeTable renders rows with the first row as header.
func writeTable(w io.Writer, rows [][]string) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData(rows)).Srender()
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// renderRound prints one round as a per-team table followed by the
// winning clusters.
func renderRound(w io.Writer, r domain.RoundResult) error {
	fmt.Fprintf(w, "Round %d: %s\n", r.RoundNumber, outcome(r.WinningTeams, r.MaxMatches))

	rows := [][]string{{"Team", "Best", "Winner", "Clusters"}}
	for _, team := range r.Teams() {
		rows = append(rows, []string{
			string(team),
			strconv.Itoa(r.BestClusterSizes[team]),
			yesNo(r.IsWinner(team)),
			strconv.Itoa(len(r.PerTeamClusters[team])),
		})
	}
	if err := writeTable(w, rows); err != nil {
		return err
	}

	if len(r.WinningTeams) == 0 {
		return nil
	}
	rows = [][]string{{"Team", "Question", "Answer", "Size", "Players"}}
	for _, team := range r.WinningTeams {
		for _, c := range r.PerTeamClusters[team] {
			if c.Size != r.MaxMatches {
				continue
			}
			rows = append(rows, []string{
				string(team),
				c.QuestionID.String(),
				c.RepresentativeText,
				strconv.Itoa(c.Size),
				joinPlayers(c.Members),
			})
		}
	}
	return writeTable(w, rows)
}

// renderGame prints every round and then the standings.
func renderGame(w io.Writer, g application.GameResult) error {
	for _, r := range g.Rounds {
		if err := renderRound(w, r); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "Standings: %s\n", leaders(g.Standings.Leaders))
	rows := [][]string{{"Team", "Rounds won", "Won", "Total best"}}
	for _, s := range g.Standings.Teams {
		won := make([]string, len(s.WonRounds))
		for i, n := range s.WonRounds {
			won[i] = strconv.Itoa(n)
		}
		rows = append(rows, []string{
			string(s.TeamID),
			strconv.Itoa(s.RoundsWon),
			strings.Join(won, ","),
			strconv.Itoa(s.TotalBestMatches),
		})
	}
	return writeTable(w, rows)
}

func outcome(winners []domain.TeamID, maxMatches int) string {
	switch len(winners) {
	case 0:
		return "no winner"
	case 1:
		return fmt.Sprintf("%s wins with %d matching answers", winners[0], maxMatches)
	default:
		return fmt.Sprintf("tie between %s with %d matching answers", joinTeams(winners), maxMatches)
	}
}

func leaders(teams []domain.TeamID) string {
	if len(teams) == 0 {
		return "no leader"
	}
	return "led by " + joinTeams(teams)
}

func joinTeams(teams []domain.TeamID) string {
	s := make([]string, len(teams))
	for i, t := range teams {
		s[i] = string(t)
	}
	return strings.Join(s, ", ")
}

func joinPlayers(players []domain.PlayerID) string {
	s := make([]string, len(players))
	for i, p := range players {
		s[i] = string(p)
	}
	return strings.Join(s, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
