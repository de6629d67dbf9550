package cli

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-quorum/infrastructure/matching"
	"github.com/ahrav/go-quorum/internal/domain"
)

// comparison is the outcome of the compare command. Similarity and
// Threshold are reported even when a date match settles the question.
type comparison struct {
	Question     string  `json:"question" yaml:"question"`
	A            string  `json:"a" yaml:"a"`
	B            string  `json:"b" yaml:"b"`
	KeyA         string  `json:"key_a" yaml:"key_a"`
	KeyB         string  `json:"key_b" yaml:"key_b"`
	DateQuestion bool    `json:"date_question" yaml:"date_question"`
	Similarity   float64 `json:"similarity" yaml:"similarity"`
	Threshold    float64 `json:"threshold" yaml:"threshold"`
	Equivalent   bool    `json:"equivalent" yaml:"equivalent"`
}

func newCompareCommand(a *app) *cobra.Command {
	var question string

	cmd := &cobra.Command{
		Use:   "compare <a> <b>",
		Short: "Decide whether two answers to a question are the same",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := domain.ParseQuestionID(question)
			if err != nil {
				return err
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}
			d := engine.Decider()

			keyA, keyB := d.CanonicalKey(args[0], q), d.CanonicalKey(args[1], q)
			c := comparison{
				Question:     q.String(),
				A:            args[0],
				B:            args[1],
				KeyA:         keyA,
				KeyB:         keyB,
				DateQuestion: d.IsDateQuestion(q),
				Equivalent:   d.Equivalent(args[0], args[1], q),
			}
			c.Similarity = d.Similarity(args[0], args[1])
			c.Threshold = d.Threshold(min(utf8.RuneCountInString(args[0]), utf8.RuneCountInString(args[1])))

			out := cmd.OutOrStdout()
			if a.format() != formatTable {
				return writeStructured(out, a.format(), c)
			}
			rows := [][]string{
				{"Field", "Value"},
				{"question", c.Question},
				{"key a", c.KeyA},
				{"key b", c.KeyB},
				{"date question", yesNo(c.DateQuestion)},
				{"similarity", strconv.FormatFloat(c.Similarity, 'f', 3, 64)},
				{"threshold", strconv.FormatFloat(c.Threshold, 'f', 2, 64)},
				{"equivalent", yesNo(c.Equivalent)},
			}
			return writeTable(out, rows)
		},
	}

	cmd.Flags().StringVarP(&question, "question", "q", "r1q2", "question the answers belong to, e.g. r1q1")
	return cmd
}

func newNormalizeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <text>",
		Short: "Print the normalized form of a free-text answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			normalized := matching.Normalize(args[0])
			out := cmd.OutOrStdout()
			if a.format() != formatTable {
				return writeStructured(out, a.format(), map[string]string{
					"input":      args[0],
					"normalized": normalized,
				})
			}
			_, err := fmt.Fprintln(out, normalized)
			return err
		},
	}
}

func newDateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "date <text>",
		Short: "Parse a free-text date into its canonical day/month form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, ok := matching.ParseDate(args[0])
			if !ok {
				return fmt.Errorf("%q is not a recognizable day and month", args[0])
			}
			out := cmd.OutOrStdout()
			if a.format() != formatTable {
				return writeStructured(out, a.format(), map[string]any{
					"input": args[0],
					"day":   date.Day,
					"month": date.Month,
					"key":   date.Key(),
				})
			}
			_, err := fmt.Fprintln(out, date.Key())
			return err
		},
	}
}
