package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

var questionIDPattern = regexp.MustCompile(`^r(\d{1,4})q(\d{1,4})$`)

// QuestionID identifies a question by its round and its 1-based slot within
// that round. Its wire form is "r<round>q<slot>", e.g. "r1q4".
type QuestionID struct {
	Round int
	Slot  int
}

// ParseQuestionID parses the wire form of a question identifier.
func ParseQuestionID(s string) (QuestionID, error) {
	m := questionIDPattern.FindStringSubmatch(s)
	if m == nil {
		return QuestionID{}, &QuestionIDError{Input: s, Reason: `expected form "r<round>q<slot>"`}
	}

	round, _ := strconv.Atoi(m[1])
	slot, _ := strconv.Atoi(m[2])
	if round < 1 || slot < 1 {
		return QuestionID{}, &QuestionIDError{Input: s, Reason: "round and slot start at 1"}
	}

	return QuestionID{Round: round, Slot: slot}, nil
}

// MustParseQuestionID is like ParseQuestionID but panics on malformed input.
// It is intended for tests and static tables.
func MustParseQuestionID(s string) QuestionID {
	q, err := ParseQuestionID(s)
	if err != nil {
		panic(err)
	}
	return q
}

// String returns the wire form of the identifier.
func (q QuestionID) String() string { return fmt.Sprintf("r%dq%d", q.Round, q.Slot) }

// IsZero reports whether the identifier is unset.
func (q QuestionID) IsZero() bool { return q.Round == 0 && q.Slot == 0 }

// Less orders identifiers by round, then slot.
func (q QuestionID) Less(o QuestionID) bool {
	if q.Round != o.Round {
		return q.Round < o.Round
	}
	return q.Slot < o.Slot
}

// MarshalText implements encoding.TextMarshaler so that identifiers
// round-trip through YAML and JSON documents in their wire form.
func (q QuestionID) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *QuestionID) UnmarshalText(text []byte) error {
	parsed, err := ParseQuestionID(string(text))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// Layout describes the shape of a game: how many rounds it has and how many
// questions each round asks.
type Layout struct {
	// Rounds is the number of rounds in a game.
	Rounds int `yaml:"rounds" json:"rounds" validate:"min=1,max=100"`

	// QuestionsPerRound is the number of question slots in every round.
	QuestionsPerRound int `yaml:"questions_per_round" json:"questions_per_round" validate:"min=1,max=100"`
}

// DefaultLayout returns the standard party layout of three rounds with four
// questions each.
func DefaultLayout() Layout {
	return Layout{Rounds: 3, QuestionsPerRound: 4}
}

// IsDateQuestion reports whether the given slot holds a date question.
// The first and the last slot of every round ask for a date; nothing about
// the question text is inspected.
func (l Layout) IsDateQuestion(round, slot int) bool {
	if round < 1 || slot < 1 || slot > l.QuestionsPerRound {
		return false
	}
	return slot == 1 || slot == l.QuestionsPerRound
}

// Contains reports whether q addresses a slot that exists in the layout.
func (l Layout) Contains(q QuestionID) bool {
	return q.Round >= 1 && q.Round <= l.Rounds && q.Slot >= 1 && q.Slot <= l.QuestionsPerRound
}

// Questions lists the question identifiers of a round in slot order.
func (l Layout) Questions(round int) []QuestionID {
	if round < 1 || round > l.Rounds {
		return nil
	}
	ids := make([]QuestionID, 0, l.QuestionsPerRound)
	for slot := 1; slot <= l.QuestionsPerRound; slot++ {
		ids = append(ids, QuestionID{Round: round, Slot: slot})
	}
	return ids
}
