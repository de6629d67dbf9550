package application

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-quorum/internal/domain"
)

const sampleSnapshot = `
round: 1
teams: [crimson, scarlet]
answers:
  - player: alice
    team: crimson
    question: r1q2
    text: Paris
  - player: bob
    team: crimson
    question: r1q2
    text: "paris!"
    remaining_time: 12
  - player: carol
    team: scarlet
    question: r1q1
    text: 30th May
`

func TestLoadSnapshot(t *testing.T) {
	s, err := LoadSnapshot(strings.NewReader(sampleSnapshot))
	require.NoError(t, err)

	assert.Equal(t, 1, s.Round)
	assert.Equal(t, []domain.TeamID{domain.TeamCrimson, domain.TeamScarlet}, s.Teams)
	require.Len(t, s.Answers, 3)
	assert.Equal(t, domain.QuestionID{Round: 1, Slot: 2}, s.Answers[1].QuestionID)
	assert.Equal(t, 12, s.Answers[1].RemainingTime)
	assert.NoError(t, ValidateSnapshot(s, domain.DefaultLayout()))
}

func TestLoadSnapshot_JSON(t *testing.T) {
	doc := `{"round": 2, "answers": [{"player": "p1", "team": "ruby", "question": "r2q3", "text": "Rome"}]}`

	s, err := LoadSnapshot(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Round)
	assert.Equal(t, domain.DefaultTeams(), s.Roster())
	assert.Equal(t, "Rome", s.Answers[0].Text)
}

func TestLoadSnapshot_Errors(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		errorMsg string
	}{
		{name: "empty document", doc: "", errorMsg: "empty document"},
		{name: "unknown field", doc: "round: 1\nscore: 3\n", errorMsg: "score"},
		{
			name:     "malformed question id",
			doc:      "round: 1\nanswers:\n  - {player: p, team: ruby, question: q1r1, text: x}\n",
			errorMsg: "q1r1",
		},
		{name: "not yaml", doc: "round: [1", errorMsg: "yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSnapshot(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidSnapshot)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestLoadSnapshotFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "round1.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleSnapshot), 0o600))

	s, err := LoadSnapshotFile(path)
	require.NoError(t, err)
	assert.Len(t, s.Answers, 3)

	_, err = LoadSnapshotFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateSnapshot(t *testing.T) {
	layout := domain.DefaultLayout()

	tests := []struct {
		name     string
		snap     Snapshot
		errorMsg []string
	}{
		{
			name: "valid with default roster",
			snap: Snapshot{Round: 3, Answers: []domain.RawAnswer{ans("p", domain.TeamGarnet, "r3q4", "x")}},
		},
		{
			name:     "round out of range",
			snap:     Snapshot{Round: 4},
			errorMsg: []string{"round 4 is outside 1..3"},
		},
		{
			name:     "answer for another round",
			snap:     Snapshot{Round: 1, Answers: []domain.RawAnswer{ans("p", domain.TeamRuby, "r2q1", "x")}},
			errorMsg: []string{"belongs to round 2"},
		},
		{
			name:     "slot outside layout",
			snap:     Snapshot{Round: 1, Answers: []domain.RawAnswer{ans("p", domain.TeamRuby, "r1q5", "x")}},
			errorMsg: []string{"r1q5 is outside the 4-question layout"},
		},
		{
			name: "missing question",
			snap: Snapshot{Round: 1, Answers: []domain.RawAnswer{
				{PlayerID: "p", TeamID: domain.TeamRuby, Text: "x"},
			}},
			errorMsg: []string{"missing question"},
		},
		{
			name: "every problem is reported",
			snap: Snapshot{
				Round: 1,
				Teams: []domain.TeamID{domain.TeamRuby, domain.TeamRuby, ""},
				Answers: []domain.RawAnswer{
					ans("", domain.TeamRuby, "r1q2", "x"),
					ans("p", "blue", "r1q2", "x"),
				},
			},
			errorMsg: []string{
				`team "ruby" is listed twice`,
				"empty team id",
				"answer 0: missing player",
				`answer 1: team "blue" is not on the roster`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSnapshot(tt.snap, layout)
			if len(tt.errorMsg) == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidSnapshot)

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Len(t, verr.Errors, len(tt.errorMsg))
			for _, msg := range tt.errorMsg {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}

func TestSnapshot_Digest(t *testing.T) {
	base := Snapshot{
		Round: 1,
		Answers: []domain.RawAnswer{
			ans("alice", domain.TeamCrimson, "r1q2", "Paris"),
			ans("bob", domain.TeamCrimson, "r1q2", "Rome"),
		},
	}

	same := base
	same.Answers = append([]domain.RawAnswer(nil), base.Answers...)
	assert.Equal(t, base.Digest(), same.Digest())

	explicitRoster := base
	explicitRoster.Teams = domain.DefaultTeams()
	assert.Equal(t, base.Digest(), explicitRoster.Digest(), "an empty roster means the default roster")

	variants := map[string]func(*Snapshot){
		"round":  func(s *Snapshot) { s.Round = 2 },
		"roster": func(s *Snapshot) { s.Teams = []domain.TeamID{domain.TeamCrimson} },
		"text":   func(s *Snapshot) { s.Answers[0].Text = "Paris " },
		"order":  func(s *Snapshot) { s.Answers[0], s.Answers[1] = s.Answers[1], s.Answers[0] },
		"player": func(s *Snapshot) { s.Answers[0].PlayerID = "alic" },
		"field boundary": func(s *Snapshot) {
			s.Answers[0].PlayerID = "alicecrimson"
			s.Answers[0].TeamID = ""
		},
	}
	for name, mutate := range variants {
		t.Run(name, func(t *testing.T) {
			changed := base
			changed.Answers = append([]domain.RawAnswer(nil), base.Answers...)
			mutate(&changed)
			assert.NotEqual(t, base.Digest(), changed.Digest())
		})
	}
}
