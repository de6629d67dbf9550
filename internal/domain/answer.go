// Package domain contains pure, dependency-free domain models and types
// for the answer equivalence and round resolution engine.
package domain

// PlayerID identifies a player within a game session.
type PlayerID string

// TeamID identifies a team within a game session.
type TeamID string

// Default team identifiers used when a snapshot does not carry a roster.
const (
	TeamCrimson TeamID = "crimson"
	TeamScarlet TeamID = "scarlet"
	TeamRuby    TeamID = "ruby"
	TeamGarnet  TeamID = "garnet"
)

// DefaultTeams returns the standard four-team roster.
func DefaultTeams() []TeamID {
	return []TeamID{TeamCrimson, TeamScarlet, TeamRuby, TeamGarnet}
}

// RawAnswer is a single free-text answer as submitted by a player.
// It is immutable once recorded.
type RawAnswer struct {
	// PlayerID identifies who answered.
	PlayerID PlayerID `json:"player" yaml:"player"`

	// TeamID identifies the team the player belongs to.
	TeamID TeamID `json:"team" yaml:"team"`

	// QuestionID identifies the question being answered.
	QuestionID QuestionID `json:"question" yaml:"question"`

	// Text is the answer exactly as typed, possibly empty.
	Text string `json:"text" yaml:"text"`

	// RemainingTime is the number of seconds left on the question timer
	// when the answer was submitted.
	RemainingTime int `json:"remaining_time,omitempty" yaml:"remaining_time,omitempty"`
}
