package application

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-quorum/internal/domain"
)

// Snapshot is everything submitted during one round: the roster and every
// answer in submission order. It is the unit of work of the Engine and the
// document read by the CLI, in YAML or JSON.
type Snapshot struct {
	// Round is the round being resolved, starting at 1.
	Round int `yaml:"round" json:"round"`

	// Teams is the roster. When empty the default four teams are used.
	Teams []domain.TeamID `yaml:"teams,omitempty" json:"teams,omitempty"`

	// Answers lists every submission of the round in the order received.
	// A later answer from the same player to the same question replaces
	// the earlier one.
	Answers []domain.RawAnswer `yaml:"answers" json:"answers"`
}

// Roster returns the snapshot's teams, or the default roster when none is
// listed.
func (s Snapshot) Roster() []domain.TeamID {
	if len(s.Teams) == 0 {
		return domain.DefaultTeams()
	}
	return s.Teams
}

// Digest returns a fingerprint of the snapshot content. Two snapshots with
// the same round, roster and answers in the same order share a digest.
func (s Snapshot) Digest() uint64 {
	h := xxhash.New()
	var buf [binary.MaxVarintLen64]byte

	writeInt := func(v int) {
		n := binary.PutVarint(buf[:], int64(v))
		_, _ = h.Write(buf[:n])
	}
	// Fields are length-prefixed so adjacent values cannot run together.
	writeString := func(v string) {
		writeInt(len(v))
		_, _ = h.WriteString(v)
	}

	writeInt(s.Round)
	roster := s.Roster()
	writeInt(len(roster))
	for _, team := range roster {
		writeString(string(team))
	}
	writeInt(len(s.Answers))
	for _, a := range s.Answers {
		writeString(string(a.PlayerID))
		writeString(string(a.TeamID))
		writeInt(a.QuestionID.Round)
		writeInt(a.QuestionID.Slot)
		writeString(a.Text)
		writeInt(a.RemainingTime)
	}
	return h.Sum64()
}

// ValidateSnapshot checks that s can be resolved under layout. It reports
// every problem at once as a *domain.ValidationError wrapped with
// domain.ErrInvalidSnapshot.
func ValidateSnapshot(s Snapshot, layout domain.Layout) error {
	verr := domain.NewValidationError("snapshot")

	if s.Round < 1 || s.Round > layout.Rounds {
		verr.AddErrorf("round %d is outside 1..%d", s.Round, layout.Rounds)
	}

	roster := s.Roster()
	seen := make(map[domain.TeamID]bool, len(roster))
	for _, team := range roster {
		if team == "" {
			verr.AddError("roster contains an empty team id")
			continue
		}
		if seen[team] {
			verr.AddErrorf("team %q is listed twice", team)
		}
		seen[team] = true
	}

	for i, a := range s.Answers {
		switch {
		case a.QuestionID.IsZero():
			verr.AddErrorf("answer %d: missing question", i)
		case a.QuestionID.Round != s.Round:
			verr.AddErrorf("answer %d: question %s belongs to round %d, not %d",
				i, a.QuestionID, a.QuestionID.Round, s.Round)
		case !layout.Contains(a.QuestionID):
			verr.AddErrorf("answer %d: question %s is outside the %d-question layout",
				i, a.QuestionID, layout.QuestionsPerRound)
		}
		if a.PlayerID == "" {
			verr.AddErrorf("answer %d: missing player", i)
		}
		if !slices.Contains(roster, a.TeamID) {
			verr.AddErrorf("answer %d: team %q is not on the roster", i, a.TeamID)
		}
	}

	if verr.HasErrors() {
		return fmt.Errorf("%w: %w", domain.ErrInvalidSnapshot, verr)
	}
	return nil
}

// LoadSnapshot decodes a YAML or JSON snapshot document. Unknown fields are
// rejected.
func LoadSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true) // Strict mode - fail on unknown fields.

	if err := decoder.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return Snapshot{}, fmt.Errorf("%w: empty document", domain.ErrInvalidSnapshot)
		}
		return Snapshot{}, fmt.Errorf("%w: %w", domain.ErrInvalidSnapshot, err)
	}
	return s, nil
}

// LoadSnapshotFile reads and decodes the snapshot at path.
func LoadSnapshotFile(path string) (Snapshot, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	s, err := LoadSnapshot(f)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// digestKey formats a digest for use as a cache key.
func digestKey(d uint64) string { return strconv.FormatUint(d, 16) }
