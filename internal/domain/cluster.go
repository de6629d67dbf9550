package domain

// MinQualifyingSize is the smallest cluster that can win a round.
const MinQualifyingSize = 2

// AnswerCluster is a set of one team's answers to one question that were
// judged to be the same answer.
type AnswerCluster struct {
	// QuestionID is the question the members answered.
	QuestionID QuestionID `json:"question" yaml:"question"`

	// Key is the canonical form shared by the members: a "DD/MM" date or
	// normalized text.
	Key string `json:"key" yaml:"key"`

	// RepresentativeText is the raw text of the first member seen.
	RepresentativeText string `json:"representative_text" yaml:"representative_text"`

	// Members lists the players in the cluster in first-seen order.
	Members []PlayerID `json:"members" yaml:"members"`

	// Size is the number of members.
	Size int `json:"size" yaml:"size"`
}

// Qualifies reports whether the cluster is large enough to count toward a
// round win.
func (c AnswerCluster) Qualifies() bool { return c.Size >= MinQualifyingSize }
