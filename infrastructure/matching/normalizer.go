package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ahrav/go-quorum/internal/ports"
)

var _ ports.Normalizer = TextNormalizer{}

// synonymVariants maps a canonical form to the phrasings that fold into it.
// A variant only matches when it is the entire answer.
var synonymVariants = map[string][]string{
	"dev":       {"development", "develop", "developing"},
	"ai":        {"artificial intelligence", "a.i.", "a.i"},
	"assistant": {"assistant", "asst", "asst."},
	"linkedin":  {"linked in", "linked-in"},
}

// synonymLookup is the inverse of synonymVariants keyed by the stripped form
// of each variant. It is built once and never written afterwards.
var synonymLookup = buildSynonymLookup()

// stopwords are dropped when they appear as standalone tokens.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "in": {}, "on": {}, "at": {}, "to": {}, "of": {},
}

func buildSynonymLookup() map[string]string {
	lookup := make(map[string]string)
	for canonical, variants := range synonymVariants {
		for _, v := range variants {
			lookup[strip(v)] = canonical
		}
	}
	return lookup
}

// TextNormalizer canonicalizes raw answer text. The zero value is ready to use.
type TextNormalizer struct{}

// NewTextNormalizer returns a TextNormalizer.
func NewTextNormalizer() TextNormalizer { return TextNormalizer{} }

// Normalize implements ports.Normalizer.
func (TextNormalizer) Normalize(text string) string { return Normalize(text) }

// Normalize folds case, removes diacritics and punctuation (hyphens and
// underscores survive), collapses whitespace, folds known synonyms and drops
// standalone articles and prepositions.
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	s := strip(text)
	if s == "" {
		return ""
	}

	s = foldSynonym(s)
	s = dropStopwords(s)

	// Removing a stopword can expose a variant ("the development").
	return foldSynonym(s)
}

// strip performs the character-level part of normalization.
// Casers and transformer chains are stateful, so both are built per call.
func strip(text string) string {
	folded := cases.Fold().String(text)

	chain := transform.Chain(
		norm.NFD,
		runes.Map(blankSpace),
		runes.Remove(runes.Predicate(isDroppedRune)),
		norm.NFC,
	)
	cleaned, _, err := transform.String(chain, folded)
	if err != nil {
		cleaned = folded
	}

	return strings.Join(strings.Fields(cleaned), " ")
}

// blankSpace maps every Unicode space to an ASCII blank.
func blankSpace(r rune) rune {
	if unicode.IsSpace(r) {
		return ' '
	}
	return r
}

// isDroppedRune reports whether r is removed during stripping. Combining
// marks left behind by NFD decomposition fall in this set.
func isDroppedRune(r rune) bool {
	switch {
	case r == ' ', r == '-', r == '_':
		return false
	case unicode.IsLetter(r), unicode.IsDigit(r):
		return false
	default:
		return true
	}
}

func foldSynonym(s string) string {
	if canonical, ok := synonymLookup[s]; ok {
		return canonical
	}
	return s
}

func dropStopwords(s string) string {
	tokens := strings.Fields(s)
	kept := tokens[:0]
	for _, tok := range tokens {
		if _, ok := stopwords[tok]; !ok {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}
