package matching

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ahrav/go-quorum/internal/domain"
	"github.com/ahrav/go-quorum/internal/ports"
)

var _ ports.DateParser = DateParser{}

var monthNames = [12]string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var (
	yearPattern        = regexp.MustCompile(`\b\d{4}\b`)
	numericDatePattern = regexp.MustCompile(`^(\d{1,2})[/\s.\-](\d{1,2})$`)
	ordinalDatePattern = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?(?:\s+of)?[\s,.\-]+([a-z]+)`)
	dayTokenPattern    = regexp.MustCompile(`^(\d{1,2})(?:st|nd|rd|th)?$`)
	tokenSeparators    = regexp.MustCompile(`[\s,.\-]+`)
)

// dateEdgeSeparators are trimmed after the year has been removed.
const dateEdgeSeparators = " \t,./-"

// DateParser recognizes date-shaped answers. The zero value is ready to use.
type DateParser struct{}

// NewDateParser returns a DateParser.
func NewDateParser() DateParser { return DateParser{} }

// ParseDate implements ports.DateParser.
func (DateParser) ParseDate(text string) (domain.CanonicalDate, bool) { return ParseDate(text) }

// ParseDate reduces a date-shaped answer to its day and month. Any 4-digit
// year is discarded. The accepted shapes, tried in order, are:
//
//	30/5, 30-05, 30.05, 30 5
//	30th of May, 1st Jan, 30 May (anywhere in the answer: "on the 30th of May")
//	30th, may (day token then month token)
//	May 30th
//
// A month token is recognized by its first three letters, so full names,
// abbreviations ("sept") and misspellings ("Janaury") all resolve. The day
// must exist in the month of a non-leap year.
func ParseDate(text string) (domain.CanonicalDate, bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	s = yearPattern.ReplaceAllString(s, " ")
	s = strings.Trim(s, dateEdgeSeparators)
	if s == "" {
		return domain.CanonicalDate{}, false
	}

	day, month, ok := matchDate(s)
	if !ok {
		return domain.CanonicalDate{}, false
	}
	return domain.NewCanonicalDate(day, month)
}

// matchDate applies the date shapes in priority order and returns the first
// day/month pair that matches. The pair is not yet validated.
func matchDate(s string) (day, month int, ok bool) {
	if m := numericDatePattern.FindStringSubmatch(s); m != nil {
		day, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		return day, month, true
	}

	if m := ordinalDatePattern.FindStringSubmatch(s); m != nil {
		if mon, found := monthFromToken(m[2]); found {
			day, _ = strconv.Atoi(m[1])
			return day, mon, true
		}
	}

	words := splitTokens(s)
	if len(words) < 2 {
		return 0, 0, false
	}

	if d, found := dayFromToken(words[0]); found {
		if mon, found := monthFromToken(words[1]); found {
			return d, mon, true
		}
	}

	if mon, found := monthFromToken(words[0]); found {
		if d, found := dayFromToken(words[1]); found {
			return d, mon, true
		}
	}

	return 0, 0, false
}

func splitTokens(s string) []string {
	parts := tokenSeparators.Split(s, -1)
	words := parts[:0]
	for _, p := range parts {
		if p != "" {
			words = append(words, p)
		}
	}
	return words
}

// dayFromToken parses "7", "07" or "7th".
func dayFromToken(tok string) (int, bool) {
	m := dayTokenPattern.FindStringSubmatch(tok)
	if m == nil {
		return 0, false
	}
	day, err := strconv.Atoi(m[1])
	return day, err == nil
}

// monthFromToken resolves a token of at least three letters whose first
// three letters are a month abbreviation to its 1-based month number.
func monthFromToken(tok string) (int, bool) {
	if len(tok) < 3 {
		return 0, false
	}
	for i, name := range monthNames {
		if tok[:3] == name[:3] {
			return i + 1, true
		}
	}
	return 0, false
}
