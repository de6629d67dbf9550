package domain

import "fmt"

// daysPerMonth holds month lengths for a non-leap reference year.
var daysPerMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// CanonicalDate is the year-independent form of a date-shaped answer.
// Two canonical dates are equal iff their day and month are equal, so the
// struct can be compared with ==.
type CanonicalDate struct {
	// Day of the month, 1..31.
	Day int `json:"day" yaml:"day"`

	// Month of the year, 1..12.
	Month int `json:"month" yaml:"month"`
}

// NewCanonicalDate validates a day/month pair against a non-leap year and
// returns the canonical date. The boolean is false when the pair does not
// name a real calendar day.
func NewCanonicalDate(day, month int) (CanonicalDate, bool) {
	if month < 1 || month > 12 {
		return CanonicalDate{}, false
	}
	if day < 1 || day > DaysInMonth(month) {
		return CanonicalDate{}, false
	}
	return CanonicalDate{Day: day, Month: month}, true
}

// DaysInMonth returns the number of days in month for a non-leap year, or 0
// for an out-of-range month.
func DaysInMonth(month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	return daysPerMonth[month-1]
}

// Key renders the date as zero-padded "DD/MM". It is the clustering key for
// date answers.
func (d CanonicalDate) Key() string { return fmt.Sprintf("%02d/%02d", d.Day, d.Month) }

// String implements fmt.Stringer.
func (d CanonicalDate) String() string { return d.Key() }
