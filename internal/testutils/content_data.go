package testutils

// TextAnswer is a trivia answer together with spellings players commonly
// type for it. Every variant clusters with Canonical under canonical-key
// clustering unless it is listed in Fuzzy.
type TextAnswer struct {
	Canonical string
	Variants  []string
	// Fuzzy variants only match Canonical under pairwise clustering.
	Fuzzy []string
}

// DateAnswer is a calendar day and the ways players write it.
type DateAnswer struct {
	Day, Month int
	Variants   []string
}

// TextAnswers is the bank used for free-text question slots.
var TextAnswers = []TextAnswer{
	{Canonical: "Paris", Variants: []string{"paris", "PARIS", "Paris!"}},
	{Canonical: "The Beatles", Variants: []string{"beatles", "the beatles", "Beatles."}},
	{Canonical: "Mount Everest", Variants: []string{"mount everest", "Mount  Everest"}, Fuzzy: []string{"Everest"}},
	{Canonical: "Tesco", Variants: []string{"tesco", "TESCO"}, Fuzzy: []string{"Tesco Express", "Tesco Metro"}},
	{Canonical: "Elizabeth Taylor", Variants: []string{"elizabeth taylor"}, Fuzzy: []string{"Elizabeth Tayler", "Elisabeth Taylor"}},
	{Canonical: "Leonardo da Vinci", Variants: []string{"leonardo da vinci", "Leonardo Da Vinci"}, Fuzzy: []string{"Leonardo DaVinci"}},
	{Canonical: "Artificial Intelligence", Variants: []string{"AI", "A.I.", "artificial intelligence"}},
	{Canonical: "Café Nero", Variants: []string{"cafe nero", "Cafe Nero"}},
	{Canonical: "Pacific Ocean", Variants: []string{"pacific ocean", "The Pacific Ocean"}},
	{Canonical: "Shakespeare", Variants: []string{"shakespeare"}, Fuzzy: []string{"Shakespear"}},
}

// Distractors are wrong answers that never cluster with any bank answer.
var Distractors = []string{
	"Rome", "Berlin", "Asda", "Oslo", "K2", "Picasso", "Atlantic", "Dickens",
	"no idea", "pass", "?", "",
}

// DateAnswers is the bank used for date question slots.
var DateAnswers = []DateAnswer{
	{Day: 30, Month: 5, Variants: []string{"30/05", "30/5", "30th May", "30th of May", "May 30th", "May 30, 1990", "30-05-2024"}},
	{Day: 1, Month: 1, Variants: []string{"01/01", "1/1", "1st Jan", "1st of January", "January 1st", "jan 1"}},
	{Day: 25, Month: 12, Variants: []string{"25/12", "25.12", "25th December", "Dec 25th", "25 dec 2000"}},
	{Day: 14, Month: 7, Variants: []string{"14/07", "14-7", "14th July", "July 14th", "14 jul"}},
	{Day: 4, Month: 9, Variants: []string{"04/09", "4/9", "4th Sept", "September 4th", "sep 4"}},
	{Day: 22, Month: 11, Variants: []string{"22/11", "22nd November", "Nov 22nd", "22 nov 1963"}},
}
