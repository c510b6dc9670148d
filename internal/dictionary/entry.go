// Package dictionary extracts translation entries from Cambridge dictionary
// pages and selects the extractor for a language pair.
package dictionary

import (
	"strings"

	"golang.org/x/text/cases"
)

// PartOfSpeech is the closed set of word classes the flashcard formatter knows.
// Every other label maps to Other.
type PartOfSpeech int

const (
	Other PartOfSpeech = iota
	Noun
	Verb
	Adjective
	Adverb
)

var partOfSpeechNames = map[PartOfSpeech]string{
	Other:     "other",
	Noun:      "noun",
	Verb:      "verb",
	Adjective: "adjective",
	Adverb:    "adverb",
}

// String returns the lowercase tag name ("noun", "verb", ...).
func (p PartOfSpeech) String() string {
	if name, ok := partOfSpeechNames[p]; ok {
		return name
	}
	return "other"
}

var labelFolder = cases.Fold()

// normalizeLabel trims and case-folds a part-of-speech label as printed on a page.
func normalizeLabel(label string) string {
	return labelFolder.String(strings.TrimSpace(label))
}

// ParsePartOfSpeech maps a page label to a PartOfSpeech. Matching ignores case
// and surrounding whitespace.
func ParsePartOfSpeech(label string) PartOfSpeech {
	switch normalizeLabel(label) {
	case "noun":
		return Noun
	case "verb":
		return Verb
	case "adjective":
		return Adjective
	case "adverb":
		return Adverb
	default:
		return Other
	}
}

// Gender is the grammatical gender label of a German noun, e.g. "feminine" or
// "masculine-neuter".
type Gender string

const (
	Feminine  Gender = "feminine"
	Masculine Gender = "masculine"
	Neuter    Gender = "neuter"
	Plural    Gender = "plural"
)

// Primary returns the part of the label before the first "-".
func (g Gender) Primary() Gender {
	head, _, _ := strings.Cut(strings.TrimSpace(string(g)), "-")
	return Gender(head)
}

// Form is one grammatical form: the texts of a form element's child tags in
// document order. Nouns carry (case, number, word), adjectives (case, word),
// verbs (tense, word) or (case, number, tense, word).
type Form []string

// Word returns the last field, or "" for an empty form.
func (f Form) Word() string {
	if len(f) == 0 {
		return ""
	}
	return f[len(f)-1]
}

// Entry is one parsed dictionary sense.
type Entry struct {
	Headword     string
	PartOfSpeech PartOfSpeech
	// Label is the part-of-speech text as printed on the page.
	Label       string
	Translation string
	Gender      Gender
	Forms       []Form
	Examples    []string
}

// Oriented returns e with the German word in Headword and the English word in
// Translation, the layout flashcards are built from. English to German pages
// carry only the German translation, so word, the English query, fills the
// English side.
func (e Entry) Oriented(p Pair, word string) Entry {
	if p.From == English && p.To == German {
		e.Headword, e.Translation = e.Translation, word
	}
	return e
}
