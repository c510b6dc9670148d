// Package flashcard turns dictionary entries into front/back/tags cards and
// writes them as delimited text.
package flashcard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/f3rmion/lernkarten/internal/dictionary"
)

// MaxExamples is the number of example sentences put on a card.
const MaxExamples = 3

var (
	// ErrUnformattable is wrapped by every error Format returns.
	ErrUnformattable           = errors.New("entry cannot be turned into a card")
	ErrUnsupportedPartOfSpeech = fmt.Errorf("%w: unsupported part of speech", ErrUnformattable)
	ErrMissingArticle          = fmt.Errorf("%w: no article for gender", ErrUnformattable)
	ErrMissingPlural           = fmt.Errorf("%w: no nominative plural", ErrUnformattable)
)

// Card is one flashcard.
type Card struct {
	Front string
	Back  string
	Tags  string
}

var articles = map[dictionary.Gender]string{
	dictionary.Feminine:  "die",
	dictionary.Plural:    "die",
	dictionary.Masculine: "der",
	dictionary.Neuter:    "das",
}

// Article returns the definite article for a gender label. Only the part of
// the label before the first "-" is considered.
func Article(g dictionary.Gender) (string, bool) {
	article, ok := articles[g.Primary()]
	return article, ok
}

// Format builds the card for e. Entries that cannot be formatted return an
// error wrapping ErrUnformattable.
func Format(e dictionary.Entry) (Card, error) {
	switch e.PartOfSpeech {
	case dictionary.Noun:
		return formatNoun(e)
	case dictionary.Verb:
		return formatVerb(e), nil
	case dictionary.Adjective:
		return formatAdjective(e), nil
	case dictionary.Adverb:
		return formatAdverb(e), nil
	default:
		return Card{}, fmt.Errorf("%w: %q", ErrUnsupportedPartOfSpeech, e.Label)
	}
}

func front(e dictionary.Entry) string {
	return e.Translation + " (en)"
}

func tags(pos dictionary.PartOfSpeech) string {
	return strings.Join([]string{pos.String(), "english-german"}, " ")
}

// nominativePlural returns the word of the first (nominative, plural, word) form.
func nominativePlural(forms []dictionary.Form) (string, bool) {
	for _, f := range forms {
		if len(f) < 3 {
			continue
		}
		if f[0] == "nominative" && f[1] == "plural" {
			return f[2], true
		}
	}
	return "", false
}

func appendExamples(back *strings.Builder, examples []string) {
	if s := ExamplesHTML(examples); s != "" {
		back.WriteString(s)
		back.WriteString("\n")
	}
}

func formatNoun(e dictionary.Entry) (Card, error) {
	article, ok := Article(e.Gender)
	if !ok {
		return Card{}, fmt.Errorf("%w: %q", ErrMissingArticle, e.Gender)
	}
	plural, ok := nominativePlural(e.Forms)
	if !ok || plural == "" {
		return Card{}, fmt.Errorf("%w: %q", ErrMissingPlural, e.Headword)
	}

	var back strings.Builder
	fmt.Fprintf(&back, "%s %s, %s %s\n\n", article, e.Headword, articles[dictionary.Plural], plural)
	appendExamples(&back, e.Examples)

	return Card{Front: front(e), Back: back.String(), Tags: tags(dictionary.Noun)}, nil
}

// verbForm returns the tense and word of a verb form. Forms are either
// (tense, word) or (case, number, tense, word).
func verbForm(f dictionary.Form) (tense, word string, ok bool) {
	switch len(f) {
	case 2:
		return f[0], f[1], true
	case 4:
		return f[2], f[3], true
	default:
		return "", "", false
	}
}

func formatVerb(e dictionary.Entry) Card {
	var back strings.Builder
	back.WriteString(e.Headword + "\n")

	for _, f := range e.Forms {
		tense, word, ok := verbForm(f)
		if !ok || tense == "present" {
			continue
		}
		fmt.Fprintf(&back, "%s %s\n", tense, word)
	}
	appendExamples(&back, e.Examples)

	return Card{Front: front(e), Back: back.String(), Tags: tags(dictionary.Verb)}
}

func formatAdjective(e dictionary.Entry) Card {
	var back strings.Builder
	back.WriteString(e.Headword + "\n")

	for _, f := range e.Forms {
		if len(f) < 2 {
			continue
		}
		fmt.Fprintf(&back, "%s %s\n", f[0], f.Word())
	}
	appendExamples(&back, e.Examples)

	return Card{Front: front(e), Back: back.String(), Tags: tags(dictionary.Adjective)}
}

func formatAdverb(e dictionary.Entry) Card {
	var back strings.Builder
	back.WriteString(e.Headword + "\n")
	appendExamples(&back, e.Examples)

	return Card{Front: front(e), Back: back.String(), Tags: tags(dictionary.Adverb)}
}

// ExamplesHTML renders up to MaxExamples examples as an ordered list headed by
// "Examples". No examples render as "".
func ExamplesHTML(examples []string) string {
	if len(examples) == 0 {
		return ""
	}
	if len(examples) > MaxExamples {
		examples = examples[:MaxExamples]
	}

	items := make([]string, len(examples))
	for i, e := range examples {
		items[i] = `<li class="example-list-item">` + e + `</li>`
	}

	return "<ol class=\"example-list\">\nExamples\n" + strings.Join(items, "\n") + "\n</ol>"
}
