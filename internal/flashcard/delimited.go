package flashcard

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// LineBreak replaces newlines inside fields so every card stays on one line.
// Anki renders it as a line break when importing with HTML enabled.
const LineBreak = "<br>"

var (
	fieldEscaper   = strings.NewReplacer(`"`, `""`, "\n", LineBreak)
	fieldUnescaper = strings.NewReplacer(LineBreak, "\n")
)

func quoteField(s string) string {
	return `"` + fieldEscaper.Replace(s) + `"`
}

// EncodeDelimited renders cards as delimited text: one card per line, every
// field quoted with inner quotes doubled and newlines replaced by LineBreak.
func EncodeDelimited(cards []Card, delim string) string {
	var sb strings.Builder
	for _, c := range cards {
		sb.WriteString(strings.Join([]string{
			quoteField(c.Front),
			quoteField(c.Back),
			quoteField(c.Tags),
		}, delim))
		sb.WriteString("\n")
	}
	return sb.String()
}

// WriteDelimited writes EncodeDelimited(cards, delim) to w.
func WriteDelimited(w io.Writer, cards []Card, delim string) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(EncodeDelimited(cards, delim)); err != nil {
		return fmt.Errorf("writing cards: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing cards: %w", err)
	}
	return nil
}

// CheckDelimiter reports whether delim can be read back by ReadDelimited: a
// single character other than a quote or line break.
func CheckDelimiter(delim string) error {
	_, err := delimiterRune(delim)
	return err
}

func delimiterRune(delim string) (rune, error) {
	comma, size := utf8.DecodeRuneInString(delim)
	if size == 0 || size != len(delim) || comma == '"' || comma == '\n' || comma == '\r' {
		return 0, fmt.Errorf("invalid delimiter %q: must be a single character other than a quote or line break", delim)
	}
	return comma, nil
}

// ReadDelimited parses text written by WriteDelimited. The delimiter must pass
// CheckDelimiter.
//
// Every LineBreak in a field reads back as a newline, so a field that already
// contained a literal "<br>" does not survive the round trip unchanged.
func ReadDelimited(r io.Reader, delim string) ([]Card, error) {
	comma, err := delimiterRune(delim)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = 3

	var cards []Card
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading cards: %w", err)
		}
		cards = append(cards, Card{
			Front: fieldUnescaper.Replace(record[0]),
			Back:  fieldUnescaper.Replace(record[1]),
			Tags:  fieldUnescaper.Replace(record[2]),
		})
	}
	return cards, nil
}

// DelimiterFor returns the delimiter conventionally used by a format name
// ("csv" or "tsv").
func DelimiterFor(format string) (string, bool) {
	switch strings.ToLower(format) {
	case "csv":
		return ",", true
	case "tsv":
		return "\t", true
	default:
		return "", false
	}
}
