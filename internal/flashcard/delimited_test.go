package flashcard

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleCards = []Card{
	{Front: "duck (en)", Back: "die Ente, die Enten\n\n", Tags: "noun english-german"},
	{Front: `say "hi" (en)`, Back: "sagen\npast tense sagte\n", Tags: "verb english-german"},
	{Front: "a, b\tc", Back: "", Tags: ""},
}

func TestEncodeDelimited(t *testing.T) {
	out := EncodeDelimited(sampleCards[:2], ",")
	assert.Equal(t,
		`"duck (en)","die Ente, die Enten<br><br>","noun english-german"`+"\n"+
			`"say ""hi"" (en)","sagen<br>past tense sagte<br>","verb english-german"`+"\n",
		out)

	assert.Equal(t, "", EncodeDelimited(nil, ","))
}

func TestDelimitedRoundTrip(t *testing.T) {
	for _, delim := range []string{",", "\t", ";"} {
		var buf bytes.Buffer
		require.NoError(t, WriteDelimited(&buf, sampleCards, delim))
		require.Equal(t, len(sampleCards), strings.Count(buf.String(), "\n"))

		cards, err := ReadDelimited(&buf, delim)
		require.NoError(t, err)
		require.Equal(t, sampleCards, cards, "delimiter %q", delim)
	}
}

func TestReadDelimitedErrors(t *testing.T) {
	_, err := ReadDelimited(strings.NewReader(""), ",,")
	require.Error(t, err)

	_, err = ReadDelimited(strings.NewReader(""), `"`)
	require.Error(t, err)

	_, err = ReadDelimited(strings.NewReader(`"only","two"`+"\n"), ",")
	require.Error(t, err)

	cards, err := ReadDelimited(strings.NewReader(""), ",")
	require.NoError(t, err)
	require.Empty(t, cards)
}

func TestLiteralLineBreakReadsAsNewline(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDelimited(&buf, []Card{{Front: "a<br>b", Back: "x", Tags: "t"}}, ","))

	cards, err := ReadDelimited(&buf, ",")
	require.NoError(t, err)
	assert.Equal(t, []Card{{Front: "a\nb", Back: "x", Tags: "t"}}, cards)
}

func TestCheckDelimiter(t *testing.T) {
	for _, d := range []string{",", ";", "\t", "|"} {
		assert.NoError(t, CheckDelimiter(d), "%q", d)
	}
	for _, d := range []string{"", ",,", "::", `"`, "\n", "\r"} {
		assert.Error(t, CheckDelimiter(d), "%q", d)
	}
}

func TestDelimiterFor(t *testing.T) {
	d, ok := DelimiterFor("CSV")
	assert.True(t, ok)
	assert.Equal(t, ",", d)

	d, ok = DelimiterFor("tsv")
	assert.True(t, ok)
	assert.Equal(t, "\t", d)

	_, ok = DelimiterFor("apkg")
	assert.False(t, ok)
}
