package dictionary

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	pages   map[string]string
	err     error
	lastURL string
}

func (f *fakeFetcher) Fetch(_ context.Context, baseURL, word string) ([]byte, error) {
	f.lastURL = baseURL + "/" + word
	if f.err != nil {
		return nil, f.err
	}
	page, ok := f.pages[f.lastURL]
	if !ok {
		return nil, nil
	}
	return []byte(page), nil
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })
	return &buf
}

func TestSelectUnsupportedPair(t *testing.T) {
	logs := captureLogs(t)

	selector := NewSelector(&fakeFetcher{}, DefaultConfigs(DefaultBaseURL)...)
	dict, ok := selector.Select("fr", English)
	require.False(t, ok)
	require.Nil(t, dict)
	assert.Contains(t, logs.String(), "unsupported language pair")
	assert.Contains(t, logs.String(), "from=fr")
}

func TestSelectSupportedPairs(t *testing.T) {
	selector := NewSelector(&fakeFetcher{}, DefaultConfigs("https://example.org/dictionary/")...)

	deEn, ok := selector.Select(German, English)
	require.True(t, ok)
	assert.Equal(t, Pair{From: German, To: English}, deEn.Pair())
	assert.Equal(t, "https://example.org/dictionary/german-english", deEn.config.BaseURL)
	assert.IsType(t, EntryExtractor{}, deEn.config.Extractor)

	enDe, ok := selector.Select(English, German)
	require.True(t, ok)
	assert.Equal(t, "https://example.org/dictionary/english-german", enDe.config.BaseURL)
	assert.Equal(t, PairExtractor{Class: "english-german"}, enDe.config.Extractor)

	assert.Equal(t, []Pair{{From: German, To: English}, {From: English, To: German}}, selector.Pairs())
}

func TestSelectInjectedTable(t *testing.T) {
	selector := NewSelector(&fakeFetcher{}, Config{
		Pair:      Pair{From: German, To: English},
		BaseURL:   "https://mirror.example/de-en",
		Extractor: EntryExtractor{},
	})

	_, ok := selector.Select(English, German)
	require.False(t, ok)

	dict, ok := selector.Select(German, English)
	require.True(t, ok)
	assert.Equal(t, "https://mirror.example/de-en", dict.config.BaseURL)
}

func TestLookup(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://example.org/german-english/Ente": entePage,
	}}
	selector := NewSelector(fetcher, DefaultConfigs("https://example.org")...)
	dict, ok := selector.Select(German, English)
	require.True(t, ok)

	entries, err := dict.Lookup(context.Background(), "Ente")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "duck", entries[0].Translation)

	entries, err = dict.Lookup(context.Background(), "Schwan")
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestLookupPropagatesFetchErrors(t *testing.T) {
	boom := errors.New("boom")
	selector := NewSelector(&fakeFetcher{err: boom}, DefaultConfigs("https://example.org")...)
	dict, _ := selector.Select(English, German)

	_, err := dict.Lookup(context.Background(), "duck")
	require.ErrorIs(t, err, boom)
}

func TestEntryOriented(t *testing.T) {
	e := Entry{PartOfSpeech: Verb, Label: "verb", Translation: "ducken"}
	assert.Equal(t,
		Entry{Headword: "ducken", PartOfSpeech: Verb, Label: "verb", Translation: "duck"},
		e.Oriented(Pair{From: English, To: German}, "duck"))

	de := Entry{Headword: "Ente", PartOfSpeech: Noun, Label: "noun", Translation: "duck"}
	assert.Equal(t, de, de.Oriented(Pair{From: German, To: English}, "Ente"))
}
