package cards

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/f3rmion/lernkarten/internal/dictionary"
	"github.com/f3rmion/lernkarten/internal/flashcard"
	"github.com/f3rmion/lernkarten/internal/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstWord(t *testing.T) {
	assert.Equal(t, "Ente", FirstWord("Ente  duck"))
	assert.Equal(t, "Ente", FirstWord("\t Ente\n"))
	assert.Equal(t, "", FirstWord("   "))
}

func TestReadWords(t *testing.T) {
	words, err := ReadWords(strings.NewReader("Ente duck\n\n  gehen\nschnell # fast\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Ente", "gehen", "schnell"}, words)
}

func TestReadWordFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("Ente\nHaus\n"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("gehen\n"), 0644))

	words, err := ReadWordFiles([]string{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ente", "Haus", "gehen"}, words)

	_, err = ReadWordFiles([]string{a, filepath.Join(dir, "missing.txt")})
	require.ErrorIs(t, err, os.ErrNotExist)
}

type fakeDictionary struct {
	entries map[string][]dictionary.Entry
	errs    map[string]error
	calls   []string
}

func (f *fakeDictionary) Lookup(_ context.Context, word string) ([]dictionary.Entry, error) {
	f.calls = append(f.calls, word)
	if err := f.errs[word]; err != nil {
		return nil, err
	}
	return f.entries[word], nil
}

func TestBuildSkipsFailuresAndContinues(t *testing.T) {
	boom := errors.New("boom")
	dict := &fakeDictionary{
		entries: map[string][]dictionary.Entry{
			"Ente": {{
				Headword:     "Ente",
				PartOfSpeech: dictionary.Noun,
				Label:        "noun",
				Translation:  "duck",
				Gender:       dictionary.Feminine,
				Forms:        []dictionary.Form{{"nominative", "plural", "Enten"}},
			}},
			"mit": {{Headword: "mit", PartOfSpeech: dictionary.Other, Label: "preposition", Translation: "with"}},
			"gern": {{Headword: "gern", PartOfSpeech: dictionary.Adverb, Label: "adverb", Translation: "gladly"}},
		},
		errs: map[string]error{"Fehler": boom},
	}

	res, err := NewBuilder(dict).Build(context.Background(), []string{"Fehler", "Ente", "nichts", "mit", "gern"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Fehler", "Ente", "nichts", "mit", "gern"}, dict.calls)
	assert.Equal(t, []flashcard.Card{
		{Front: "duck (en)", Back: "die Ente, die Enten\n\n", Tags: "noun english-german"},
		{Front: "gladly (en)", Back: "gern\n", Tags: "adverb english-german"},
	}, res.Cards)

	require.Len(t, res.Skipped, 3)
	assert.ErrorIs(t, res.Skipped[0].Err, boom)
	assert.ErrorIs(t, res.Skipped[1].Err, ErrNoDefinition)
	assert.Equal(t, "preposition", res.Skipped[2].Label)
	assert.ErrorIs(t, res.Skipped[2].Err, flashcard.ErrUnsupportedPartOfSpeech)
}

func TestBuildStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dict := &fakeDictionary{}
	_, err := NewBuilder(dict).Build(ctx, []string{"Ente"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, dict.calls)
}

const entePage = `<html><body>
<div class="kdic">
  <h2 class="di-title">Ente</h2>
  <span class="pos dpos">noun</span>
  <span class="gc dgc">feminine</span>
  <span class="inf-group"><b>nominative</b><b>plural</b><b>Enten</b></span>
  <span class="trans dtrans">duck</span>
</div>
<div class="kdic">
  <h2 class="di-title">Ente</h2>
  <span class="pos dpos">noun</span>
  <span class="trans dtrans">canard</span>
</div>
</body></html>`

func TestBuildAgainstServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/dictionary/german-english/Ente" {
			w.Write([]byte(entePage))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	selector := dictionary.NewSelector(
		scrape.NewClient(scrape.ClientOptions{}),
		dictionary.DefaultConfigs(server.URL+"/dictionary")...,
	)
	dict, ok := selector.Select(dictionary.German, dictionary.English)
	require.True(t, ok)

	res, err := NewBuilder(dict).Build(context.Background(), []string{"Ente", "Gans"})
	require.NoError(t, err)
	require.Len(t, res.Cards, 1)
	assert.Equal(t, "die Ente, die Enten\n\n", res.Cards[0].Back)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "Gans", res.Skipped[0].Word)
	assert.ErrorIs(t, res.Skipped[0].Err, ErrNoDefinition)
}

const duckPage = `<html><body>
<div class="english-german">
  <span class="pos">noun</span>
  <span class="trans dtrans">die Ente</span>
</div>
<div class="english-german">
  <span class="pos">verb</span>
  <span class="trans dtrans">ducken</span>
</div>
</body></html>`

func TestBuildEnglishGermanPutsQueryOnFront(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/dictionary/english-german/duck" {
			w.Write([]byte(duckPage))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	selector := dictionary.NewSelector(
		scrape.NewClient(scrape.ClientOptions{}),
		dictionary.DefaultConfigs(server.URL+"/dictionary")...,
	)
	dict, ok := selector.Select(dictionary.English, dictionary.German)
	require.True(t, ok)

	res, err := NewBuilder(dict).Build(context.Background(), []string{"duck"})
	require.NoError(t, err)

	assert.Equal(t, []flashcard.Card{
		{Front: "duck (en)", Back: "ducken\n", Tags: "verb english-german"},
	}, res.Cards)

	// The pages carry no gender, so nouns cannot get an article.
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "noun", res.Skipped[0].Label)
	assert.ErrorIs(t, res.Skipped[0].Err, flashcard.ErrMissingArticle)
}
