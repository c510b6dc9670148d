package dictionary

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// DefaultBaseURL is the root of the bilingual Cambridge dictionaries.
const DefaultBaseURL = "https://dictionary.cambridge.org/us/dictionary"

// Language is a two-letter language code.
type Language string

const (
	English Language = "en"
	German  Language = "de"
)

// Pair is a (source, target) language pair.
type Pair struct {
	From Language
	To   Language
}

func (p Pair) String() string {
	return string(p.From) + "->" + string(p.To)
}

// Config binds a language pair to the page location and extraction strategy
// used for it.
type Config struct {
	Pair      Pair
	BaseURL   string
	Extractor Extractor
}

// DefaultConfigs returns the English to German and German to English
// configurations rooted at baseURL.
func DefaultConfigs(baseURL string) []Config {
	baseURL = strings.TrimRight(baseURL, "/")
	return []Config{
		{
			Pair:      Pair{From: English, To: German},
			BaseURL:   baseURL + "/english-german",
			Extractor: PairExtractor{Class: "english-german"},
		},
		{
			Pair:      Pair{From: German, To: English},
			BaseURL:   baseURL + "/german-english",
			Extractor: EntryExtractor{},
		},
	}
}

// Fetcher downloads the page of a word below a base URL. Empty content with a
// nil error means the site had no page for the word.
type Fetcher interface {
	Fetch(ctx context.Context, baseURL, word string) ([]byte, error)
}

// Selector hands out dictionaries for the configured language pairs.
type Selector struct {
	fetcher Fetcher
	configs map[Pair]Config
}

// NewSelector creates a Selector over configs. A later config for the same pair
// replaces an earlier one.
func NewSelector(fetcher Fetcher, configs ...Config) *Selector {
	s := &Selector{
		fetcher: fetcher,
		configs: make(map[Pair]Config, len(configs)),
	}
	for _, c := range configs {
		s.configs[c.Pair] = c
	}
	return s
}

// Select returns the dictionary for from -> to. Unsupported pairs are logged
// and yield nil, false.
func (s *Selector) Select(from, to Language) (*Dictionary, bool) {
	pair := Pair{From: from, To: to}
	cfg, ok := s.configs[pair]
	if !ok {
		slog.Warn("unsupported language pair", "from", string(from), "to", string(to))
		return nil, false
	}
	return &Dictionary{config: cfg, fetcher: s.fetcher}, true
}

// Pairs lists the supported language pairs, ordered by source and then
// target language.
func (s *Selector) Pairs() []Pair {
	pairs := make([]Pair, 0, len(s.configs))
	for p := range s.configs {
		pairs = append(pairs, p)
	}
	slices.SortFunc(pairs, func(a, b Pair) int {
		return cmp.Or(cmp.Compare(a.From, b.From), cmp.Compare(a.To, b.To))
	})
	return pairs
}

// Dictionary looks up words for one language pair.
type Dictionary struct {
	config  Config
	fetcher Fetcher
}

// Pair returns the language pair this dictionary translates.
func (d *Dictionary) Pair() Pair {
	return d.config.Pair
}

// Lookup fetches the page for word and extracts its entries. A missing page
// returns no entries and no error.
func (d *Dictionary) Lookup(ctx context.Context, word string) ([]Entry, error) {
	page, err := d.fetcher.Fetch(ctx, d.config.BaseURL, word)
	if err != nil {
		return nil, err
	}
	if len(page) == 0 {
		return nil, nil
	}

	entries, err := d.config.Extractor.Extract(page)
	if err != nil {
		return nil, fmt.Errorf("extracting %q (%s): %w", word, d.config.Pair, err)
	}
	return entries, nil
}
