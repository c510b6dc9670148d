package cards

import (
	"context"
	"errors"
	"log/slog"

	"github.com/f3rmion/lernkarten/internal/dictionary"
	"github.com/f3rmion/lernkarten/internal/flashcard"
)

// Lookuper finds the dictionary entries of a word.
type Lookuper interface {
	Lookup(ctx context.Context, word string) ([]dictionary.Entry, error)
}

// pairer is implemented by lookupers that know their language pair.
type pairer interface {
	Pair() dictionary.Pair
}

// Skip records a word or entry that produced no card.
type Skip struct {
	Word  string
	Label string // part of speech label, empty when the whole word failed
	Err   error
}

// Result is the outcome of a Build run.
type Result struct {
	Cards   []flashcard.Card
	Skipped []Skip
}

// Builder turns words into flashcards, one word at a time.
type Builder struct {
	dict Lookuper
}

// NewBuilder creates a Builder backed by dict.
func NewBuilder(dict Lookuper) *Builder {
	return &Builder{dict: dict}
}

// ErrNoDefinition marks words for which the dictionary returned no entries.
var ErrNoDefinition = errors.New("no definition found")

// Build looks up every word and formats its entries. A failing word or entry
// is logged, recorded in Result.Skipped, and does not stop the run. Build only
// returns early when ctx is cancelled.
func (b *Builder) Build(ctx context.Context, words []string) (Result, error) {
	var res Result

	for _, word := range words {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		entries, err := b.dict.Lookup(ctx, word)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			slog.ErrorContext(ctx, "lookup failed", "word", word, "err", err)
			res.Skipped = append(res.Skipped, Skip{Word: word, Err: err})
			continue
		}
		if len(entries) == 0 {
			slog.WarnContext(ctx, "unable to get definition", "word", word)
			res.Skipped = append(res.Skipped, Skip{Word: word, Err: ErrNoDefinition})
			continue
		}

		for _, entry := range entries {
			if p, ok := b.dict.(pairer); ok {
				entry = entry.Oriented(p.Pair(), word)
			}
			card, err := flashcard.Format(entry)
			if err != nil {
				slog.InfoContext(ctx, "entry not formattable", "word", word, "pos", entry.Label, "err", err)
				res.Skipped = append(res.Skipped, Skip{Word: word, Label: entry.Label, Err: err})
				continue
			}
			res.Cards = append(res.Cards, card)
		}
	}

	return res, nil
}
