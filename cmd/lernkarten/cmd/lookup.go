package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/f3rmion/lernkarten/internal/cards"
	"github.com/f3rmion/lernkarten/internal/dictionary"
	"github.com/f3rmion/lernkarten/internal/tui"
	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [word...]",
	Short: "Print the translations of words",
	Long: `Look up words in the German-English dictionary, falling back to the
English-German one, and print one "part of speech -> translation" line per
entry.

Without arguments, words are read from stdin one per line until EOF.

Example:
  lernkarten lookup Ente gehen
  cat words.txt | lernkarten lookup`,
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dicts := lookupDictionaries(newSelector(cfg))
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) > 0 {
		for _, word := range args {
			if err := lookupWord(ctx, out, dicts, word); err != nil {
				return err
			}
		}
		return nil
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		word := cards.FirstWord(scanner.Text())
		if word == "" {
			continue
		}
		if err := lookupWord(ctx, out, dicts, word); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// lookupDictionaries returns the dictionaries in the order they are tried for
// a word. German sorts before English, so de->en comes first.
func lookupDictionaries(selector *dictionary.Selector) []*dictionary.Dictionary {
	var dicts []*dictionary.Dictionary
	for _, p := range selector.Pairs() {
		if d, ok := selector.Select(p.From, p.To); ok {
			dicts = append(dicts, d)
		}
	}
	return dicts
}

// lookupWord prints the entries of the first dictionary that knows word. Only
// cancellation is returned as an error; lookup failures count as "not found".
func lookupWord(ctx context.Context, out io.Writer, dicts []*dictionary.Dictionary, word string) error {
	for _, d := range dicts {
		entries, err := d.Lookup(ctx, word)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.WarnContext(ctx, "lookup failed", "word", word, "pair", d.Pair().String(), "err", err)
			continue
		}
		if len(entries) == 0 {
			continue
		}

		for _, e := range entries {
			fmt.Fprintf(out, "%s -> %s\n",
				tui.PartOfSpeechStyle.Render(e.Label),
				tui.TranslationStyle.Render(e.Translation),
			)
		}
		return nil
	}

	fmt.Fprintf(out, "Unable to get definition for: %s\n", word)
	return nil
}
