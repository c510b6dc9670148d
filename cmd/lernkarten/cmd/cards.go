package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/f3rmion/lernkarten/internal/anki"
	"github.com/f3rmion/lernkarten/internal/cards"
	"github.com/f3rmion/lernkarten/internal/config"
	"github.com/f3rmion/lernkarten/internal/dictionary"
	"github.com/f3rmion/lernkarten/internal/flashcard"
	"github.com/spf13/cobra"
)

var cardsCmd = &cobra.Command{
	Use:   "cards [words-file...]",
	Short: "Build flashcards from a list of words",
	Long: `Look up every word and write one flashcard per dictionary entry.

Words are read one per line; only the first token of each line is used and
blank lines are skipped. Without file arguments the words are read from stdin.

The output format follows the file extension unless --format is given:
  - csv   every field quoted, comma separated (delimiter from config)
  - tsv   tab separated
  - apkg  Anki deck, importable with File → Import

Examples:
  lernkarten cards words.txt
  lernkarten cards words.txt -o vokabeln.apkg --deck Vokabeln
  echo Ente | lernkarten cards -o - --format tsv`,
	RunE: runCards,
}

var (
	cardsOutput string
	cardsFormat string
	cardsFrom   string
	cardsTo     string
	cardsDeck   string
)

func init() {
	rootCmd.AddCommand(cardsCmd)

	cardsCmd.Flags().StringVarP(&cardsOutput, "output", "o", "cards.csv", "Output file (- for stdout)")
	cardsCmd.Flags().StringVar(&cardsFormat, "format", "", "Output format: csv, tsv, apkg (default from output extension)")
	cardsCmd.Flags().StringVar(&cardsFrom, "from", "", "Language of the words (default from config)")
	cardsCmd.Flags().StringVar(&cardsTo, "to", "", "Translation language (default from config)")
	cardsCmd.Flags().StringVar(&cardsDeck, "deck", "", "Deck name for apkg output (default from config)")
}

func runCards(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, err := outputFormat(cardsFormat, cardsOutput)
	if err != nil {
		return err
	}

	var words []string
	if len(args) == 0 {
		words, err = cards.ReadWords(cmd.InOrStdin())
	} else {
		words, err = cards.ReadWordFiles(args)
	}
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return fmt.Errorf("no words to look up")
	}

	from := dictionary.Language(orDefault(cardsFrom, cfg.From))
	to := dictionary.Language(orDefault(cardsTo, cfg.To))
	dict, ok := newSelector(cfg).Select(from, to)
	if !ok {
		return fmt.Errorf("unsupported language pair: %s -> %s", from, to)
	}

	fmt.Fprintf(os.Stderr, "Looking up %d words (%s)\n", len(words), dict.Pair())

	res, err := cards.NewBuilder(dict).Build(cmd.Context(), words)
	if err != nil {
		return fmt.Errorf("building cards: %w", err)
	}

	if err := writeCards(cmd, cfg, format, res.Cards); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Wrote %d cards to %s (%d skipped)\n", len(res.Cards), cardsOutput, len(res.Skipped))
	for _, s := range res.Skipped {
		if s.Label != "" {
			fmt.Fprintf(os.Stderr, "  - %s (%s): %v\n", s.Word, s.Label, s.Err)
		} else {
			fmt.Fprintf(os.Stderr, "  - %s: %v\n", s.Word, s.Err)
		}
	}

	return nil
}

// outputFormat resolves the format flag, falling back to the extension of
// the output path.
func outputFormat(format, output string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
		if format == "" {
			format = "csv"
		}
	}

	switch format {
	case "csv", "tsv", "apkg":
		return format, nil
	default:
		return "", fmt.Errorf("unknown format: %s", format)
	}
}

func writeCards(cmd *cobra.Command, cfg *config.Config, format string, cs []flashcard.Card) error {
	if format == "apkg" {
		if cardsOutput == "-" {
			return fmt.Errorf("apkg output needs a file, not stdout")
		}
		pkg := anki.NewDeckPackage(orDefault(cardsDeck, cfg.DeckName))
		for _, c := range cs {
			pkg.AddNote(c.Front, c.Back, c.Tags)
		}
		if err := pkg.WriteFile(cardsOutput); err != nil {
			return fmt.Errorf("writing deck: %w", err)
		}
		return nil
	}

	delim, _ := flashcard.DelimiterFor(format)
	if format == "csv" {
		delim = orDefault(cfg.Delimiter, delim)
	}

	if cardsOutput == "-" {
		return flashcard.WriteDelimited(cmd.OutOrStdout(), cs, delim)
	}

	f, err := os.Create(cardsOutput)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	if err := flashcard.WriteDelimited(f, cs, delim); err != nil {
		return fmt.Errorf("writing cards: %w", err)
	}
	return f.Close()
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
