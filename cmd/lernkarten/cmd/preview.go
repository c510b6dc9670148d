package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/lernkarten/internal/anki"
	"github.com/f3rmion/lernkarten/internal/flashcard"
	"github.com/f3rmion/lernkarten/internal/tui"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview <file.csv|file.tsv|file.apkg>",
	Short: "Page through generated flashcards",
	Long: `Open a card file in an interactive viewer.

Keys:
  ↑/↓ or k/j   previous / next card
  space        flip the card
  /            filter cards by text (x clears the filter)
  c            copy the visible side to the clipboard
  q            quit`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cs, err := loadCards(path, cfg.Delimiter)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		tui.NewPreview(filepath.Base(path), cs),
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

// loadCards reads the cards of a delimited file or an Anki package. csvDelim
// is used for .csv files.
func loadCards(path, csvDelim string) ([]flashcard.Card, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")

	if format == "apkg" {
		pkg, err := anki.OpenPackage(path)
		if err != nil {
			return nil, fmt.Errorf("opening package: %w", err)
		}
		defer pkg.Close()
		return tui.CardsFromPackage(pkg), nil
	}

	delim, ok := flashcard.DelimiterFor(format)
	if !ok {
		return nil, fmt.Errorf("unknown card file format: %s", path)
	}
	if format == "csv" && csvDelim != "" {
		delim = csvDelim
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening card file: %w", err)
	}
	defer f.Close()

	return flashcard.ReadDelimited(f, delim)
}
