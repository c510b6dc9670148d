package cmd

import (
	"fmt"
	"io"

	"github.com/f3rmion/lernkarten/internal/anki"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var ankiCmd = &cobra.Command{
	Use:   "anki",
	Short: "Work with Anki decks",
	Long:  `Commands for reading Anki .apkg files.`,
}

var ankiInspectCmd = &cobra.Command{
	Use:   "inspect <file.apkg>",
	Short: "Inspect an Anki deck",
	Long: `Inspect an Anki .apkg file to see its structure:
  - Decks
  - Note types (models) and their fields
  - Sample notes

Example:
  lernkarten anki inspect vokabeln.apkg`,
	Args: cobra.ExactArgs(1),
	RunE: runAnkiInspect,
}

var ankiInspectLimit int

func init() {
	rootCmd.AddCommand(ankiCmd)
	ankiCmd.AddCommand(ankiInspectCmd)

	ankiInspectCmd.Flags().IntVarP(&ankiInspectLimit, "limit", "n", 5, "Number of sample notes to show")
}

func runAnkiInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Opening: %s\n\n", path)

	pkg, err := anki.OpenPackage(path)
	if err != nil {
		return fmt.Errorf("opening package: %w", err)
	}
	defer pkg.Close()

	fmt.Fprint(out, pkg.Summary())
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Field Details:")
	for _, model := range pkg.Models {
		fmt.Fprintf(out, "  %s:\n", model.Name)
		for _, field := range model.Fields {
			fmt.Fprintf(out, "    [%d] %s\n", field.Ord, field.Name)
		}
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Sample Notes (first %d):\n", ankiInspectLimit)
	for i, note := range pkg.Notes {
		if i >= ankiInspectLimit {
			break
		}

		modelName := "unknown"
		if model := pkg.Model(note); model != nil {
			modelName = model.Name
		}

		fmt.Fprintf(out, "\n  Note %d (Model: %s):\n", note.ID, modelName)
		fieldNames := pkg.FieldNames(note)
		for _, name := range fieldNames {
			printField(out, name, pkg.FieldValue(note, name))
		}
		// Fields the note type does not name.
		for j := len(fieldNames); j < len(note.Fields); j++ {
			printField(out, fmt.Sprintf("Field %d", j), note.Fields[j])
		}
		if note.Tags != "" {
			fmt.Fprintf(out, "    Tags:%s\n", note.Tags)
		}
	}

	return nil
}

func printField(out io.Writer, name, value string) {
	fmt.Fprintf(out, "    %s: %s\n", name, runewidth.Truncate(anki.StripHTML(value), 100, "..."))
}
