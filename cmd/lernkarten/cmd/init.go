package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/f3rmion/lernkarten/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize lernkarten configuration",
	Long: `Write a config.yaml with the default settings to your config directory.

The file holds:
  - base_url    dictionary root URL
  - user_agent  sent with every page request
  - timeout     per request, e.g. 30s
  - from / to   default language pair for 'lernkarten cards'
  - delimiter   field delimiter for csv output
  - deck_name   deck name for apkg output`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	configDir := getConfigDir()
	path := filepath.Join(configDir, config.FileName)

	// Check if config already exists
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", path)
	}

	if err := config.EnsureConfigDir(configDir); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := config.Save(path, config.Default()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n\n", path)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Edit the file to change the language pair or deck name")
	fmt.Fprintln(out, "  2. Run 'lernkarten lookup <word>' to test a lookup")
	fmt.Fprintln(out, "  3. Run 'lernkarten cards words.txt' to build flashcards")

	return nil
}
