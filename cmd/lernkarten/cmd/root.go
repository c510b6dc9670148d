// Package cmd contains all CLI commands for lernkarten.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/f3rmion/lernkarten/internal/config"
	"github.com/f3rmion/lernkarten/internal/dictionary"
	"github.com/f3rmion/lernkarten/internal/scrape"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lernkarten",
	Short: "German vocabulary flashcards from the Cambridge dictionary",
	Long: `lernkarten looks up German and English words in the Cambridge bilingual
dictionaries and turns the definitions into flashcards.

Cards are written as CSV/TSV for import into any flashcard app, or as an
Anki .apkg deck:
  - Nouns   → article, singular and plural, examples
  - Verbs   → conjugation table (present tense omitted)
  - Adjectives and adverbs → forms and examples

Run 'lernkarten init' once to write a config file you can edit.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

// ExecuteContext adds all child commands to the root command and runs it with
// ctx, which main cancels on Ctrl-C.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config directory (default is $HOME/.config/lernkarten)")
	flags.Bool("verbose", false, "verbose output")
	flags.String("base-url", "", "dictionary root URL (overrides config)")
	flags.String("user-agent", "", "User-Agent sent with page requests (overrides config)")
	flags.Duration("timeout", 0, "per request timeout (overrides config)")

	viper.BindPFlag("verbose", flags.Lookup("verbose"))
	viper.BindPFlag("base_url", flags.Lookup("base-url"))
	viper.BindPFlag("user_agent", flags.Lookup("user-agent"))
	viper.BindPFlag("timeout", flags.Lookup("timeout"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.Set("config_dir", cfgFile)
	} else {
		configDir, err := config.GetConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}
		viper.Set("config_dir", configDir)
	}

	viper.SetEnvPrefix("LERNKARTEN")
	viper.AutomaticEnv()
}

// setupLogging installs the stderr log handler used by every package.
func setupLogging(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	return viper.GetString("config_dir")
}

// loadConfig reads config.yaml from the config directory and applies flag and
// environment overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadDir(getConfigDir())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if v := viper.GetString("base_url"); v != "" {
		cfg.BaseURL = v
	}
	if v := viper.GetString("user_agent"); v != "" {
		cfg.UserAgent = v
	}
	if v := viper.GetDuration("timeout"); v > 0 {
		cfg.Timeout = v
	}

	slog.Debug("config loaded", "dir", getConfigDir(), "base_url", cfg.BaseURL, "from", cfg.From, "to", cfg.To)
	return cfg, nil
}

// newSelector builds the dictionary table for cfg.
func newSelector(cfg *config.Config) *dictionary.Selector {
	client := scrape.NewClient(scrape.ClientOptions{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout,
	})
	return dictionary.NewSelector(client, dictionary.DefaultConfigs(cfg.BaseURL)...)
}
