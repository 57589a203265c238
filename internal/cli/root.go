package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"clinicbot/config"
)

var (
	cfgFile    string
	cfg        *config.Config
	rootDir    string
	corpusFile string
)

var rootCmd = &cobra.Command{
	Use:   "clinicbot",
	Short: "Offline question answering assistant for Elite Body Home Polyclinic",
	Long: `clinicbot answers questions about the clinic. Common questions (hours,
location, contact, treatments) are matched by keyword; anything else is
answered with the closest paragraphs from a prebuilt embedding corpus.
Appointments can be booked from the interactive chat.

Example usage:
  clinicbot index ./docs                  # Build the corpus from clinic documents
  clinicbot chat                          # Start the interactive assistant
  clinicbot ask -q "what are your hours"  # Answer a single question
  clinicbot retrieve -q "fat freezing"    # Show the nearest corpus paragraphs`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		// API keys for remote embedders may live in .env
		_ = godotenv.Load()

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		slog.SetDefault(newLogger(cfg.Logging))
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./clinicbot.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
	rootCmd.PersistentFlags().StringVar(&corpusFile, "corpus", "", "corpus file (default is <dir>/.clinicbot/corpus.db)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}

// GetCorpusPath resolves the corpus file for dir: the --corpus flag wins,
// then corpus.path from the config.
func GetCorpusPath(dir string) string {
	if corpusFile != "" {
		return corpusFile
	}
	return cfg.CorpusPath(dir)
}

func newLogger(lc config.LoggingConfig) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(lc.Level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(lc.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
