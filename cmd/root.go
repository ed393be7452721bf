package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/grammiz/internal/config"
	"github.com/abhisek/grammiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "grammiz",
	Short: "English grammar quiz for the terminal",
	Long: `Grammiz is a terminal quiz for beginner English grammar: to be, have got
and the present simple. Questions adapt to how well you are doing, and an
optional LLM tutor explains your mistakes.

Configuration is read from ~/.config/grammiz/grammiz.yaml, a .env file and
GRAMMIZ_* environment variables. Set ANTHROPIC_API_KEY, OPENAI_API_KEY,
GEMINI_API_KEY or OPENROUTER_API_KEY to enable the tutor.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		skip, _ := cmd.Flags().GetBool("skip-splash")
		return runApp(cmd, "", skip)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a config file (default ~/.config/grammiz/grammiz.yaml)")
	pf.String("db", "", "Path to SQLite database file (overrides GRAMMIZ_DB env var)")
	pf.Bool("no-db", false, "Do not record sessions")
	pf.String("tier", "", "Pin the difficulty tier: lvl0, easy, medium or hard")
	pf.Uint64("seed", 0, "Random seed for reproducible questions (0 = time-seeded)")
	pf.Int("lives", 0, "Lives per session (overrides config)")
	pf.StringSlice("subjects", nil, "Only ask about these subjects, e.g. --subjects he,she")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.Flags().Bool("skip-splash", false, "Skip the welcome animation")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(drillCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads configuration and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Options{File: file})
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath, _ = flags.GetString("db")
	}
	if flags.Changed("tier") {
		cfg.Tier, _ = flags.GetString("tier")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("lives") {
		cfg.MaxLives, _ = flags.GetInt("lives")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db / GRAMMIZ_DB first,
// then the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
