package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/grammiz/internal/grammar"
	"github.com/abhisek/grammiz/internal/llm"
)

// ErrInvalidConfig wraps every validation failure returned by Load.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	DBPath          string        `mapstructure:"db"`               // SQLite path; empty means the XDG default
	RulesDir        string        `mapstructure:"rules_dir"`        // extra rule tables merged over the built-ins
	MaxLives        int           `mapstructure:"max_lives"`        // lives per session
	Tier            string        `mapstructure:"tier"`             // pinned tier; empty means adaptive
	Topic           string        `mapstructure:"topic"`            // default topic for line-mode play
	QuestionSeconds int           `mapstructure:"question_seconds"` // countdown per question; 0 disables
	Seed            uint64        `mapstructure:"seed"`             // 0 means time-seeded
	LogLevel        string        `mapstructure:"log_level"`        // debug, info, warn, error
	LogFile         string        `mapstructure:"log_file"`         // empty means stderr (line mode) or no log (TUI)
	Tutor           bool          `mapstructure:"tutor"`            // request AI explanations when a provider is set
	TutorTimeout    time.Duration `mapstructure:"tutor_timeout"`
	LLM             llm.Config    `mapstructure:"llm"`
}

// Options controls where Load looks for input.
type Options struct {
	// File is an explicit config file. When set it must exist.
	File string
	// EnvFile is a dotenv file loaded before environment lookup. Missing
	// files are ignored.
	EnvFile string
}

// Load reads configuration from a config file, a .env file and GRAMMIZ_*
// environment variables, in increasing order of precedence.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GRAMMIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("grammiz")
		v.SetConfigType("yaml")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.LLM.Discover()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can find it during
// Unmarshal.
func setDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()

	v.SetDefault("db", "")
	v.SetDefault("rules_dir", "")
	v.SetDefault("max_lives", 3)
	v.SetDefault("tier", "")
	v.SetDefault("topic", "to-be")
	v.SetDefault("question_seconds", 0)
	v.SetDefault("seed", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("tutor", true)
	v.SetDefault("tutor_timeout", "20s")

	v.SetDefault("llm.provider", d.Provider)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", d.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", d.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", d.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", d.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.Retry.Multiplier)
}

// configDir returns $XDG_CONFIG_HOME/grammiz, falling back to ~/.config/grammiz.
func configDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "grammiz"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "grammiz"), nil
}

// Validate checks value ranges and cross-field constraints.
func (c *Config) Validate() error {
	var errs []string
	if c.MaxLives < 1 {
		errs = append(errs, fmt.Sprintf("max_lives must be at least 1, got %d", c.MaxLives))
	}
	if c.QuestionSeconds < 0 {
		errs = append(errs, fmt.Sprintf("question_seconds must not be negative, got %d", c.QuestionSeconds))
	}
	if c.Tier != "" {
		if _, err := grammar.ParseTier(c.Tier); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := c.LLM.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  %s", ErrInvalidConfig, strings.Join(errs, "\n  "))
	}
	return nil
}

// PinnedTier returns the configured tier override, if any.
func (c *Config) PinnedTier() (grammar.Tier, bool) {
	if c.Tier == "" {
		return 0, false
	}
	t, err := grammar.ParseTier(c.Tier)
	if err != nil {
		return 0, false
	}
	return t, true
}

// QuestionTimeout returns the per-question countdown, or zero when disabled.
func (c *Config) QuestionTimeout() time.Duration {
	return time.Duration(c.QuestionSeconds) * time.Second
}

// Topics returns the built-in rule tables merged with those in RulesDir.
func (c *Config) Topics() ([]*grammar.Topic, error) {
	builtin, err := grammar.Builtin()
	if err != nil {
		return nil, err
	}
	if c.RulesDir == "" {
		return builtin, nil
	}
	extra, err := grammar.LoadDir(c.RulesDir)
	if err != nil {
		return nil, err
	}
	return grammar.Merge(builtin, extra), nil
}
