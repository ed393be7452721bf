package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/grammiz/internal/app"
	"github.com/abhisek/grammiz/internal/config"
	"github.com/abhisek/grammiz/internal/grammar"
	"github.com/abhisek/grammiz/internal/llm"
	"github.com/abhisek/grammiz/internal/logging"
	"github.com/abhisek/grammiz/internal/problemgen"
	"github.com/abhisek/grammiz/internal/rng"
	"github.com/abhisek/grammiz/internal/screens/trainer"
	"github.com/abhisek/grammiz/internal/store"
	"github.com/abhisek/grammiz/internal/tutor"
)

// envOptions selects which collaborators a command needs.
type envOptions struct {
	// TUI sends logs to a file instead of stderr.
	TUI bool
	// Store opens the database unless --no-db is set.
	Store bool
	// Tutor builds the LLM tutor when one is configured.
	Tutor bool
}

// env holds everything a command builds from configuration.
type env struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *store.Store
	registry *problemgen.Registry
	tutor    *tutor.Service
	source   rng.Source
	subjects []string
}

// newEnv loads configuration and builds the requested collaborators.
func newEnv(cmd *cobra.Command, opts envOptions) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logPath := cfg.LogFile
	if opts.TUI && logPath == "" {
		if logPath, err = logging.DefaultPath(); err != nil {
			return nil, fmt.Errorf("resolve log path: %w", err)
		}
	}
	level := cfg.LogLevel
	// Info logs on stderr would interleave with line-mode output.
	if logPath == "" && !cmd.Flags().Changed("log-level") && level == "info" {
		level = "warn"
	}
	logger, err := logging.New(level, logPath)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, logger: logger}
	e.subjects, _ = cmd.Flags().GetStringSlice("subjects")

	topics, err := cfg.Topics()
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("load rule tables: %w", err)
	}
	if e.registry, err = problemgen.NewRegistry(topics); err != nil {
		e.Close()
		return nil, err
	}

	if cfg.Seed != 0 {
		e.source = rng.New(cfg.Seed)
	} else {
		e.source = rng.NewTimeSeeded()
	}

	noDB, _ := cmd.Flags().GetBool("no-db")
	if opts.Store && !noDB {
		dbPath, err := resolveDBPath(cfg)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		if e.store, err = store.Open(dbPath, store.WithLogger(logger)); err != nil {
			e.Close()
			return nil, fmt.Errorf("open store: %w", err)
		}
	}

	if opts.Tutor && cfg.Tutor && cfg.LLM.Enabled() {
		var repo store.EventRepo
		if e.store != nil {
			repo = e.store.EventRepo()
		}
		provider, err := llm.NewProvider(cmdContext(cmd), cfg.LLM, repo, logger)
		if err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "AI explanations will be unavailable.")
		} else {
			tcfg := tutor.DefaultConfig()
			if cfg.TutorTimeout > 0 {
				tcfg.Timeout = cfg.TutorTimeout
			}
			e.tutor = tutor.NewService(provider, tcfg, logger)
		}
	}

	return e, nil
}

// eventRepo returns the store's repo, or nil when running without a database.
func (e *env) eventRepo() store.EventRepo {
	if e.store == nil {
		return nil
	}
	return e.store.EventRepo()
}

// trainerDeps adapts the environment for the interactive screens.
func (e *env) trainerDeps() trainer.Deps {
	d := trainer.Deps{
		Registry:        e.registry,
		EventRepo:       e.eventRepo(),
		Tutor:           e.tutor,
		Source:          e.source,
		MaxLives:        e.cfg.MaxLives,
		QuestionTimeout: e.cfg.QuestionTimeout(),
		Subjects:        e.subjects,
		Logger:          e.logger,
	}
	d.Tier, d.Pinned = e.cfg.PinnedTier()
	return d
}

// Close releases everything newEnv opened.
func (e *env) Close() {
	if e.tutor != nil {
		e.tutor.Close()
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.logger.Warn("close store", zap.Error(err))
		}
	}
	_ = e.logger.Sync()
}

// runApp builds dependencies and launches the TUI, optionally straight
// into a topic.
func runApp(cmd *cobra.Command, topic grammar.TopicID, skipSplash bool) error {
	e, err := newEnv(cmd, envOptions{TUI: true, Store: true, Tutor: true})
	if err != nil {
		return err
	}
	defer e.Close()

	if topic != "" {
		if _, err := e.registry.Topic(topic); err != nil {
			return err
		}
	}
	e.logger.Info("starting tui", zap.String("topic", string(topic)))
	return app.Run(cmdContext(cmd), app.Options{Deps: e.trainerDeps(), Topic: topic, SkipSplash: skipSplash})
}

// openStore opens the configured database for the inspection commands.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
