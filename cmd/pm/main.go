package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dylan/pm/internal/config"
	"github.com/dylan/pm/internal/pipeline/adapters"
	"github.com/dylan/pm/internal/pipeline/domain"
	"github.com/dylan/pm/internal/pipeline/service"
	"github.com/dylan/pm/internal/pipeline/ui"
)

var (
	configPath string
	dbPath     string
	verbose    bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.Error(describe(err)))
		os.Exit(exitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "pm",
	Short: "Business-development pipeline tracker",
	Long: `pm follows contracts, licenses and R&D deals through the pipeline
Start > Progr > Budge > Contr > Sign > Done.

Example workflow:
  1. pm init                          # Create the database
  2. pm add Acme Lic 50               # Track a new deal (kEUR)
  3. pm commit 1 -s Progr -m "call"   # Record progress
  4. pm status                        # Review active deals`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "Path to config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to database file (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug information to stderr")
}

// app bundles what a command needs once the database is locked
type app struct {
	cfg      *config.Config
	settings domain.Settings
	logger   *slog.Logger
	repo     *adapters.JSONRepository
	workflow *service.Workflow
}

// loadConfig reads the config file and applies the --db override
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if dbPath != "" {
		cfg.Database = dbPath
	}

	level := parseLogLevel(cfg.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))
	return cfg, logger, nil
}

// withWorkflow locks the database, loads the workflow and runs fn.
// The lock is released on every path.
func withWorkflow(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		repo, err := adapters.NewJSONRepository(cfg.Database, logger)
		if err != nil {
			return err
		}
		if err := repo.Lock(); err != nil {
			return err
		}
		defer releaseLock(repo, logger)

		settings := cfg.Settings()
		wf, err := service.OpenWorkflow(cmd.Context(), repo, settings, logger)
		if err != nil {
			return err
		}

		return fn(cmd, args, &app{
			cfg:      cfg,
			settings: settings,
			logger:   logger,
			repo:     repo,
			workflow: wf,
		})
	}
}

// isInteractive reports whether the command reads from a terminal.
// Prompts are skipped otherwise.
func isInteractive(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// releaseLock drops the database lock and logs a failure
func releaseLock(repo *adapters.JSONRepository, logger *slog.Logger) {
	if err := repo.Unlock(); err != nil {
		logger.Warn("failed to release database lock", "path", repo.Path(), "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// parseInt validates a numeric positional argument
func parseInt(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, domain.ErrValidation(fmt.Sprintf("%s must be an integer, got %q", name, value))
	}
	return n, nil
}

// exitCode maps an error to the process exit status
func exitCode(err error) int {
	switch domain.GetErrorCode(err) {
	case domain.ErrCodeValidation, domain.ErrCodeDateParse:
		return 2
	case domain.ErrCodeProjectNotFound, domain.ErrCodeNodeNotFound:
		return 3
	case domain.ErrCodeStorageRead, domain.ErrCodeStorageWrite, domain.ErrCodeStorageLocked:
		return 4
	}
	return 1
}

// describe renders an error as a one-line diagnostic
func describe(err error) string {
	var pe *domain.PipelineError
	if !errors.As(err, &pe) {
		return err.Error()
	}
	if pe.Cause != nil {
		return fmt.Sprintf("%s: %v", pe.Message, pe.Cause)
	}
	return pe.Message
}
