package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/dylan/pm/internal/config"
	"github.com/dylan/pm/internal/pipeline/adapters"
	"github.com/dylan/pm/internal/pipeline/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty database and a default config file",
	Long: `Create the project database if it does not exist yet, and write a
config file with the default settings if none is present.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		if err := config.Save(configPath, cfg); err != nil {
			return err
		}
		fmt.Fprintln(out, ui.Success("✓ Created config %s", configPath))
	}

	repo, err := adapters.NewJSONRepository(cfg.Database, logger)
	if err != nil {
		return err
	}
	if err := repo.Lock(); err != nil {
		return err
	}
	defer releaseLock(repo, logger)

	created, err := repo.Init(cmd.Context())
	if err != nil {
		return err
	}
	if !created {
		fmt.Fprintln(out, ui.Warn("Database %s already exists", repo.Path()))
		return nil
	}

	fmt.Fprintln(out, ui.Success("✓ Created database %s", repo.Path()))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. pm add NAME TYPE MONEY   to track a deal")
	fmt.Fprintln(out, "  2. pm status                to review the pipeline")
	return nil
}
