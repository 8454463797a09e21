package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dylan/pm/internal/pipeline/adapters"
	"github.com/dylan/pm/internal/pipeline/domain"
	"github.com/dylan/pm/internal/pipeline/ui"
)

//go:embed readme.md
var readmeFS embed.FS

var readmePrint bool

// openFile hands a file to the platform default application
var openFile = func(path string) error {
	return adapters.NewFileOpener().Open(path)
}

var readmeCmd = &cobra.Command{
	Use:   "readme",
	Short: "Display the readme file with instructions",
	Long: `Write the readme next to the database and open it with the default
application. --print writes it to stdout instead.`,
	Args: cobra.NoArgs,
	RunE: runReadme,
}

func init() {
	rootCmd.AddCommand(readmeCmd)

	readmeCmd.Flags().BoolVar(&readmePrint, "print", false, "Print the readme instead of opening it")
}

func runReadme(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	content, err := readmeFS.ReadFile("readme.md")
	if err != nil {
		return fmt.Errorf("could not load readme: %w", err)
	}

	out := cmd.OutOrStdout()
	if readmePrint {
		_, err := out.Write(content)
		return err
	}

	path := filepath.Join(filepath.Dir(cfg.Database), "readme.md")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.ErrStorageWrite(path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return domain.ErrStorageWrite(path, err)
	}
	logger.Debug("readme written", "path", path)

	if err := openFile(path); err != nil {
		logger.Warn("could not open readme", "path", path, "error", err)
		fmt.Fprintln(out, ui.Warn("Readme available at %s", path))
		return nil
	}
	fmt.Fprintln(out, ui.Success("✓ Opened %s", path))
	return nil
}
