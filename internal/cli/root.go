// Package cli wires the signal-metrics commands.
package cli

import (
	"fmt"
	"os"

	"signal-metrics/internal/config"
	"signal-metrics/internal/logger"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the signal-metrics command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "signal-metrics",
		Short: "Analyse wireless signal logs against propagation models",
		Long: `signal-metrics loads GPS-tagged wireless measurement logs (CSV or XLSX),
measures each sample's distance from the start or end of the track and
compares received signal strength with the Free-Space Path Loss and
Two-Ray Ground Reflection models.

Examples:
  signal-metrics serve
  signal-metrics analyze walk.csv
  signal-metrics analyze a.xlsx b.xlsx --reference end --pdf plot.pdf`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(), newAnalyzeCommand())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.NewLogger(cfg.Logger)
	return cfg, nil
}
