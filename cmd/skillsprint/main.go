// Command skillsprint runs the SkillSprint web application and its
// maintenance commands.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Strob0t/SkillSprint/internal/config"
	"github.com/Strob0t/SkillSprint/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "skillsprint",
		Short: "Goal-based learning roadmaps and daily task tracking",
		Long: `SkillSprint generates 8-week study roadmaps for career goals, tracks
daily tasks, and reports completion progress.

Configuration is read from skillsprint.yaml (or $SKILLSPRINT_CONFIG) and
SKILLSPRINT_* environment variables.`,
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newAdminCmd())
	return root
}

// loadConfig loads the configuration and installs the default logger. The
// returned func flushes the logger.
func loadConfig() (*config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	log, closer := logger.New(cfg.Logging)
	slog.SetDefault(log)
	return cfg, closer.Close, nil
}
