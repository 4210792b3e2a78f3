// Package cli provides the wanderctl operator commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"wanderai-backend/internal/config"
	"wanderai-backend/internal/logging"
)

// Version is set at build time.
var Version = "1.0.0"

// env carries what every subcommand needs
type env struct {
	cfg      *config.Config
	log      *slog.Logger
	out      io.Writer
	closeLog func() error
}

// NewRootCmd builds the command tree. load is called once before any
// subcommand runs.
func NewRootCmd(load func() (*config.Config, error), out io.Writer) *cobra.Command {
	e := &env{out: out}

	root := &cobra.Command{
		Use:           "wanderctl",
		Short:         "Operate the WanderAI backend",
		Long:          "wanderctl runs database migrations, seeds the destination catalog, mints development tokens and checks the Pexels account.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			e.cfg = cfg
			e.log, e.closeLog = logging.Setup(cfg.Log.Level, cfg.Log.File)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.closeLog != nil {
				_ = e.closeLog()
			}
		},
	}
	root.SetOut(out)

	root.AddCommand(newMigrateCmd(e))
	root.AddCommand(newSeedCmd(e))
	root.AddCommand(newTokenCmd(e))
	root.AddCommand(newPexelsCmd(e))
	return root
}

// Execute runs wanderctl with the process environment.
func Execute(ctx context.Context, args []string, out io.Writer) error {
	root := NewRootCmd(config.Load, out)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
