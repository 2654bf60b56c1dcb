package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/paperkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/paperkeeper/internal/client/config"
	"github.com/dmitrijs2005/paperkeeper/internal/logging"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the paperkeeper command tree. The root command runs
// the interactive client; its flags are parsed by the config package so
// they follow the same precedence as the config file and environment.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "paperkeeper [-c config] [-a url] [-p size] [-r seconds] [-d db]",
		Short: "Browse, search and manage exam papers from the terminal",
		Long: `paperkeeper keeps a local copy of the paper catalog, serves it instantly on
start and keeps it in sync with the server while you browse.

Settings come from defaults, the config file (-c, JSON or YAML), PAPERKEEPER_*
environment variables (a .env file is read too) and flags, later ones winning.`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd.Context(), args, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	root.AddCommand(newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}
}

func runApp(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return err
	}

	log, closer, err := logging.New(logging.Options{
		Backend: cfg.LogBackend,
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
	})
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer closer.Close()

	app, err := NewApp(ctx, cfg, log, in, out)
	if err != nil {
		log.Error(ctx, "startup failed", "error", err)
		return err
	}
	return app.Run(ctx)
}
