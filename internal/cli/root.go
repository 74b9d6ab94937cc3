// Package cli implements the fieldmap command line tool.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fieldmap/internal/logging"
)

var version = "dev"

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v == "" {
		return
	}

	version = v
}

// rootOptions holds the global flags and the logger built from them.
type rootOptions struct {
	logLevel  string
	logFormat string
	verbose   bool
	noColor   bool

	log *zap.Logger
}

// logger returns the configured logger, or a no-op logger before the
// persistent pre-run built one.
func (o *rootOptions) logger() *zap.Logger {
	if o.log == nil {
		return zap.NewNop()
	}

	return o.log
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	defaults := logging.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "fieldmap",
		Short: "Check and explain declarative field-mapping rules",
		Long: `fieldmap loads YAML rule files describing how fields of a source schema
map onto a destination schema, checks them and prints the resolved tables.

Examples:
  fieldmap check rules.yaml
  fieldmap check --strict --watch rules/*.yaml
  fieldmap explain --rule legacy_user rules.yaml
  fieldmap trace payload.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.noColor {
				color.NoColor = true
			}

			cfg := logging.DefaultConfig()
			cfg.Level = opts.logLevel
			cfg.Format = opts.logFormat

			if opts.verbose {
				cfg.Level = "debug"
			}

			log, err := logging.NewWriter(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			opts.log = log

			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", defaults.Level, "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", defaults.Format, "log format (console, json)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logs and informational diagnostics")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newCheckCmd(opts),
		newExplainCmd(opts),
		newTraceCmd(opts),
		newVersionCmd(),
	)

	return cmd
}

// Execute runs the CLI. An interrupt cancels the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "fieldmap version %s\n", version)
		},
	}
}
