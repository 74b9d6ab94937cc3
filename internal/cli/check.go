package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fieldmap/internal/diagnostic"
	"fieldmap/internal/mapping"
)

// errCheckFailed is returned when at least one file has errors.
var errCheckFailed = errors.New("check failed")

type checkOptions struct {
	*rootOptions

	strict   bool
	watch    bool
	debounce time.Duration
}

func newCheckCmd(root *rootOptions) *cobra.Command {
	opts := &checkOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate and compile rule files",
		Long: `Validate rule files and build every rule they declare.

Each file is reported separately. The command fails when any file has errors.
With --watch it keeps running and checks files again when they change.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), cmd.OutOrStdout(), opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "report fields left pending as errors")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "check files again when they change")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 200*time.Millisecond, "delay before checking changed files")

	return cmd
}

// checkReport is the outcome of checking one file.
type checkReport struct {
	path  string
	rules int
	res   *diagnostic.Diagnostics
}

func (r checkReport) failed() bool {
	return r.res.HasErrors()
}

func (o *checkOptions) compileConfig() mapping.CompileConfig {
	cfg := mapping.DefaultCompileConfig()
	cfg.Strict = o.strict
	cfg.Logger = o.logger()

	return cfg
}

// checkFile loads and compiles one file. Load failures are reported as
// diagnostics so every file gets a report.
func checkFile(path string, cfg mapping.CompileConfig) checkReport {
	f, err := mapping.LoadFile(path)
	if err != nil {
		res := &diagnostic.Diagnostics{}
		res.AddError("load_failed", err.Error(), "", "")

		return checkReport{path: path, res: res}
	}

	out, res := mapping.Compile(f, cfg)

	report := checkReport{path: path, res: res}
	if out != nil {
		report.rules = len(out.Rules)
	}

	return report
}

// checkFiles checks paths concurrently. Reports keep the order of paths.
func checkFiles(ctx context.Context, paths []string, cfg mapping.CompileConfig) ([]checkReport, error) {
	reports := make([]checkReport, len(paths))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			reports[i] = checkFile(path, cfg)
			cfg.Logger.Debug("checked file", zap.String("path", path), zap.Int("rules", reports[i].rules))

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}

// printReports writes the reports and returns how many failed.
func printReports(w io.Writer, reports []checkReport, verbose bool) int {
	failed := 0

	for _, r := range reports {
		mark := successColor.Sprint("✓")
		if r.failed() {
			mark = errorColor.Sprint("✗")
			failed++
		}

		_, _ = fmt.Fprintf(w, "%s %s: %s\n", mark, r.path, summary(r.rules, r.res))
		printDiagnostics(w, r.res, verbose)
	}

	return failed
}

func runCheck(ctx context.Context, w io.Writer, opts *checkOptions, paths []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := opts.compileConfig()

	reports, err := checkFiles(ctx, paths, cfg)
	if err != nil {
		return err
	}

	failed := printReports(w, reports, opts.verbose)

	if !opts.watch {
		if failed > 0 {
			return fmt.Errorf("%w: %d of %s with errors", errCheckFailed, failed, plural(len(paths), "file"))
		}

		return nil
	}

	_, _ = dimColor.Fprintf(w, "watching %s, press Ctrl+C to stop\n", plural(len(paths), "file"))

	return watchFiles(ctx, paths, opts.debounce, opts.logger(), func(changed []string) {
		reports, err := checkFiles(ctx, changed, cfg)
		if err != nil {
			opts.logger().Warn("check interrupted", zap.Error(err))
			return
		}

		printReports(w, reports, opts.verbose)
	})
}
