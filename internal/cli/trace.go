package cli

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fieldmap/internal/ordered"
)

type traceOptions struct {
	*rootOptions

	key string
}

func newTraceCmd(root *rootOptions) *cobra.Command {
	opts := &traceOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "trace FILE",
		Short: "Print the key path of every value in a YAML document",
		Long: `Load a YAML document into an order-tracking map and print, for every key,
the path of keys leading to it from the document root.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd.OutOrStdout(), opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.key, "key", "k", "", "only print paths ending in this key")

	return cmd
}

func runTrace(w io.Writer, opts *traceOptions, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	root, err := ordered.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	entries := root.Order().Entries()
	opts.logger().Debug("traced document", zap.String("path", path), zap.Int("entries", len(entries)))

	found := false

	for _, e := range entries {
		if opts.key != "" && e.Key != opts.key {
			continue
		}

		found = true
		_, _ = fmt.Fprintln(w, strings.Join(e.Path, "."))
	}

	if opts.key != "" && !found {
		keys := make([]string, 0, len(entries))
		for _, e := range entries {
			keys = append(keys, e.Key)
		}

		slices.Sort(keys)
		keys = slices.Compact(keys)

		return fmt.Errorf("key %q not found in %s%s", opts.key, path, didYouMean(opts.key, keys))
	}

	return nil
}
