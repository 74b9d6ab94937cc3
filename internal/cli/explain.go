package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"fieldmap/internal/mapping"
	"fieldmap/internal/rule"
)

type explainOptions struct {
	*rootOptions

	rule string
	dump bool
}

func newExplainCmd(root *rootOptions) *cobra.Command {
	opts := &explainOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "explain FILE",
		Short: "Print the resolved strategy tables of compiled rules",
		Long: `Compile a rule file and print, for every rule, the entry each declared
field resolves to on the to and from sides. Nested rules are printed below
the field that delegates to them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(cmd.OutOrStdout(), opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.rule, "rule", "r", "", "only explain the named rule")
	cmd.Flags().BoolVar(&opts.dump, "dump", false, "also dump the raw rule structure")

	return cmd
}

// dumper prints rule internals deterministically.
var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func runExplain(w io.Writer, opts *explainOptions, path string) error {
	f, err := mapping.LoadFile(path)
	if err != nil {
		return err
	}

	cfg := mapping.DefaultCompileConfig()
	cfg.Logger = opts.logger()

	out, res := mapping.Compile(f, cfg)
	if res.HasErrors() {
		printDiagnostics(w, res, false)
		return fmt.Errorf("%w: %s", errCheckFailed, summary(0, res))
	}

	rules := out.Rules

	if opts.rule != "" {
		r, ok := out.Rule(opts.rule)
		if !ok {
			return fmt.Errorf("rule %q not found in %s%s", opts.rule, path, didYouMean(opts.rule, out.Names()))
		}

		rules = []*rule.Rule{r}
	}

	for i, r := range rules {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}

		printHeader(w, "rule %s", r.Name())
		printRule(w, r, "  ")

		if opts.dump {
			_, _ = fmt.Fprint(w, dumper.Sdump(r.Strategy()))
		}
	}

	return nil
}

func printRule(w io.Writer, r *rule.Rule, indent string) {
	if s := r.SourceSchema(); s != nil {
		_, _ = fmt.Fprintf(w, "%ssource: %s (model %s)\n", indent, s, r.SourceModel())
	}

	if s := r.DestinationSchema(); s != nil {
		_, _ = fmt.Fprintf(w, "%sdestination: %s (model %s)\n", indent, s, r.DestinationModel())
	}

	for _, dir := range []rule.Direction{rule.To, rule.From} {
		printTable(w, r.Table(dir), dir, indent)
	}

	if finder := r.Finder(); finder != nil {
		_, _ = fmt.Fprintf(w, "%sfind: %s\n", indent, joinArgs(finder.Args))
	}

	if route, ok := r.Router(); ok {
		target := string(route.Field)
		if target == "" {
			target = "<record>"
		}

		_, _ = fmt.Fprintf(w, "%sroute: %s\n", indent, target)
	}
}

func printTable(w io.Writer, t *rule.Table, dir rule.Direction, indent string) {
	fallback, hasFallback := t.Default()
	if t.Len() == 0 && !hasFallback {
		return
	}

	_, _ = fmt.Fprintf(w, "%s%s:\n", indent, dir)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	var nested []*rule.Delegate

	for _, f := range t.Fields() {
		e, _ := t.Lookup(f)

		desc := rule.Describe(e)
		if rule.IsPending(e) {
			desc = warningColor.Sprint(desc)
		}

		_, _ = fmt.Fprintf(tw, "%s  %s\t%s\n", indent, f, desc)

		if d, ok := e.(*rule.Delegate); ok {
			nested = append(nested, d)
		}
	}

	if hasFallback {
		_, _ = fmt.Fprintf(tw, "%s  *\t%s\n", indent, fallback)
	}

	_ = tw.Flush()

	for _, d := range nested {
		_, _ = fmt.Fprintf(w, "%s  %s\n", indent, dimColor.Sprintf("rule %s", d.Name()))
		printRule(w, d.Target(), indent+"    ")
	}
}

func joinArgs(args []any) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, fmt.Sprint(a))
	}

	return strings.Join(parts, ", ")
}
