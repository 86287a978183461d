package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kbukum/agentflow/graph"
	"github.com/kbukum/agentflow/routing"
)

// tiersOptions defines flags for the `tiers` command.
type tiersOptions struct {
	root *rootOptions

	compare      string
	inputTokens  int
	outputTokens int
	output       string
}

// newCmdTiers creates the `tiers` command.
func newCmdTiers(root *rootOptions) *cobra.Command {
	o := &tiersOptions{root: root}

	cmd := &cobra.Command{
		Use:   "tiers",
		Short: "Show the effective routing table and compare tier costs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd)
		},
	}
	cmd.Flags().StringVar(&o.compare, "compare", "", "price the same workload on two tiers, as <tier>,<tier>")
	cmd.Flags().IntVar(&o.inputTokens, "input-tokens", 1000, "input size of the compared workload")
	cmd.Flags().IntVar(&o.outputTokens, "output-tokens", 512, "output size of the compared workload")
	cmd.Flags().StringVar(&o.output, "output", "text", "format (text|json)")
	return cmd
}

func (o *tiersOptions) run(cmd *cobra.Command) error {
	cfg, err := o.root.loadConfig()
	if err != nil {
		return err
	}
	router := routing.New(cfg.Routing)
	table := router.Config()
	w := cmd.OutOrStdout()

	if o.output == "json" {
		return printJSON(w, table)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIER\tMODEL\tINPUT $/1M\tOUTPUT $/1M")
	for _, tier := range routing.Tiers() {
		spec := table.Tiers[tier]
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\n", tier, spec.Model, spec.InputRate, spec.OutputRate)
	}
	tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintln(w, "kind defaults:")
	for _, kind := range graph.Kinds() {
		if tier, ok := table.KindDefaults[kind]; ok {
			fmt.Fprintf(w, "  %-10s %s\n", kind, tier)
		}
	}
	fmt.Fprintf(w, "bulk item threshold: %d\n", table.BulkItemThreshold)

	if o.compare != "" {
		a, b, err := parseTierPair(o.compare)
		if err != nil {
			return err
		}
		cmp := router.Compare(a, b, o.inputTokens, o.outputTokens)
		fmt.Fprintf(w, "\n%d input / %d output tokens: %s $%.6f vs %s $%.6f (diff %+.6f, %+.1f%%)\n",
			o.inputTokens, o.outputTokens, a, cmp.CostA, b, cmp.CostB, cmp.AbsoluteDiff, cmp.PercentDiff)
	}
	return nil
}

// parseTierPair splits the --compare value into two tiers.
func parseTierPair(s string) (routing.Tier, routing.Tier, error) {
	first, second, ok := strings.Cut(s, ",")
	if !ok {
		return "", "", fmt.Errorf("compare wants <tier>,<tier> (got: %q)", s)
	}
	a, err := routing.ParseTier(strings.TrimSpace(first))
	if err != nil {
		return "", "", err
	}
	b, err := routing.ParseTier(strings.TrimSpace(second))
	if err != nil {
		return "", "", err
	}
	return a, b, nil
}
