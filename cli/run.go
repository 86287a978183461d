package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/agentflow/artifact"
	"github.com/kbukum/agentflow/backend"
	"github.com/kbukum/agentflow/config"
	"github.com/kbukum/agentflow/graph"
	"github.com/kbukum/agentflow/logger"
	"github.com/kbukum/agentflow/routing"
	"github.com/kbukum/agentflow/runner"
)

// runOptions defines flags for the `run` command.
type runOptions struct {
	root *rootOptions

	input        string
	inputFile    string
	backendKind  string
	backendOpts  []string
	artifactsDir string
	itemCount    int
	complexity   string
	output       string
}

// addFlags receives a *cobra.Command reference and binds
// flags related to graph execution to it.
func (o *runOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.input, "input", "", "initial run input; JSON decodes into structured data, anything else passes as a string")
	cmd.Flags().StringVar(&o.inputFile, "input-file", "", "read the initial run input from a file")
	cmd.Flags().StringVar(&o.backendKind, "backend", "", "execution backend (stub|llm|subprocess), overriding the configured one")
	cmd.Flags().StringArrayVar(&o.backendOpts, "backend-opt", nil, "backend option as key=value, may repeat; JSON values keep their type")
	cmd.Flags().StringVar(&o.artifactsDir, "artifacts", "", "persist run artifacts under this directory")
	cmd.Flags().IntVar(&o.itemCount, "items", 0, "declared number of items the run processes; feeds bulk routing")
	cmd.Flags().StringVar(&o.complexity, "complexity", "", "difficulty signal (low|normal|high)")
	cmd.Flags().StringVar(&o.output, "output", "text", "result format (text|json)")
}

// newCmdRun creates the `run` command.
func newCmdRun(root *rootOptions) *cobra.Command {
	o := &runOptions{root: root}

	cmd := &cobra.Command{
		Use:   "run <graph-file>",
		Short: "Execute a graph definition and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args[0])
		},
	}
	o.addFlags(cmd)
	return cmd
}

func (o *runOptions) run(cmd *cobra.Command, path string) error {
	cfg, err := o.root.loadConfig()
	if err != nil {
		return err
	}

	g, err := graph.LoadFile(path)
	if err != nil {
		return err
	}
	sig, err := o.signals()
	if err != nil {
		return err
	}
	input, err := o.runInput()
	if err != nil {
		return err
	}
	b, err := o.buildBackend(cfg)
	if err != nil {
		return err
	}

	opts := []runner.Option{
		runner.WithLogger(logger.WithComponent("run")),
		runner.WithSignals(sig),
	}
	if dir := o.artifactRoot(cfg); dir != "" {
		store, err := artifact.NewStore(dir)
		if err != nil {
			return err
		}
		opts = append(opts, runner.WithObserver(store))
	}

	r := runner.New(b, routing.New(cfg.Routing), opts...)
	result, err := r.Run(cmd.Context(), g, input)
	if err != nil {
		return err
	}
	if err := o.printResult(cmd.OutOrStdout(), result); err != nil {
		return err
	}

	if !result.Success {
		if nr, ok := result.Failure(); ok {
			return fmt.Errorf("run %s failed at node %q: %s", result.RunID, nr.NodeID, nr.Err)
		}
		return fmt.Errorf("run %s failed", result.RunID)
	}
	return nil
}

// buildBackend constructs the execution backend. Options given with
// --backend-opt go through the factory registry; otherwise the configured
// backend section is built as is, with --backend switching the kind.
func (o *runOptions) buildBackend(cfg *config.Config) (backend.Backend, error) {
	kind := cfg.Backend.Kind
	if o.backendKind != "" {
		kind = o.backendKind
	}
	if len(o.backendOpts) > 0 {
		opts, err := parseBackendOpts(o.backendOpts)
		if err != nil {
			return nil, err
		}
		return backend.DefaultRegistry().Create(kind, opts)
	}
	if o.backendKind != "" {
		cfg.Backend.Kind = o.backendKind
		cfg.Backend.ApplyDefaults()
	}
	return cfg.Backend.Build()
}

// parseBackendOpts splits repeated key=value flags into a factory config
// map. Values that parse as JSON keep their type; everything else stays a
// string.
func parseBackendOpts(pairs []string) (map[string]any, error) {
	opts := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("backend option %q is not key=value", pair)
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		opts[key] = value
	}
	return opts, nil
}

// signals assembles the routing signals from the flags.
func (o *runOptions) signals() (routing.Signals, error) {
	sig := routing.Signals{ItemCount: o.itemCount}
	if o.complexity != "" {
		c, err := routing.ParseComplexity(o.complexity)
		if err != nil {
			return routing.Signals{}, err
		}
		sig.Complexity = c
	}
	return sig, nil
}

// runInput resolves the initial run input from --input or --input-file.
func (o *runOptions) runInput() (any, error) {
	raw := o.input
	if o.inputFile != "" {
		data, err := os.ReadFile(o.inputFile)
		if err != nil {
			return nil, fmt.Errorf("reading input file: %w", err)
		}
		raw = string(data)
	}
	if raw == "" {
		return nil, nil
	}
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return raw, nil
	}
	return value, nil
}

// artifactRoot picks the artifact directory: the flag wins, then the
// configured store when enabled, otherwise artifacts are off.
func (o *runOptions) artifactRoot(cfg *config.Config) string {
	if o.artifactsDir != "" {
		return o.artifactsDir
	}
	if cfg.Artifacts.Enabled {
		return cfg.Artifacts.Dir
	}
	return ""
}

func (o *runOptions) printResult(w io.Writer, result *runner.Result) error {
	switch o.output {
	case "json":
		return printJSON(w, result)
	case "text", "":
		printRunSummary(w, result)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", o.output)
	}
}

// printRunSummary writes a human-readable run report, one row per
// attempted node in invocation order.
func printRunSummary(w io.Writer, result *runner.Result) {
	fmt.Fprintf(w, "run %s (%s) %s\n", result.RunID, result.GraphName, strings.ToUpper(string(result.State)))

	nodes := make([]*runner.NodeResult, 0, len(result.NodeResults))
	for _, nr := range result.NodeResults {
		nodes = append(nodes, nr)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].StartedAt.Before(nodes[j].StartedAt) })

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tKIND\tTIER\tMODEL\tRULE\tDURATION\tCOST\tSTATUS")
	for _, nr := range nodes {
		status := "ok"
		if !nr.Success {
			status = "failed: " + nr.Err
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t$%.6f\t%s\n",
			nr.NodeID, nr.Routing.Kind, nr.Routing.Tier, nr.Routing.Model, nr.Routing.Rule,
			nr.Duration.Round(time.Millisecond), nr.Cost, status)
	}
	tw.Flush()

	m := result.Metrics
	fmt.Fprintf(w, "%d/%d nodes succeeded in %s, %d tokens, $%.6f\n",
		m.Succeeded, m.NodeCount, m.Duration.Round(time.Millisecond), m.TotalTokens, m.TotalCost)
	if len(result.Unreachable) > 0 {
		fmt.Fprintf(w, "unreachable: %s\n", strings.Join(result.Unreachable, ", "))
	}
	if result.Output != nil {
		fmt.Fprintf(w, "output: %s\n", formatValue(result.Output))
	}
}

// formatValue renders an output value for the text report. Strings print
// as is; structured values print as compact JSON.
func formatValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
