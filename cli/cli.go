package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/agentflow/config"
	"github.com/kbukum/agentflow/logger"
)

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configFile string
	logLevel   string
}

// addFlags binds the shared flags to the root command.
func (o *rootOptions) addFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&o.configFile, "config", "", "path of the configuration file")
	cmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "log level override (debug|info|warn|error)")
}

// loadConfig loads the service configuration and initializes the global
// logger from it. The --log-level flag wins over the configured level.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var opts []config.LoaderOption
	if o.configFile != "" {
		opts = append(opts, config.WithConfigFile(o.configFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	logger.Init(cfg.Logging)
	return cfg, nil
}

// NewCmdRoot creates the `agentflow` root command.
func NewCmdRoot() *cobra.Command {
	o := &rootOptions{}

	cmds := &cobra.Command{
		Use:   "agentflow",
		Short: "Run dependency graphs of model-delegated tasks",
		Long: `agentflow executes graphs of named work items. Each node is routed to a
cost/capability tier by task heuristics, then delegated to the configured
execution backend, strictly one node at a time in dependency order.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	o.addFlags(cmds)

	cmds.AddCommand(newCmdRun(o))
	cmds.AddCommand(newCmdServe(o))
	cmds.AddCommand(newCmdTiers(o))
	cmds.AddCommand(newCmdVersion())

	return cmds
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
