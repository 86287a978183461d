package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/agentflow/artifact"
	"github.com/kbukum/agentflow/config"
	"github.com/kbukum/agentflow/logger"
	"github.com/kbukum/agentflow/observability"
	"github.com/kbukum/agentflow/routing"
	"github.com/kbukum/agentflow/server"
	"github.com/kbukum/agentflow/version"
)

// serveOptions defines flags for the `serve` command.
type serveOptions struct {
	root *rootOptions

	host string
	port int
}

// newCmdServe creates the `serve` command.
func newCmdServe(root *rootOptions) *cobra.Command {
	o := &serveOptions{root: root}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the graph execution HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd)
		},
	}
	cmd.Flags().StringVar(&o.host, "host", "", "listen host, overriding the configured one")
	cmd.Flags().IntVar(&o.port, "port", 0, "listen port, overriding the configured one")
	return cmd
}

// run starts the server and blocks until the command context is
// cancelled, then shuts down gracefully.
func (o *serveOptions) run(cmd *cobra.Command) error {
	cfg, err := o.root.loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = o.host
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = o.port
	}

	log := logger.WithComponent("serve")
	ctx := cmd.Context()

	apiCfg := server.APIConfig{
		Service:       cfg.Name,
		Router:        routing.New(cfg.Routing),
		Log:           logger.WithComponent("api"),
		RunsPerMinute: cfg.Server.RunsPerMinute,
	}
	apiCfg.Backend, err = cfg.Backend.Build()
	if err != nil {
		return err
	}
	if cfg.Artifacts.Enabled {
		store, err := artifact.NewStore(cfg.Artifacts.Dir)
		if err != nil {
			return err
		}
		apiCfg.Store = store
	}

	shutdownObservability, err := initObservability(ctx, cfg, &apiCfg)
	if err != nil {
		return err
	}
	defer shutdownObservability()

	srv := server.New(cfg.Server, log)
	server.NewAPI(apiCfg).Register(srv.GinEngine())

	if err := srv.Start(ctx); err != nil {
		return err
	}
	log.Info("serving", logger.Fields(
		"addr", srv.Addr(),
		logger.FieldBackend, apiCfg.Backend.Name(),
		"version", version.GetShortVersion(),
	))

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(stopCtx)
}

// initObservability wires the OTLP exporters and the run instruments when
// observability is enabled. The returned function flushes both providers.
func initObservability(ctx context.Context, cfg *config.Config, apiCfg *server.APIConfig) (func(), error) {
	if !cfg.Observability.Enabled {
		return func() {}, nil
	}

	tp, err := observability.InitTracer(ctx, observability.TracerConfig{
		ServiceName:    cfg.Name,
		ServiceVersion: version.GetShortVersion(),
		Environment:    cfg.Environment,
		Endpoint:       cfg.Observability.Endpoint,
		Insecure:       cfg.Observability.Insecure,
		SampleRate:     cfg.Observability.SampleRate,
	})
	if err != nil {
		return nil, err
	}
	mp, err := observability.InitMeter(ctx, observability.MeterConfig{
		ServiceName:    cfg.Name,
		ServiceVersion: version.GetShortVersion(),
		Environment:    cfg.Environment,
		Endpoint:       cfg.Observability.Endpoint,
		Insecure:       cfg.Observability.Insecure,
	})
	if err != nil {
		shutdownProvider(tp.Shutdown)
		return nil, err
	}
	metrics, err := observability.NewMetrics(observability.Meter(cfg.Name))
	if err != nil {
		shutdownProvider(tp.Shutdown)
		shutdownProvider(mp.Shutdown)
		return nil, err
	}
	apiCfg.Metrics = metrics

	return func() {
		shutdownProvider(tp.Shutdown)
		shutdownProvider(mp.Shutdown)
	}, nil
}

func shutdownProvider(shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logger.Error("telemetry shutdown failed", logger.Fields(logger.FieldError, err.Error()))
	}
}
