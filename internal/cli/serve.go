package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/impactriver/pkg/observability/prom"
	"github.com/matzehuels/impactriver/pkg/pipeline"
	"github.com/matzehuels/impactriver/pkg/server"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	maxSessions int
	noMetrics   bool
	title       string
}

// serveCommand creates the serve command, which runs the HTTP viewer.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{maxSessions: server.DefaultMaxSessions}

	cmd := &cobra.Command{
		Use:   "serve [dataset|repo]",
		Short: "Serve the chart with live selection sessions",
		Long: `Serve builds the chart once and serves it over HTTP. Each browser visit
opens a session whose highlight and draw order are kept server-side; the
select endpoint returns the directives a client applies.

  GET  /                              new session, redirect to its chart
  GET  /chart.{svg,json,png,pdf}      stateless render (?highlight=id)
  POST /sessions                      create a session
  POST /sessions/{id}/select/{author} highlight an author
  GET  /metrics                       Prometheus metrics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, args[0], opts)
		},
	}

	cmd.Flags().String(keyListen, defaultListen, "listen address")
	cmd.Flags().String(keyLabelAnchor, pipeline.DefaultLabelAnchor, "label anchor: sample or final")
	cmd.Flags().IntVar(&opts.maxSessions, "max-sessions", opts.maxSessions, "live sessions kept before the oldest is evicted")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	cmd.Flags().StringVar(&opts.title, "title", "", "document title")
	addIngestFlags(cmd)

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, input string, opts serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := c.pipelineOptions()
	popts.Title = opts.title
	ds, _, err := c.loadInput(ctx, runner, input, popts)
	if err != nil {
		return err
	}

	cfg := server.Config{
		Dataset:     ds,
		Options:     popts,
		Runner:      runner,
		MaxSessions: opts.maxSessions,
		Logger:      logger,
	}
	if !opts.noMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		prom.New(reg).Register()
		cfg.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	}

	srv, err := server.New(ctx, cfg)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printInfo(w, "Viewer at http://%s/", c.config.Listen)
	return srv.ListenAndServe(ctx, c.config.Listen)
}
