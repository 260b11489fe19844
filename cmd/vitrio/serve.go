package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/vango-dev/vitrio"
	"github.com/vango-dev/vitrio/internal/demo"
)

type serveOptions struct {
	configDir      string
	port           int
	host           string
	basePath       string
	assetsDir      string
	bucket         string
	dev            bool
	prod           bool
	traceStdout    bool
	trustedProxies []string
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server for the demo application.

Configuration is read from vitrio.json or vitrio.yaml in --config,
then from the environment (PORT, HOST, ORIGIN, BASE_PATH, NODE_ENV,
VITRIO_*), then from the flags below.

In development the browser reloads when a watched file changes.
Press Ctrl+C to shut down gracefully.

Examples:
  vitrio serve
  vitrio serve --port=8080 --host=0.0.0.0
  vitrio serve --prod --bucket=my-assets
  vitrio serve --trace-stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configDir, "config", "c", ".", "Directory containing vitrio.json or vitrio.yaml")
	flags.IntVarP(&opts.port, "port", "p", 0, "Port to listen on (default from config)")
	flags.StringVarP(&opts.host, "host", "H", "", "Host to bind to (default from config)")
	flags.StringVar(&opts.basePath, "base-path", "", "Mount the application under this path")
	flags.StringVar(&opts.assetsDir, "assets", "", "Serve static assets from this directory")
	flags.StringVar(&opts.bucket, "bucket", "", "Serve static assets from this S3 bucket")
	flags.BoolVar(&opts.dev, "dev", false, "Force development mode")
	flags.BoolVar(&opts.prod, "prod", false, "Force production mode")
	flags.BoolVar(&opts.traceStdout, "trace-stdout", false, "Export OpenTelemetry spans to stderr")
	flags.StringSliceVar(&opts.trustedProxies, "trusted-proxy", nil, "Proxy IP or CIDR whose forwarded headers are trusted (repeatable)")
	cmd.MarkFlagsMutuallyExclusive("dev", "prod")
	cmd.MarkFlagsMutuallyExclusive("assets", "bucket")

	return cmd
}

func runServe(ctx context.Context, stdout, stderr io.Writer, opts serveOptions) error {
	cfg, err := vitrio.LoadConfig(opts.configDir)
	if err != nil {
		return err
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(stderr, cfg)
	appOpts := []vitrio.Option{
		vitrio.WithLogger(logger),
		vitrio.WithTrustedProxies(opts.trustedProxies...),
	}

	if opts.traceStdout {
		tp, err := newTracerProvider(stderr, cfg.Name, version)
		if err != nil {
			return fmt.Errorf("tracing: %w", err)
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Warn("tracer shutdown failed", "error", err)
			}
		}()
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.TraceContext{})
		appOpts = append(appOpts, vitrio.WithTracerProvider(tp))
	}

	if cfg.Assets.Bucket != "" {
		store, err := newS3Store(ctx, cfg.Assets)
		if err != nil {
			return err
		}
		appOpts = append(appOpts, vitrio.WithAssetStore(store))
	}

	app, err := vitrio.New(cfg, demo.Routes(), appOpts...)
	if err != nil {
		return err
	}

	printBanner(stdout)
	success(stdout, "Listening on http://%s%s", displayAddress(cfg), cfg.BasePath)
	info(stdout, "Environment: %s", cfg.Env)
	if cfg.Assets.Bucket != "" {
		info(stdout, "Assets:      s3://%s/%s", cfg.Assets.Bucket, cfg.Assets.Prefix)
	} else if cfg.Assets.Dir != "" {
		info(stdout, "Assets:      %s", cfg.Assets.Dir)
	}
	if !cfg.IsProduction() && cfg.CSRFSecret == "" {
		warn(stdout, "CSRF tokens are unsigned; set VITRIO_CSRF_SECRET in production")
	}
	fmt.Fprintln(stdout)

	return app.Run(ctx)
}

// apply overrides cfg with the flags that were set.
func (o serveOptions) apply(cfg *vitrio.Config) {
	if o.port > 0 {
		cfg.Port = o.port
	}
	if o.host != "" {
		cfg.Host = o.host
	}
	if o.basePath != "" {
		cfg.BasePath = o.basePath
	}
	if o.assetsDir != "" {
		cfg.Assets.Dir = o.assetsDir
		cfg.Assets.Bucket = ""
	}
	if o.bucket != "" {
		cfg.Assets.Bucket = o.bucket
		cfg.Assets.Dir = ""
	}
	switch {
	case o.dev:
		cfg.Env = "development"
	case o.prod:
		cfg.Env = "production"
	}
}

func displayAddress(cfg *vitrio.Config) string {
	host := cfg.Host
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("%s:%d", host, cfg.Port)
}

// newLogger builds the process logger: text in development, JSON in
// production, unless the configuration names a format.
func newLogger(w io.Writer, cfg *vitrio.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	format := cfg.Log.Format
	if format == "" {
		format = "text"
		if cfg.IsProduction() {
			format = "json"
		}
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With("service", cfg.Name)
}
