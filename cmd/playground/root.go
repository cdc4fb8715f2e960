package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/younwookim/crius/internal/application/app"
	"github.com/younwookim/crius/internal/application/game"
	"github.com/younwookim/crius/internal/infrastructure/config"
	"github.com/younwookim/crius/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
)

// rootOptions holds global flags, seeded from the environment
type rootOptions struct {
	config.RuntimeOptions
	Bodies int
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{Bodies: 16}
	env, envErr := config.ParseEnv()
	if envErr == nil {
		opts.RuntimeOptions = env
	}

	cmd := &cobra.Command{
		Use:           "playground",
		Short:         "Crius playground",
		Long:          "A demo application exercising the scene stack and the frame scheduler.",
		SilenceUsage:  true,
		SilenceErrors: true,
		// A malformed CRIUS_* variable fails every command
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return envErr
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.SettingsDir, "settings-dir", opts.SettingsDir, "directory containing settings.yml (empty uses the embedded settings)")
	flags.StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "log level (trace|debug|info|warn|error)")
	flags.StringVar(&opts.LogFormat, "log-format", opts.LogFormat, "log format (console|json)")
	flags.IntVar(&opts.Workers, "workers", opts.Workers, "maximum systems running at once (0 uses GOMAXPROCS)")
	flags.IntVar(&opts.Bodies, "bodies", opts.Bodies, "number of bodies spawned by the main scene")

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newPlanCommand(opts))
	cmd.AddCommand(newSettingsCommand(opts))
	return cmd
}

func newRunCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the window and run the playground",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", opts.MetricsAddr, "serve Prometheus metrics on this address")
	cmd.Flags().BoolVar(&opts.Trace, "trace", opts.Trace, "export schedule spans to stderr")
	return cmd
}

func newPlanCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print the frame schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(cmd, opts)
			if err != nil {
				return err
			}
			a, err := buildApp(opts, log, nil, nil)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), a.Schedule().Describe())
			return nil
		},
	}
}

func newSettingsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Print the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := settingsLoader(opts).LoadSettings()
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func run(opts *rootOptions) error {
	log, err := telemetry.NewLogger(telemetry.LoggingOptions{Level: opts.LogLevel, Format: opts.LogFormat})
	if err != nil {
		return err
	}

	metrics := telemetry.NewMetrics()
	if opts.MetricsAddr != "" {
		srv := &http.Server{Addr: opts.MetricsAddr, Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("metrics server failed")
			}
		}()
		defer srv.Close()
		log.Info().Str("addr", opts.MetricsAddr).Msg("serving metrics")
	}

	tracer, err := telemetry.NewTracer(telemetry.TracingOptions{
		Enabled:     opts.Trace,
		ServiceName: "playground",
		Output:      os.Stderr,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := tracer.Shutdown(context.Background()); err != nil {
			log.Warn().Err(err).Msg("tracer shutdown")
		}
	}()

	a, err := buildApp(opts, log, metrics, tracer.Tracer("crius/schedule"))
	if err != nil {
		return err
	}

	settings := a.Settings()
	g := game.New(a, game.NewEbitenInput())
	return game.Run(g, settings.Window)
}

func buildApp(opts *rootOptions, log zerolog.Logger, metrics app.Metrics, tracer trace.Tracer) (*app.Application, error) {
	settings, err := settingsLoader(opts).LoadSettings()
	if err != nil {
		return nil, err
	}

	b := app.NewBuilder(newMainScene(telemetry.Component(log, "scene"), opts.Bodies)).
		WithSettings(settings).
		WithLogger(log).
		WithWorkers(opts.Workers).
		WithTracer(tracer)
	if metrics != nil {
		b.WithMetrics(metrics)
	}
	initialResources(b, settings)
	registerSystems(b, telemetry.Component(log, "debug_system"), ebiten.SetWindowTitle)
	return b.Build()
}

func settingsLoader(opts *rootOptions) *config.Loader {
	if opts.SettingsDir != "" {
		return config.NewLoader(opts.SettingsDir)
	}
	sub, err := fs.Sub(configFS, "configs")
	if err != nil {
		// configs is embedded at build time
		panic(err)
	}
	return config.NewFSLoader(sub, "configs")
}

func newLogger(cmd *cobra.Command, opts *rootOptions) (zerolog.Logger, error) {
	return telemetry.NewLogger(telemetry.LoggingOptions{
		Level:  opts.LogLevel,
		Format: opts.LogFormat,
		Output: cmd.ErrOrStderr(),
	})
}
