package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"casestat/internal/config"
	"casestat/internal/infrastructure"
	"casestat/internal/pipeline"
	"casestat/pkg/contracts"
)

// ShutdownTimeout bounds flushing spans and writing the metrics file.
const ShutdownTimeout = 10 * time.Second

// Application holds everything one command line run needs
type Application struct {
	Tool          string
	Config        *config.Config
	Logger        *slog.Logger // single slog instance for the run
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.PipelineMetrics
	Runner        *pipeline.Runner
}

// NewApplication loads the configuration at configPath (empty searches the
// default locations) and wires logging, telemetry and the pipeline runner.
// Console logs go to console.
func NewApplication(tool, configPath string, console io.Writer) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.Paths().EnsureDirectories(); err != nil {
		return nil, err
	}

	if console == nil {
		console = os.Stderr
	}
	logger, err := infrastructure.NewLogger(cfg.Logging, console)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = logger.With(slog.String("tool", tool))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		infrastructure.CloseLogFile()
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreatePipelineMetrics(otelProviders.Meter)
	if err != nil {
		otelProviders.Shutdown(context.Background())
		infrastructure.CloseLogFile()
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	logger.Debug("Application starting",
		slog.String("version", contracts.GetVersionString(tool)),
		slog.String("output_dir", cfg.Output.Dir),
		slog.String("marker", cfg.Input.Marker))

	return &Application{
		Tool:          tool,
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		Runner: pipeline.NewRunner(cfg, pipeline.Options{
			Tracer: pipeline.NewTracer(otelProviders.Tracer, metrics),
			Logger: logger,
		}),
	}, nil
}

// Stop flushes telemetry and closes the log file.
func (a *Application) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, ShutdownTimeout)
	defer cancel()

	var errs []error
	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SignalContext returns a context cancelled on interrupt or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
