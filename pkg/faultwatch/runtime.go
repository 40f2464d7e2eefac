package faultwatch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ghalamif/FaultWatch/internal/adapters/clock"
	"github.com/ghalamif/FaultWatch/internal/adapters/csvfile"
	"github.com/ghalamif/FaultWatch/internal/adapters/observability"
	"github.com/ghalamif/FaultWatch/internal/adapters/report"
	"github.com/ghalamif/FaultWatch/internal/adapters/sink"
	"github.com/ghalamif/FaultWatch/internal/app/pipeline"
	"github.com/ghalamif/FaultWatch/internal/domain"
	"github.com/ghalamif/FaultWatch/internal/ports"
)

// RuntimeOption customizes the dependencies used by Runtime.
type RuntimeOption func(*runtimeOverrides)

type runtimeOverrides struct {
	source        Source
	sink          Sink
	mirrors       []Sink
	observability Observability
	clock         Clock
	thresholds    *ThresholdTable
}

// WithSource replaces the CSV input reader.
func WithSource(src Source) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.source = src
	}
}

// WithSink replaces the primary CSV output writer.
func WithSink(s Sink) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.sink = s
	}
}

// WithMirror adds a sink that receives every dataset after the primary
// output is written. Mirror failures are logged but never fail a cycle.
func WithMirror(s Sink) RuntimeOption {
	return func(o *runtimeOverrides) {
		if s != nil {
			o.mirrors = append(o.mirrors, s)
		}
	}
}

// WithObservability plugs in a custom observability backend.
func WithObservability(obs Observability) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.observability = obs
	}
}

// WithClock swaps the wall clock, mainly so tests can run cycles without
// real delays.
func WithClock(c Clock) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.clock = c
	}
}

// WithThresholds overrides the default safety bounds.
func WithThresholds(t ThresholdTable) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.thresholds = &t
	}
}

// Runtime wires the CSV source, classifier, output sink and optional mirrors
// into a watcher and exposes lifecycle hooks for embedding FaultWatch inside
// any Go service.
type Runtime struct {
	cfg        *Config
	obs        ports.Observability
	source     ports.Source
	sink       ports.Sink
	mirrors    []ports.Sink
	clock      ports.Clock
	watcher    *pipeline.Watcher
	registry   *prometheus.Registry
	db         *sql.DB
	metricsSrv *http.Server
}

// NewRuntime bootstraps the default adapters (CSV source and sink, Prometheus
// observability on a registry private to the runtime, and the Timescale, XLSX
// and PDF mirrors when configured). RuntimeOption values override any of them.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var overrides runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	// Each runtime owns its registry so several can live in one process.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	obs := overrides.observability
	if obs == nil {
		obs = observability.NewPromObs(registry)
	}

	src := overrides.source
	if src == nil {
		src = csvfile.NewSource(cfg.Watch.InputPath)
	}

	out := overrides.sink
	if out == nil {
		out = csvfile.NewSink(cfg.Watch.OutputPath)
	}

	clk := overrides.clock
	if clk == nil {
		clk = clock.System{}
	}

	var (
		db      *sql.DB
		mirrors []ports.Sink
	)
	if cfg.Timescale.ConnString != "" {
		var err error
		db, err = sql.Open("postgres", cfg.Timescale.ConnString)
		if err != nil {
			return nil, err
		}
		mirrors = append(mirrors, sink.NewTimescaleSink(db, cfg.Timescale.Table))
	}
	if cfg.Report.XLSXPath != "" {
		mirrors = append(mirrors, report.NewXLSXSink(cfg.Report.XLSXPath))
	}
	if cfg.Report.PDFPath != "" {
		mirrors = append(mirrors, report.NewPDFSink(cfg.Report.PDFPath))
	}
	mirrors = append(mirrors, overrides.mirrors...)

	table := domain.DefaultThresholds()
	if overrides.thresholds != nil {
		table = *overrides.thresholds
	}

	w := pipeline.NewWatcher(
		src,
		out,
		domain.NewClassifier(table),
		ports.Policy{PollInterval: cfg.Watch.PollInterval},
		obs,
		clk,
		pipeline.WithMirrors(mirrors...),
		pipeline.WithCycleIDs(uuid.NewString),
	)

	return &Runtime{
		cfg:      cfg,
		obs:      obs,
		source:   src,
		sink:     out,
		mirrors:  mirrors,
		clock:    clk,
		watcher:  w,
		registry: registry,
		db:       db,
	}, nil
}

// Run starts the metrics server and blocks in the watch loop until ctx is
// cancelled, then shuts down.
func (r *Runtime) Run(ctx context.Context) error {
	if r == nil {
		return fmt.Errorf("runtime is nil")
	}
	if !r.cfg.Metrics.Disabled {
		r.startMetrics()
	}
	r.obs.LogInfo("fault_detector_running",
		ports.Field{Key: "input", Value: r.source.Name()},
		ports.Field{Key: "output", Value: r.sink.Name()},
		ports.Field{Key: "interval", Value: r.cfg.Watch.PollInterval})

	err := r.watcher.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := r.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}
	return err
}

// RunOnce performs a single cycle and reports it, without sleeping.
func (r *Runtime) RunOnce(ctx context.Context) CycleResult {
	return r.watcher.RunOnce(ctx)
}

// Shutdown stops the metrics server and closes the database connection.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var errs []error

	if r.metricsSrv != nil {
		if err := r.metricsSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
		r.metricsSrv = nil
	}

	if r.db != nil {
		if err := r.db.Close(); err != nil {
			errs = append(errs, err)
		}
		r.db = nil
	}

	return errors.Join(errs...)
}

func (r *Runtime) startMetrics() {
	r.metricsSrv = &http.Server{
		Addr:              r.cfg.Metrics.Addr,
		Handler:           r.metricsHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	srv := r.metricsSrv
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server exited: %v", err)
		}
	}()
}

// metricsHandler serves this runtime's registry on /metrics and a liveness
// check on /healthz.
func (r *Runtime) metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
