package observability

import (
	"fmt"
	"log"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ghalamif/FaultWatch/internal/domain"
	"github.com/ghalamif/FaultWatch/internal/ports"
)

type PromObs struct {
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
	cycles   *prometheus.CounterVec
	faults   *prometheus.CounterVec
	logger   *log.Logger
}

// NewPromObs registers the watcher metrics on reg, or on the default
// registerer when reg is nil.
func NewPromObs(reg prometheus.Registerer) *PromObs {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	rows := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "faultwatch_rows_classified_total",
		Help: "Rows classified, summed over every written cycle; an unchanged input is counted again each cycle.",
	})
	mirrorFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "faultwatch_mirror_failures_total",
		Help: "Mirror sink writes that failed.",
	})
	datasetRows := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "faultwatch_dataset_rows",
		Help: "Row count of the most recently written dataset.",
	})
	faultyRows := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "faultwatch_faulty_rows",
		Help: "Rows with at least one fault in the most recently written dataset.",
	})
	lastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "faultwatch_last_success_timestamp_seconds",
		Help: "Unix time of the last successful output write.",
	})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "faultwatch_cycle_duration_seconds",
		Help:    "Wall time of one load, classify, write cycle.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})
	cycles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "faultwatch_cycles_total",
		Help: "Watch cycles by outcome.",
	}, []string{"outcome"})
	faults := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "faultwatch_faults_total",
		Help: "Fault labels assigned, by label, summed over every written cycle; use faultwatch_faulty_rows for the current dataset.",
	}, []string{"label"})

	reg.MustRegister(rows, mirrorFailures, datasetRows, faultyRows, lastSuccess, latency, cycles, faults)

	for _, o := range domain.Outcomes {
		cycles.WithLabelValues(string(o))
	}
	for _, l := range domain.FaultLabels {
		faults.WithLabelValues(l)
	}

	return &PromObs{
		counters: map[string]prometheus.Counter{
			"faultwatch_rows_classified_total": rows,
			"faultwatch_mirror_failures_total": mirrorFailures,
		},
		gauges: map[string]prometheus.Gauge{
			"faultwatch_dataset_rows":                   datasetRows,
			"faultwatch_faulty_rows":                    faultyRows,
			"faultwatch_last_success_timestamp_seconds": lastSuccess,
		},
		histos: map[string]prometheus.Observer{
			"faultwatch_cycle_duration_seconds": latency,
		},
		cycles: cycles,
		faults: faults,
		logger: log.Default(),
	}
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {
	p.logger.Printf("INFO: %s%s", msg, formatFields(fields))
}

func (p *PromObs) LogWarn(msg string, err error, fields ...ports.Field) {
	p.logger.Printf("WARN: %s: %v%s", msg, err, formatFields(fields))
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	if err != nil {
		p.logger.Printf("ERROR: %s: %v%s", msg, err, formatFields(fields))
	}
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func (p *PromObs) RecordCycle(res domain.CycleResult) {
	p.cycles.WithLabelValues(string(res.Outcome)).Inc()
	p.ObserveLatency("faultwatch_cycle_duration_seconds", res.Duration.Seconds())
	if res.Outcome != domain.OutcomeWritten {
		return
	}
	p.IncCounter("faultwatch_rows_classified_total", float64(res.Rows))
	p.SetGauge("faultwatch_dataset_rows", float64(res.Rows))
	p.SetGauge("faultwatch_faulty_rows", float64(res.Faulty))
	for label, n := range res.Labels {
		p.faults.WithLabelValues(label).Add(float64(n))
	}
}

func formatFields(fields []ports.Field) string {
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	return b.String()
}

var _ ports.Observability = (*PromObs)(nil)
