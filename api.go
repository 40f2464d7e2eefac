package faultwatch

import (
	base "github.com/ghalamif/FaultWatch/pkg/faultwatch"
)

// Re-exported errors for convenience.
var (
	ErrChannelSinkClosed = base.ErrChannelSinkClosed
)

// Cycle outcomes.
const (
	OutcomeWritten      = base.OutcomeWritten
	OutcomeInputMissing = base.OutcomeInputMissing
	OutcomeLoadFailure  = base.OutcomeLoadFailure
	OutcomeEmptyDataset = base.OutcomeEmptyDataset
	OutcomeMalformedRow = base.OutcomeMalformedRow
	OutcomeWriteFailure = base.OutcomeWriteFailure
)

// Type aliases so consumers can import github.com/ghalamif/FaultWatch directly.
type (
	Config           = base.Config
	WatchConfig      = base.WatchConfig
	MetricsConfig    = base.MetricsConfig
	TimescaleConfig  = base.TimescaleConfig
	ReportConfig     = base.ReportConfig
	Flow             = base.Flow
	FlowOption       = base.FlowOption
	StreamInOption   = base.StreamInOption
	StreamOutOption  = base.StreamOutOption
	Runtime          = base.Runtime
	RuntimeOption    = base.RuntimeOption
	Reading          = base.Reading
	Dataset          = base.Dataset
	AnnotatedDataset = base.AnnotatedDataset
	AnnotatedRow     = base.AnnotatedRow
	FaultStatus      = base.FaultStatus
	ThresholdRule    = base.ThresholdRule
	ThresholdTable   = base.ThresholdTable
	Classifier       = base.Classifier
	CycleResult      = base.CycleResult
	Outcome          = base.Outcome
	Source           = base.Source
	Sink             = base.Sink
	Clock            = base.Clock
	Observability    = base.Observability
	Field            = base.Field
	DatasetCallback  = base.DatasetCallback
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

func DefaultConfig() *Config {
	return base.DefaultConfig()
}

// Flow builder helpers.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	return base.Conf(path, opts...)
}

func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	return base.ConfFromConfig(cfg, opts...)
}

func WithFlowOptions(opts ...RuntimeOption) FlowOption {
	return base.WithFlowOptions(opts...)
}

func StreamInSource(src Source) StreamInOption {
	return base.StreamInSource(src)
}

func StreamInClock(c Clock) StreamInOption {
	return base.StreamInClock(c)
}

func StreamInThresholds(t ThresholdTable) StreamInOption {
	return base.StreamInThresholds(t)
}

func StreamOutSink(s Sink) StreamOutOption {
	return base.StreamOutSink(s)
}

func StreamOutMirror(s Sink) StreamOutOption {
	return base.StreamOutMirror(s)
}

func StreamOutObservability(obs Observability) StreamOutOption {
	return base.StreamOutObservability(obs)
}

func StreamOutCallback(name string, fn DatasetCallback) StreamOutOption {
	return base.StreamOutCallback(name, fn)
}

// Runtime and options.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	return base.NewRuntime(cfg, opts...)
}

func WithSource(src Source) RuntimeOption {
	return base.WithSource(src)
}

func WithSink(s Sink) RuntimeOption {
	return base.WithSink(s)
}

func WithMirror(s Sink) RuntimeOption {
	return base.WithMirror(s)
}

func WithObservability(obs Observability) RuntimeOption {
	return base.WithObservability(obs)
}

func WithClock(c Clock) RuntimeOption {
	return base.WithClock(c)
}

func WithThresholds(t ThresholdTable) RuntimeOption {
	return base.WithThresholds(t)
}

// Thresholds and classification.
func DefaultThresholds() ThresholdTable {
	return base.DefaultThresholds()
}

func NewThresholdTable(rules map[string]ThresholdRule) ThresholdTable {
	return base.NewThresholdTable(rules)
}

func Bounds(lo, hi float64) ThresholdRule {
	return base.Bounds(lo, hi)
}

func MaxOnly(hi float64) ThresholdRule {
	return base.MaxOnly(hi)
}

func MinOnly(lo float64) ThresholdRule {
	return base.MinOnly(lo)
}

func NewClassifier(table ThresholdTable) *Classifier {
	return base.NewClassifier(table)
}

// Sink adapters.
func NewCallbackSink(name string, fn DatasetCallback) Sink {
	return base.NewCallbackSink(name, fn)
}

func NewChannelSink(name string, buffer int) (Sink, <-chan *AnnotatedDataset, func()) {
	return base.NewChannelSink(name, buffer)
}
