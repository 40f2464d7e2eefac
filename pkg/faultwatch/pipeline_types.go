package faultwatch

import (
	"github.com/ghalamif/FaultWatch/internal/domain"
	"github.com/ghalamif/FaultWatch/internal/ports"
)

// Reading is one parsed sensor row; unknown columns are kept in Extra.
type Reading = domain.Reading

// Dataset is the raw table loaded from the input on each cycle.
type Dataset = domain.Dataset

// AnnotatedDataset is a classified dataset as handed to sinks.
type AnnotatedDataset = domain.AnnotatedDataset

// AnnotatedRow is one classified row.
type AnnotatedRow = domain.AnnotatedRow

// FaultStatus is "OK" or the comma-separated fault labels of a row.
type FaultStatus = domain.FaultStatus

// ThresholdRule holds the optional min/max bounds of one sensor.
type ThresholdRule = domain.ThresholdRule

// ThresholdTable is the immutable sensor → rule mapping used by the classifier.
type ThresholdTable = domain.ThresholdTable

// Classifier maps readings to fault statuses.
type Classifier = domain.Classifier

// CycleResult reports what one watch cycle did.
type CycleResult = domain.CycleResult

// Outcome tags a CycleResult.
type Outcome = domain.Outcome

// Source loads the input dataset (CSV file by default).
type Source = ports.Source

// Sink persists annotated datasets (CSV file, Timescale, XLSX, callbacks).
type Sink = ports.Sink

// Clock provides time and the inter-cycle sleep.
type Clock = ports.Clock

// Observability emits status lines and metrics about each cycle.
type Observability = ports.Observability

// Field is a structured log field used by Observability implementations.
type Field = ports.Field

// DefaultThresholds returns the fixed safety bounds.
func DefaultThresholds() ThresholdTable { return domain.DefaultThresholds() }

// NewThresholdTable builds a table from a copy of rules.
func NewThresholdTable(rules map[string]ThresholdRule) ThresholdTable {
	return domain.NewThresholdTable(rules)
}

// Bounds, MaxOnly and MinOnly build threshold rules.
func Bounds(lo, hi float64) ThresholdRule { return domain.Bounds(lo, hi) }
func MaxOnly(hi float64) ThresholdRule    { return domain.MaxOnly(hi) }
func MinOnly(lo float64) ThresholdRule    { return domain.MinOnly(lo) }

// NewClassifier builds a classifier over table.
func NewClassifier(table ThresholdTable) *Classifier { return domain.NewClassifier(table) }

// Cycle outcomes reported in CycleResult.Outcome.
const (
	OutcomeWritten      = domain.OutcomeWritten
	OutcomeInputMissing = domain.OutcomeInputMissing
	OutcomeLoadFailure  = domain.OutcomeLoadFailure
	OutcomeEmptyDataset = domain.OutcomeEmptyDataset
	OutcomeMalformedRow = domain.OutcomeMalformedRow
	OutcomeWriteFailure = domain.OutcomeWriteFailure
)
