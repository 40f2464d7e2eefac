package domain

import (
	"fmt"
	"strings"
)

// Fault labels in evaluation order.
const (
	LabelOverheat        = "Overheat"
	LabelUndervoltage    = "Undervoltage"
	LabelOvercurrent     = "Overcurrent"
	LabelExcessVibration = "Excess vibration"
)

// FaultLabels lists every label in the order the classifier emits them.
var FaultLabels = []string{LabelOverheat, LabelUndervoltage, LabelOvercurrent, LabelExcessVibration}

const labelSeparator = ", "

// FaultStatus is either StatusOK or a comma-separated list of fault labels.
type FaultStatus string

const StatusOK FaultStatus = "OK"

func (s FaultStatus) IsOK() bool { return s == StatusOK }

// Labels splits the status back into its fault labels.
func (s FaultStatus) Labels() []string {
	if s == StatusOK || s == "" {
		return nil
	}
	return strings.Split(string(s), labelSeparator)
}

func (s FaultStatus) String() string { return string(s) }

// Classifier evaluates readings against a threshold table.
type Classifier struct {
	table ThresholdTable
}

func NewClassifier(table ThresholdTable) *Classifier {
	return &Classifier{table: table}
}

// Classify returns the fault status of r. Comparisons are strict, so a value
// equal to its bound is not a fault. A check whose bound is absent from the
// table is skipped.
func (c *Classifier) Classify(r Reading) FaultStatus {
	faults := make([]string, 0, len(FaultLabels))
	if c.above(SensorTemperature, r.Temperature) {
		faults = append(faults, LabelOverheat)
	}
	if c.below(SensorVoltage, r.Voltage) {
		faults = append(faults, LabelUndervoltage)
	}
	if c.above(SensorCurrent, r.Current) {
		faults = append(faults, LabelOvercurrent)
	}
	if c.above(SensorVibration, r.Vibration) {
		faults = append(faults, LabelExcessVibration)
	}
	if len(faults) == 0 {
		return StatusOK
	}
	return FaultStatus(strings.Join(faults, labelSeparator))
}

// ClassifyRecord parses a raw row and classifies it.
func (c *Classifier) ClassifyRecord(row int, columns, record []string) (FaultStatus, error) {
	r, err := parseReading(row, columnIndex(columns), columns, record)
	if err != nil {
		return "", err
	}
	return c.Classify(r), nil
}

// Annotate classifies every row of ds. It is all-or-nothing: the first
// malformed row, including one wider or narrower than the header, aborts with
// a *MalformedRowError and no result.
func (c *Classifier) Annotate(ds *Dataset) (*AnnotatedDataset, error) {
	idx := columnIndex(ds.Columns)
	statusPos, hasStatus := idx[FaultStatusColumn]

	columns := append([]string(nil), ds.Columns...)
	if !hasStatus {
		statusPos = len(columns)
		columns = append(columns, FaultStatusColumn)
	}

	out := &AnnotatedDataset{
		Columns: columns,
		Rows:    make([]AnnotatedRow, 0, len(ds.Records)),
	}
	for i, rec := range ds.Records {
		if len(rec) != len(ds.Columns) {
			return nil, &MalformedRowError{
				Row: i,
				Err: fmt.Errorf("%w: got %d, header has %d", ErrFieldCount, len(rec), len(ds.Columns)),
			}
		}
		reading, err := parseReading(i, idx, ds.Columns, rec)
		if err != nil {
			return nil, err
		}
		status := c.Classify(reading)

		record := make([]string, len(columns))
		copy(record, rec)
		record[statusPos] = string(status)

		out.Rows = append(out.Rows, AnnotatedRow{
			Index:   i,
			Reading: reading,
			Status:  status,
			Record:  record,
		})
	}
	return out, nil
}

func (c *Classifier) above(sensor string, v float64) bool {
	rule, ok := c.table.BoundsFor(sensor)
	if !ok {
		return false
	}
	hi, ok := rule.Max()
	return ok && v > hi
}

func (c *Classifier) below(sensor string, v float64) bool {
	rule, ok := c.table.BoundsFor(sensor)
	if !ok {
		return false
	}
	lo, ok := rule.Min()
	return ok && v < lo
}
