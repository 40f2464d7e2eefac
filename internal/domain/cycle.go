package domain

import "time"

// Outcome tags the result of one watch cycle.
type Outcome string

const (
	OutcomeWritten      Outcome = "written"
	OutcomeInputMissing Outcome = "input_missing"
	OutcomeLoadFailure  Outcome = "load_failure"
	OutcomeEmptyDataset Outcome = "empty_dataset"
	OutcomeMalformedRow Outcome = "malformed_row"
	OutcomeWriteFailure Outcome = "write_failure"
)

// Outcomes lists every outcome; used to pre-register metric series.
var Outcomes = []Outcome{
	OutcomeWritten,
	OutcomeInputMissing,
	OutcomeLoadFailure,
	OutcomeEmptyDataset,
	OutcomeMalformedRow,
	OutcomeWriteFailure,
}

// Failed reports whether the outcome abandoned the cycle on an error.
func (o Outcome) Failed() bool {
	switch o {
	case OutcomeLoadFailure, OutcomeMalformedRow, OutcomeWriteFailure:
		return true
	}
	return false
}

// CycleResult is what one load, classify, write pass produced.
type CycleResult struct {
	ID       string
	Outcome  Outcome
	Rows     int
	Faulty   int
	Labels   map[string]int
	Err      error
	Duration time.Duration
}
