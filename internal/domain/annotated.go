package domain

import "time"

// AnnotatedRow is one classified input row.
type AnnotatedRow struct {
	Index   int
	Reading Reading
	Status  FaultStatus
	// Record is the output row: the original cells plus the fault status,
	// aligned with AnnotatedDataset.Columns.
	Record []string
}

// AnnotatedDataset is the fully classified result of one cycle. CycleID and
// GeneratedAt are metadata for mirror sinks and never reach the output file.
type AnnotatedDataset struct {
	CycleID     string
	GeneratedAt time.Time
	Columns     []string
	Rows        []AnnotatedRow
}

func (a *AnnotatedDataset) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Rows)
}

// Faulty counts rows whose status is not OK.
func (a *AnnotatedDataset) Faulty() int {
	n := 0
	for _, r := range a.Rows {
		if !r.Status.IsOK() {
			n++
		}
	}
	return n
}

// LabelCounts returns how many rows carry each fault label.
func (a *AnnotatedDataset) LabelCounts() map[string]int {
	counts := make(map[string]int, len(FaultLabels))
	for _, r := range a.Rows {
		for _, l := range r.Status.Labels() {
			counts[l]++
		}
	}
	return counts
}

// Records returns the output rows in order.
func (a *AnnotatedDataset) Records() [][]string {
	out := make([][]string, len(a.Rows))
	for i, r := range a.Rows {
		out[i] = r.Record
	}
	return out
}
