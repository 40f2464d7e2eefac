// Package report renders the annotated dataset as XLSX and PDF reports.
package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ghalamif/FaultWatch/internal/domain"
	"github.com/ghalamif/FaultWatch/internal/ports"
)

const (
	readingsSheet = "readings"
	summarySheet  = "summary"
)

// XLSXSink writes a two-sheet workbook: the annotated rows and a fault summary.
type XLSXSink struct {
	path string
}

func NewXLSXSink(path string) *XLSXSink {
	return &XLSXSink{path: path}
}

func (s *XLSXSink) Name() string { return s.path }

func (s *XLSXSink) WriteDataset(ctx context.Context, ds *domain.AnnotatedDataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := Build(ds)
	if err != nil {
		return err
	}
	defer f.Close()

	return writeAtomic(s.path, func(w io.Writer) error {
		if _, err := f.WriteTo(w); err != nil {
			return fmt.Errorf("save workbook: %w", err)
		}
		return nil
	})
}

// Build renders ds into an in-memory workbook.
func Build(ds *domain.AnnotatedDataset) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", readingsSheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		f.Close()
		return nil, err
	}

	if err := writeRow(f, readingsSheet, 1, toAny(ds.Columns)); err != nil {
		f.Close()
		return nil, err
	}
	for i, row := range ds.Rows {
		if err := writeRow(f, readingsSheet, i+2, toAny(row.Record)); err != nil {
			f.Close()
			return nil, err
		}
	}

	generated := ""
	if !ds.GeneratedAt.IsZero() {
		generated = ds.GeneratedAt.Format(time.RFC3339)
	}
	summary := [][]any{
		{"Fault Detection Summary"},
		{},
		{"Cycle", ds.CycleID},
		{"Generated", generated},
		{"Rows", ds.Len()},
		{"Faulty rows", ds.Faulty()},
		{},
		{"Label", "Rows"},
	}
	counts := ds.LabelCounts()
	for _, label := range domain.FaultLabels {
		summary = append(summary, []any{label, counts[label]})
	}
	for i, vals := range summary {
		if err := writeRow(f, summarySheet, i+1, vals); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, vals []any) error {
	if len(vals) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &vals)
}

func toAny(vals []string) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

var _ ports.Sink = (*XLSXSink)(nil)
