package report

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/ghalamif/FaultWatch/internal/domain"
	"github.com/ghalamif/FaultWatch/internal/ports"
)

// maxPDFRows caps the faulty-row table; the summary counts stay exact.
const maxPDFRows = 500

// PDFSink writes a printable fault report: summary counts and the faulty rows.
type PDFSink struct {
	path string
}

func NewPDFSink(path string) *PDFSink {
	return &PDFSink{path: path}
}

func (s *PDFSink) Name() string { return s.path }

func (s *PDFSink) WriteDataset(ctx context.Context, ds *domain.AnnotatedDataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pdf := BuildPDF(ds)
	return writeAtomic(s.path, func(w io.Writer) error {
		if err := pdf.Output(w); err != nil {
			return fmt.Errorf("render pdf: %w", err)
		}
		return nil
	})
}

// BuildPDF lays out the report. Errors are latched in the returned document
// and surface from Output.
func BuildPDF(ds *domain.AnnotatedDataset) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Fault Detection Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Cycle: %s", ds.CycleID))
	pdf.Ln(5)
	if !ds.GeneratedAt.IsZero() {
		pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", ds.GeneratedAt.Format(time.RFC3339)))
		pdf.Ln(5)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Rows: %d", ds.Len()))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Faulty rows: %d", ds.Faulty()))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(60, 6, "Label", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Rows", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	counts := ds.LabelCounts()
	for _, label := range domain.FaultLabels {
		pdf.CellFormat(60, 6, label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, strconv.Itoa(counts[label]), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	if ds.Faulty() == 0 {
		return pdf
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 9)
	for _, h := range []string{"Row", "Temp", "Volt", "Curr", "Vib"} {
		pdf.CellFormat(18, 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.CellFormat(90, 6, "Status", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	written := 0
	for _, row := range ds.Rows {
		if row.Status.IsOK() {
			continue
		}
		if written == maxPDFRows {
			pdf.Ln(2)
			pdf.Cell(0, 6, fmt.Sprintf("... %d more faulty rows omitted", ds.Faulty()-written))
			break
		}
		r := row.Reading
		pdf.CellFormat(18, 6, strconv.Itoa(row.Index), "1", 0, "R", false, 0, "")
		pdf.CellFormat(18, 6, fmt.Sprintf("%.2f", r.Temperature), "1", 0, "R", false, 0, "")
		pdf.CellFormat(18, 6, fmt.Sprintf("%.2f", r.Voltage), "1", 0, "R", false, 0, "")
		pdf.CellFormat(18, 6, fmt.Sprintf("%.2f", r.Current), "1", 0, "R", false, 0, "")
		pdf.CellFormat(18, 6, fmt.Sprintf("%.2f", r.Vibration), "1", 0, "R", false, 0, "")
		pdf.CellFormat(90, 6, row.Status.String(), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
		written++
	}
	return pdf
}

var _ ports.Sink = (*PDFSink)(nil)
