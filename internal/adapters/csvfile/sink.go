package csvfile

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/ghalamif/FaultWatch/internal/domain"
	"github.com/ghalamif/FaultWatch/internal/ports"
)

// Sink overwrites the output file with the annotated dataset. The data is
// written to a temp file in the same directory and renamed into place, so
// readers never observe a partial file and a failed write leaves the
// previous output intact.
type Sink struct {
	path  string
	comma rune
}

func NewSink(path string) *Sink {
	return &Sink{path: path, comma: ','}
}

func (s *Sink) Name() string { return s.path }

func (s *Sink) WriteDataset(ctx context.Context, ds *domain.AnnotatedDataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	w := csv.NewWriter(tmp)
	w.Comma = s.comma
	if err := w.Write(ds.Columns); err != nil {
		return err
	}
	for _, row := range ds.Rows {
		if err := w.Write(row.Record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return err
	}
	committed = true
	return nil
}

var _ ports.Sink = (*Sink)(nil)
