// Package csvfile reads and writes delimited sensor logs.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ghalamif/FaultWatch/internal/domain"
	"github.com/ghalamif/FaultWatch/internal/ports"
)

const utf8BOM = "\ufeff"

// Source loads the whole input file on every call.
type Source struct {
	path  string
	comma rune
}

func NewSource(path string) *Source {
	return &Source{path: path, comma: ','}
}

func (s *Source) Name() string { return s.path }

func (s *Source) Available() (bool, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, fmt.Errorf("%s is a directory", s.path)
	}
	return true, nil
}

// Load parses the file into a Dataset. A missing file yields
// domain.ErrInputMissing; everything else is returned as-is for the caller to
// treat as a load failure.
func (s *Source) Load(ctx context.Context) (*domain.Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrInputMissing
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = s.comma

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("no columns to parse from file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	ds := &domain.Dataset{Columns: header}
	if missing := ds.MissingColumns(); len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}

var _ ports.Source = (*Source)(nil)
