package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ghalamif/FaultWatch/internal/domain"
	"github.com/ghalamif/FaultWatch/internal/ports"
)

const (
	columnsPerRow = 9
	// Keeps every INSERT well under the 65535 bind-parameter limit.
	rowsPerInsert = 1000
)

// TimescaleSink mirrors the annotated dataset into a table. Each write
// replaces the table contents inside one transaction, matching the
// overwrite semantics of the output file.
type TimescaleSink struct {
	db        *sql.DB
	tableName string
}

func NewTimescaleSink(db *sql.DB, table string) *TimescaleSink {
	return &TimescaleSink{db: db, tableName: table}
}

func (t *TimescaleSink) Name() string { return "timescaledb" }

func (t *TimescaleSink) WriteDataset(ctx context.Context, ds *domain.AnnotatedDataset) error {
	if ds.Len() == 0 {
		return nil
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+t.tableName); err != nil {
		return fmt.Errorf("clear %s: %w", t.tableName, err)
	}

	for start := 0; start < len(ds.Rows); start += rowsPerInsert {
		end := start + rowsPerInsert
		if end > len(ds.Rows) {
			end = len(ds.Rows)
		}
		query, args, err := t.buildInsert(ds, ds.Rows[start:end])
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert rows %d-%d: %w", start, end-1, err)
		}
	}

	return tx.Commit()
}

func (t *TimescaleSink) buildInsert(ds *domain.AnnotatedDataset, rows []domain.AnnotatedRow) (string, []any, error) {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(t.tableName)
	b.WriteString(" (cycle_id, row_index, temperature, voltage, current, vibration, fault_status, extra, generated_at) VALUES ")

	args := make([]any, 0, len(rows)*columnsPerRow)
	for i, r := range rows {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("(")
		for c := 1; c <= columnsPerRow; c++ {
			if c > 1 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, "$%d", len(args)+c)
		}
		b.WriteString(")")

		extra, err := json.Marshal(r.Reading.Extra)
		if err != nil {
			return "", nil, fmt.Errorf("marshal extra: %w", err)
		}

		args = append(args,
			ds.CycleID,
			r.Index,
			r.Reading.Temperature,
			r.Reading.Voltage,
			r.Reading.Current,
			r.Reading.Vibration,
			string(r.Status),
			extra,
			ds.GeneratedAt,
		)
	}
	return b.String(), args, nil
}

var _ ports.Sink = (*TimescaleSink)(nil)
