package sink

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ghalamif/FaultWatch/internal/domain"
)

func dataset(rows int) *domain.AnnotatedDataset {
	ds := &domain.AnnotatedDataset{
		CycleID:     "cycle-1",
		GeneratedAt: time.Unix(1700000000, 0).UTC(),
	}
	for i := 0; i < rows; i++ {
		ds.Rows = append(ds.Rows, domain.AnnotatedRow{
			Index:   i,
			Reading: domain.Reading{Temperature: 85, Voltage: 5, Current: 1, Vibration: 0.5, Extra: map[string]string{"site": "north"}},
			Status:  "Overheat",
		})
	}
	return ds
}

func TestTimescaleSinkWriteDataset(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	sink := NewTimescaleSink(db, "fault_readings")
	ds := dataset(1)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM fault_readings")).
		WillReturnResult(sqlmock.NewResult(0, 3))
	expectedQuery := regexp.QuoteMeta("INSERT INTO fault_readings (cycle_id, row_index, temperature, voltage, current, vibration, fault_status, extra, generated_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)")
	mock.ExpectExec(expectedQuery).
		WithArgs("cycle-1", 0, 85.0, 5.0, 1.0, 0.5, "Overheat", []byte(`{"site":"north"}`), ds.GeneratedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := sink.WriteDataset(context.Background(), ds); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTimescaleSinkChunksInserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	sink := NewTimescaleSink(db, "fault_readings")

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM fault_readings").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO fault_readings").WillReturnResult(sqlmock.NewResult(0, rowsPerInsert))
	mock.ExpectExec("INSERT INTO fault_readings").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := sink.WriteDataset(context.Background(), dataset(rowsPerInsert+1)); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTimescaleSinkRollsBackOnInsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	sink := NewTimescaleSink(db, "fault_readings")

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM fault_readings").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO fault_readings").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	if err := sink.WriteDataset(context.Background(), dataset(2)); err == nil {
		t.Fatalf("expected insert error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTimescaleSinkWriteDatasetEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	sink := NewTimescaleSink(db, "fault_readings")
	if err := sink.WriteDataset(context.Background(), &domain.AnnotatedDataset{}); err != nil {
		t.Fatalf("expected nil error for empty dataset, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTimescaleSinkName(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	sink := NewTimescaleSink(db, "fault_readings")
	if sink.Name() != "timescaledb" {
		t.Fatalf("expected sink name timescaledb, got %s", sink.Name())
	}
}
