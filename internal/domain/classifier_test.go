package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestClassifyScenarios(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	cases := []struct {
		name string
		in   Reading
		want FaultStatus
	}{
		{"overheat", Reading{Temperature: 85, Voltage: 5.0, Current: 1.0, Vibration: 0.5}, "Overheat"},
		{"undervoltage", Reading{Temperature: 70, Voltage: 4.0, Current: 1.0, Vibration: 0.5}, "Undervoltage"},
		{"overcurrent and vibration", Reading{Temperature: 70, Voltage: 5.0, Current: 1.3, Vibration: 2.0}, "Overcurrent, Excess vibration"},
		{"nominal", Reading{Temperature: 70, Voltage: 5.0, Current: 1.0, Vibration: 0.5}, "OK"},
		{"exactly at bounds", Reading{Temperature: 80, Voltage: 4.5, Current: 1.2, Vibration: 1.5}, "OK"},
		{"all faults", Reading{Temperature: 81, Voltage: 4.4, Current: 1.21, Vibration: 1.51}, "Overheat, Undervoltage, Overcurrent, Excess vibration"},
		{"unenforced minimums", Reading{Temperature: -40, Voltage: 5.0, Current: 0.1, Vibration: -1}, "OK"},
		{"overvoltage is not flagged", Reading{Temperature: 20, Voltage: 9, Current: 1.0, Vibration: 0.1}, "OK"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.Classify(tc.in); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestClassifySingleViolationYieldsOnlyItsLabel(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	nominal := Reading{Temperature: 25, Voltage: 5, Current: 1, Vibration: 0.2}

	mutations := map[string]func(*Reading){
		LabelOverheat:        func(r *Reading) { r.Temperature = 80.0001 },
		LabelUndervoltage:    func(r *Reading) { r.Voltage = 4.4999 },
		LabelOvercurrent:     func(r *Reading) { r.Current = 1.2001 },
		LabelExcessVibration: func(r *Reading) { r.Vibration = 1.5001 },
	}
	for label, mutate := range mutations {
		r := nominal
		mutate(&r)
		got := c.Classify(r)
		if labels := got.Labels(); len(labels) != 1 || labels[0] != label {
			t.Fatalf("expected only %q, got %q", label, got)
		}
	}
}

func TestClassifyUsesInjectedTable(t *testing.T) {
	c := NewClassifier(NewThresholdTable(map[string]ThresholdRule{
		SensorTemperature: MaxOnly(40),
		SensorVoltage:     MinOnly(3.0),
	}))

	got := c.Classify(Reading{Temperature: 41, Voltage: 2.9, Current: 99, Vibration: 99})
	if got != "Overheat, Undervoltage" {
		t.Fatalf("expected checks without bounds to be skipped, got %q", got)
	}
}

func TestThresholdTableIsCopied(t *testing.T) {
	rules := map[string]ThresholdRule{SensorTemperature: MaxOnly(80)}
	table := NewThresholdTable(rules)
	rules[SensorTemperature] = MaxOnly(10)

	rule, ok := table.BoundsFor(SensorTemperature)
	if !ok {
		t.Fatalf("expected temperature rule")
	}
	if hi, _ := rule.Max(); hi != 80 {
		t.Fatalf("expected table to keep max 80, got %v", hi)
	}
	if _, ok := table.BoundsFor("humidity"); ok {
		t.Fatalf("expected no rule for unknown sensor")
	}
}

func TestDefaultThresholds(t *testing.T) {
	table := DefaultThresholds()
	want := map[string][2]float64{
		SensorTemperature: {0, 80},
		SensorVoltage:     {4.5, 5.5},
		SensorCurrent:     {0.8, 1.2},
		SensorVibration:   {0, 1.5},
	}
	if table.Len() != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), table.Len())
	}
	for sensor, bounds := range want {
		rule, ok := table.BoundsFor(sensor)
		if !ok {
			t.Fatalf("missing rule for %s", sensor)
		}
		lo, okLo := rule.Min()
		hi, okHi := rule.Max()
		if !okLo || !okHi || lo != bounds[0] || hi != bounds[1] {
			t.Fatalf("%s: expected [%v,%v], got [%v,%v]", sensor, bounds[0], bounds[1], lo, hi)
		}
	}
}

func TestClassifyRecordMalformed(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	columns := []string{"timestamp", "temperature", "voltage", "current", "vibration"}

	status, err := c.ClassifyRecord(0, columns, []string{"t0", " 85 ", "5.0", "1.0", "0.5"})
	if err != nil || status != "Overheat" {
		t.Fatalf("expected Overheat, got %q err=%v", status, err)
	}

	_, err = c.ClassifyRecord(3, columns, []string{"t3", "70", "abc", "1.0", "0.5"})
	var malformed *MalformedRowError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedRowError, got %v", err)
	}
	if malformed.Row != 3 || malformed.Field != SensorVoltage || malformed.Value != "abc" {
		t.Fatalf("unexpected error detail: %+v", malformed)
	}

	_, err = c.ClassifyRecord(1, columns[:4], []string{"t1", "70", "5", "1"})
	if !errors.As(err, &malformed) || malformed.Field != SensorVibration || malformed.Err != nil {
		t.Fatalf("expected missing vibration field, got %v", err)
	}

	for _, bad := range []string{"", "  ", "NaN", "inf"} {
		if _, err := c.ClassifyRecord(0, columns, []string{"t", bad, "5", "1", "0.5"}); !errors.As(err, &malformed) {
			t.Fatalf("expected %q to be rejected, got %v", bad, err)
		}
	}
}

func TestAnnotateAppendsStatusAndKeepsPassthrough(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	ds := &Dataset{
		Columns: []string{"timestamp", "temperature", "voltage", "current", "vibration", "site"},
		Records: [][]string{
			{"2024-01-01T00:00:00", "85", "5.0", "1.0", "0.5", "north"},
			{"2024-01-01T00:00:02", "70.00", "5.0", "1.0", "0.5", "south"},
		},
	}

	out, err := c.Annotate(ds)
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	wantCols := []string{"timestamp", "temperature", "voltage", "current", "vibration", "site", "fault_status"}
	if !reflect.DeepEqual(out.Columns, wantCols) {
		t.Fatalf("unexpected columns %v", out.Columns)
	}
	want := [][]string{
		{"2024-01-01T00:00:00", "85", "5.0", "1.0", "0.5", "north", "Overheat"},
		{"2024-01-01T00:00:02", "70.00", "5.0", "1.0", "0.5", "south", "OK"},
	}
	if !reflect.DeepEqual(out.Records(), want) {
		t.Fatalf("unexpected records %v", out.Records())
	}
	if out.Rows[0].Reading.Extra["site"] != "north" || out.Rows[0].Reading.Extra["timestamp"] != "2024-01-01T00:00:00" {
		t.Fatalf("expected passthrough columns in Extra, got %v", out.Rows[0].Reading.Extra)
	}
	if out.Faulty() != 1 || out.LabelCounts()[LabelOverheat] != 1 {
		t.Fatalf("unexpected summary faulty=%d labels=%v", out.Faulty(), out.LabelCounts())
	}
	if len(ds.Columns) != 6 {
		t.Fatalf("input columns must not be mutated")
	}
}

func TestAnnotateOverwritesExistingStatusColumn(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	ds := &Dataset{
		Columns: []string{"temperature", "fault_status", "voltage", "current", "vibration"},
		Records: [][]string{{"90", "stale", "5", "1", "1"}},
	}

	out, err := c.Annotate(ds)
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if len(out.Columns) != 5 {
		t.Fatalf("expected fault_status to be reused, got %v", out.Columns)
	}
	if got := out.Rows[0].Record[1]; got != "Overheat" {
		t.Fatalf("expected stale status to be replaced, got %q", got)
	}
}

func TestAnnotateIsAllOrNothing(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	ds := &Dataset{
		Columns: []string{"temperature", "voltage", "current", "vibration"},
		Records: [][]string{
			{"10", "5", "1", "1"},
			{"10", "5", "", "1"},
		},
	}

	out, err := c.Annotate(ds)
	if out != nil {
		t.Fatalf("expected no partial result")
	}
	var malformed *MalformedRowError
	if !errors.As(err, &malformed) || malformed.Row != 1 || malformed.Field != SensorCurrent {
		t.Fatalf("expected malformed row 1 current, got %v", err)
	}
}

func TestFaultStatusLabels(t *testing.T) {
	if StatusOK.Labels() != nil {
		t.Fatalf("OK must have no labels")
	}
	got := FaultStatus("Overcurrent, Excess vibration").Labels()
	if !reflect.DeepEqual(got, []string{LabelOvercurrent, LabelExcessVibration}) {
		t.Fatalf("unexpected labels %v", got)
	}
}

func TestDatasetMissingColumns(t *testing.T) {
	ds := &Dataset{Columns: []string{"temperature", "current"}}
	if got := ds.MissingColumns(); !reflect.DeepEqual(got, []string{SensorVoltage, SensorVibration}) {
		t.Fatalf("unexpected missing columns %v", got)
	}
}

func TestAnnotateRejectsRowsNotMatchingHeader(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	columns := []string{"temperature", "voltage", "current", "vibration", "site"}

	cases := map[string][]string{
		"extra cell":   {"70", "5", "1", "0.5", "north", "EXTRA"},
		"missing cell": {"70", "5", "1", "0.5"},
	}
	for name, bad := range cases {
		t.Run(name, func(t *testing.T) {
			ds := &Dataset{
				Columns: columns,
				Records: [][]string{{"70", "5", "1", "0.5", "south"}, bad},
			}
			out, err := c.Annotate(ds)
			if out != nil {
				t.Fatalf("expected no partial result, got %+v", out)
			}
			var malformed *MalformedRowError
			if !errors.As(err, &malformed) || !errors.Is(err, ErrFieldCount) {
				t.Fatalf("expected field count error, got %v", err)
			}
			if malformed.Row != 1 || malformed.Field != "" {
				t.Fatalf("unexpected error detail: %+v", malformed)
			}
		})
	}
}
