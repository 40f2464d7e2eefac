package domain

import (
	"math"
	"strconv"
	"strings"
)

// Required sensor columns every input row must carry.
const (
	SensorTemperature = "temperature"
	SensorVoltage     = "voltage"
	SensorCurrent     = "current"
	SensorVibration   = "vibration"
)

// FaultStatusColumn is the column appended to the annotated output.
const FaultStatusColumn = "fault_status"

// RequiredColumns lists the sensor columns in classification order.
var RequiredColumns = []string{SensorTemperature, SensorVoltage, SensorCurrent, SensorVibration}

// Reading is one row of sensor telemetry. Columns other than the four
// required sensors are kept verbatim in Extra.
type Reading struct {
	Temperature float64           `json:"temperature"`
	Voltage     float64           `json:"voltage"`
	Current     float64           `json:"current"`
	Vibration   float64           `json:"vibration"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// Value returns the numeric value of a required sensor.
func (r Reading) Value(sensor string) (float64, bool) {
	switch sensor {
	case SensorTemperature:
		return r.Temperature, true
	case SensorVoltage:
		return r.Voltage, true
	case SensorCurrent:
		return r.Current, true
	case SensorVibration:
		return r.Vibration, true
	}
	return 0, false
}

// Dataset is an ordered set of raw rows loaded from the input artifact in a
// single cycle. Records hold the original cell text aligned with Columns.
type Dataset struct {
	Columns []string
	Records [][]string
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Reading parses the row at index i.
func (d *Dataset) Reading(i int) (Reading, error) {
	return parseReading(i, columnIndex(d.Columns), d.Columns, d.Records[i])
}

// MissingColumns reports required columns absent from the header.
func (d *Dataset) MissingColumns() []string {
	idx := columnIndex(d.Columns)
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

func columnIndex(columns []string) map[string]int {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := idx[c]; !dup {
			idx[c] = i
		}
	}
	return idx
}

func parseReading(row int, idx map[string]int, columns, record []string) (Reading, error) {
	var (
		r    Reading
		dest = [...]*float64{&r.Temperature, &r.Voltage, &r.Current, &r.Vibration}
	)
	for i, col := range RequiredColumns {
		pos, ok := idx[col]
		if !ok || pos >= len(record) {
			return Reading{}, &MalformedRowError{Row: row, Field: col}
		}
		v, err := parseNumber(record[pos])
		if err != nil {
			return Reading{}, &MalformedRowError{Row: row, Field: col, Value: record[pos], Err: err}
		}
		*dest[i] = v
	}

	for i, col := range columns {
		if isRequired(col) || col == FaultStatusColumn || i >= len(record) {
			continue
		}
		if r.Extra == nil {
			r.Extra = make(map[string]string, len(columns)-len(RequiredColumns))
		}
		r.Extra[col] = record[i]
	}
	return r, nil
}

func parseNumber(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errEmptyValue
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

func isRequired(col string) bool {
	for _, c := range RequiredColumns {
		if c == col {
			return true
		}
	}
	return false
}
