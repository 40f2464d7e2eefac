package domain

// ThresholdRule is an immutable pair of optional bounds for one sensor.
type ThresholdRule struct {
	lo, hi       float64
	hasLo, hasHi bool
}

// Bounds builds a rule with both a lower and an upper bound.
func Bounds(lo, hi float64) ThresholdRule {
	return ThresholdRule{lo: lo, hi: hi, hasLo: true, hasHi: true}
}

// MaxOnly builds a rule with only an upper bound.
func MaxOnly(hi float64) ThresholdRule {
	return ThresholdRule{hi: hi, hasHi: true}
}

// MinOnly builds a rule with only a lower bound.
func MinOnly(lo float64) ThresholdRule {
	return ThresholdRule{lo: lo, hasLo: true}
}

func (r ThresholdRule) Min() (float64, bool) { return r.lo, r.hasLo }
func (r ThresholdRule) Max() (float64, bool) { return r.hi, r.hasHi }

// ThresholdTable maps sensor names to their safe-range rule. It is built once
// and never mutated.
type ThresholdTable struct {
	rules map[string]ThresholdRule
}

// NewThresholdTable copies rules into a new table.
func NewThresholdTable(rules map[string]ThresholdRule) ThresholdTable {
	cp := make(map[string]ThresholdRule, len(rules))
	for k, v := range rules {
		cp[k] = v
	}
	return ThresholdTable{rules: cp}
}

// DefaultThresholds returns the fixed safety bounds. The temperature, current
// and vibration minimums and the voltage maximum are carried but not enforced
// by the classifier.
func DefaultThresholds() ThresholdTable {
	return NewThresholdTable(map[string]ThresholdRule{
		SensorTemperature: Bounds(0, 80),
		SensorVoltage:     Bounds(4.5, 5.5),
		SensorCurrent:     Bounds(0.8, 1.2),
		SensorVibration:   Bounds(0, 1.5),
	})
}

// BoundsFor returns the rule for sensor, if any.
func (t ThresholdTable) BoundsFor(sensor string) (ThresholdRule, bool) {
	r, ok := t.rules[sensor]
	return r, ok
}

// Len returns the number of sensors with a rule.
func (t ThresholdTable) Len() int { return len(t.rules) }
