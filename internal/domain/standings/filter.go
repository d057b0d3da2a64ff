package standings

// Filter is a pure predicate over a computed record. A nil Filter accepts
// every record.
type Filter func(Record) bool

func (f Filter) accepts(r Record) bool { return f == nil || f(r) }

// AtLeast accepts records whose metric is present and >= threshold.
func AtLeast(metricName string, threshold float64) Filter {
	return func(r Record) bool {
		v := r.Metric(metricName)
		return v.Valid && v.Number >= threshold
	}
}

// GreaterThan accepts records whose metric is present and > threshold.
func GreaterThan(metricName string, threshold float64) Filter {
	return func(r Record) bool {
		v := r.Metric(metricName)
		return v.Valid && v.Number > threshold
	}
}

// MinimumDebates accepts records that have missed at most missable of
// totalRounds, counted by metricName.
func MinimumDebates(metricName string, totalRounds, missable int) Filter {
	return AtLeast(metricName, float64(totalRounds-missable))
}

// All accepts a record only if every non-nil filter does.
func All(filters ...Filter) Filter {
	return func(r Record) bool {
		for _, f := range filters {
			if !f.accepts(r) {
				return false
			}
		}
		return true
	}
}
