package collection

import (
	"math"
	"time"

	"github.com/verandahq/veranda/model"
)

// Aggregate computes every declared metric over the collection in a single
// pass per metric and returns a fully recomputed snapshot. There is no
// incremental update path; collection sizes in this domain are small.
//
// Zero-division policy: rates and averages over an empty set are 0, never
// NaN or Inf.
func Aggregate(entities []model.Entity, metrics []model.MetricDefinition, now time.Time) model.StatisticsSnapshot {
	snap := make(model.StatisticsSnapshot, len(metrics))
	for _, m := range metrics {
		snap[m.ID] = computeMetric(entities, m, now)
	}
	return snap
}

func computeMetric(entities []model.Entity, m model.MetricDefinition, now time.Time) float64 {
	switch m.Type {
	case model.MetricTypeCount:
		return float64(countWhere(entities, m.Where))

	case model.MetricTypeSum:
		var sum float64
		for _, e := range entities {
			if !matchesCondition(e, m.Where) {
				continue
			}
			if v, ok := toFloat(Resolve(e, m.Field)); ok {
				sum += v
			}
		}
		return sum

	case model.MetricTypeRate:
		total := countWhere(entities, m.Where)
		if total == 0 {
			return 0
		}
		matched := countWhere(entities, m.Of)
		return math.Round(float64(matched) / float64(total) * 100)

	case model.MetricTypeAverage:
		var sum float64
		var n int
		for _, e := range entities {
			if !matchesCondition(e, m.Where) {
				continue
			}
			if v, ok := toFloat(Resolve(e, m.Field)); ok {
				sum += v
				n++
			}
		}
		if n == 0 {
			return 0
		}
		return sum / float64(n)

	case model.MetricTypeRecentCount:
		window, err := time.ParseDuration(m.Window)
		if err != nil || window <= 0 {
			return 0
		}
		var n int
		for _, e := range entities {
			t, ok := toTime(Resolve(e, m.Field))
			if !ok {
				continue
			}
			// Trailing window by epoch subtraction, not calendar months.
			age := now.Sub(t)
			if age >= 0 && age <= window {
				n++
			}
		}
		return float64(n)

	default:
		return 0
	}
}

func countWhere(entities []model.Entity, cond *model.MetricCondition) int {
	var n int
	for _, e := range entities {
		if matchesCondition(e, cond) {
			n++
		}
	}
	return n
}

// matchesCondition is exact equality on the field's string form. Unlike
// filter values, metric conditions carry no "all" bypass; a nil condition
// matches everything.
func matchesCondition(e model.Entity, cond *model.MetricCondition) bool {
	if cond == nil {
		return true
	}
	v := Resolve(e, cond.Field)
	if IsAbsent(v) {
		return false
	}
	return stringForm(v) == cond.Equals
}
