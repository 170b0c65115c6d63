// Package stats defines the metric handles the query builder reports to, so
// that callers can plug in their own metrics backend.
package stats

type CounterStat interface {
	Inc()
	Add(float64)
}

type SummaryStat interface {
	Observe(float64)
}

type StatsFactory interface {
	NewCounter(
		metric string,
		tags map[string]string) CounterStat

	NewSummary(
		metric string,
		tags map[string]string) SummaryStat
}
