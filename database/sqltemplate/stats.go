package sqltemplate

import (
	"github.com/fpdb/fpdb/stats"
)

const metricPrefix = "sqltemplate."

type buildStats struct {
	builds          stats.CounterStat
	unknownErrors   stats.CounterStat
	mismatchErrors  stats.CounterStat
	skipped         stats.CounterStat
	elided          stats.CounterStat
	scanCacheHits   stats.CounterStat
	scanCacheMisses stats.CounterStat
	queryBytes      stats.SummaryStat
	argsConsumed    stats.SummaryStat
}

func newBuildStats(factory stats.StatsFactory) *buildStats {
	return &buildStats{
		builds: factory.NewCounter(metricPrefix+"builds", nil),
		unknownErrors: factory.NewCounter(
			metricPrefix+"errors",
			map[string]string{"kind": "unknown_placeholder"}),
		mismatchErrors: factory.NewCounter(
			metricPrefix+"errors",
			map[string]string{"kind": "type_mismatch"}),
		skipped:         factory.NewCounter(metricPrefix+"skipped_placeholders", nil),
		elided:          factory.NewCounter(metricPrefix+"elided_blocks", nil),
		scanCacheHits:   factory.NewCounter(metricPrefix+"scan_cache_hits", nil),
		scanCacheMisses: factory.NewCounter(metricPrefix+"scan_cache_misses", nil),
		queryBytes:      factory.NewSummary(metricPrefix+"query_bytes", nil),
		argsConsumed:    factory.NewSummary(metricPrefix+"args_consumed", nil),
	}
}

func (s *buildStats) recordError(err error) {
	if templateErr, ok := err.(*TemplateError); ok &&
		templateErr.Kind == ErrUnknownPlaceholder {

		s.unknownErrors.Inc()
		return
	}
	s.mismatchErrors.Inc()
}
