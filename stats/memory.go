package stats

import (
	"math"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// MemoryStatsFactory keeps metrics in process memory.  Handles created for the
// same metric and tags share their value.  It is safe for concurrent use.
type MemoryStatsFactory struct {
	mu        sync.Mutex
	counters  map[string]*memoryCounter
	summaries map[string]*memorySummary
}

func NewMemoryStatsFactory() *MemoryStatsFactory {
	return &MemoryStatsFactory{
		counters:  make(map[string]*memoryCounter),
		summaries: make(map[string]*memorySummary),
	}
}

// SummarySnapshot aggregates the observations of a summary.
type SummarySnapshot struct {
	Count int64
	Sum   float64
	Min   float64
	Max   float64
}

// Snapshot is a point in time copy of every metric, keyed by metric name
// followed by its sorted tags, e.g. "builds{kind=ok}".
type Snapshot struct {
	Counters  map[string]float64
	Summaries map[string]SummarySnapshot
}

func (f *MemoryStatsFactory) NewCounter(
	metric string,
	tags map[string]string) CounterStat {

	key := metricKey(metric, tags)
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.counters[key]
	if !ok {
		c = &memoryCounter{}
		f.counters[key] = c
	}
	return c
}

func (f *MemoryStatsFactory) NewSummary(
	metric string,
	tags map[string]string) SummaryStat {

	key := metricKey(metric, tags)
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.summaries[key]
	if !ok {
		s = &memorySummary{}
		f.summaries[key] = s
	}
	return s
}

func (f *MemoryStatsFactory) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := Snapshot{
		Counters:  make(map[string]float64, len(f.counters)),
		Summaries: make(map[string]SummarySnapshot, len(f.summaries)),
	}
	for key, c := range f.counters {
		snap.Counters[key] = c.get()
	}
	for key, s := range f.summaries {
		snap.Summaries[key] = s.get()
	}
	return snap
}

func metricKey(metric string, tags map[string]string) string {
	if len(tags) == 0 {
		return metric
	}
	pairs := make([]string, 0, len(tags))
	for k, v := range tags {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return metric + "{" + strings.Join(pairs, ",") + "}"
}

type memoryCounter struct {
	bits uint64
}

func (c *memoryCounter) Inc() {
	c.Add(1)
}

func (c *memoryCounter) Add(v float64) {
	for {
		old := atomic.LoadUint64(&c.bits)
		updated := math.Float64bits(math.Float64frombits(old) + v)
		if atomic.CompareAndSwapUint64(&c.bits, old, updated) {
			return
		}
	}
}

func (c *memoryCounter) get() float64 {
	return math.Float64frombits(atomic.LoadUint64(&c.bits))
}

type memorySummary struct {
	mu   sync.Mutex
	snap SummarySnapshot
}

func (s *memorySummary) Observe(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap.Count == 0 || v < s.snap.Min {
		s.snap.Min = v
	}
	if s.snap.Count == 0 || v > s.snap.Max {
		s.snap.Max = v
	}
	s.snap.Count++
	s.snap.Sum += v
}

func (s *memorySummary) get() SummarySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}
