package core

import (
	"sort"
	"sync"

	"github.com/huangsam/docname/schema"
)

// StatsCollector accumulates per-file records and counters across workers.
// Accumulation is commutative, so worker interleaving never changes totals.
type StatsCollector struct {
	mu      sync.Mutex
	records []schema.RenameRecord
	stats   schema.RunStats
}

// NewStatsCollector returns an empty collector.
func NewStatsCollector() *StatsCollector {
	return &StatsCollector{}
}

// Add records the outcome of one processed file.
func (c *StatsCollector) Add(rec schema.RenameRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = append(c.records, rec)
	c.stats.Processed++
	switch rec.Outcome {
	case schema.OutcomeRenamed:
		c.stats.Renamed++
	case schema.OutcomeSkipped:
		c.stats.Skipped++
	case schema.OutcomeFailed:
		c.stats.Failed++
	}
	// Cache hits count every record served from the cache, including
	// files that still needed a rename on disk
	if rec.FromCache {
		c.stats.CacheHits++
	}
}

// Snapshot returns the accumulated records sorted by source path plus the
// counter totals.
func (c *StatsCollector) Snapshot() ([]schema.RenameRecord, schema.RunStats) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := make([]schema.RenameRecord, len(c.records))
	copy(records, c.records)
	sort.Slice(records, func(i, j int) bool {
		return records[i].SourcePath < records[j].SourcePath
	})
	return records, c.stats
}
