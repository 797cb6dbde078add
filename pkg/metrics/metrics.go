// Package metrics collects in-process counters for the report service.
package metrics

import (
	"sync"
	"time"
)

// Metrics is a point-in-time snapshot of the collected counters.
type Metrics struct {
	TotalRequests      int64
	SuccessfulRequests int64
	FailedRequests     int64

	CacheHits   int64
	CacheMisses int64

	Rebuilds        int64
	RebuildFailures int64
	AverageRebuild  time.Duration

	ScenariosSkipped int64

	AverageResponseTime time.Duration
	MaxResponseTime     time.Duration
}

// Collector accumulates counters behind a mutex. It is safe for concurrent
// use by handlers and the report service.
type Collector struct {
	mu        sync.Mutex
	metrics   Metrics
	startTime time.Time

	totalResponseTime time.Duration
	totalRebuildTime  time.Duration
}

// NewCollector creates a Collector.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// RecordRequest records a completed HTTP request.
func (c *Collector) RecordRequest(duration time.Duration, success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics.TotalRequests++
	if success {
		c.metrics.SuccessfulRequests++
	} else {
		c.metrics.FailedRequests++
	}

	c.totalResponseTime += duration
	c.metrics.AverageResponseTime = c.totalResponseTime / time.Duration(c.metrics.TotalRequests)
	if duration > c.metrics.MaxResponseTime {
		c.metrics.MaxResponseTime = duration
	}
}

// RecordCacheHit records a report served from the cache.
func (c *Collector) RecordCacheHit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics.CacheHits++
}

// RecordCacheMiss records a report that had to be rebuilt.
func (c *Collector) RecordCacheMiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics.CacheMisses++
}

// RecordRebuild records one execution of the report builder.
func (c *Collector) RecordRebuild(duration time.Duration, success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics.Rebuilds++
	if !success {
		c.metrics.RebuildFailures++
		return
	}

	c.totalRebuildTime += duration
	completed := c.metrics.Rebuilds - c.metrics.RebuildFailures
	c.metrics.AverageRebuild = c.totalRebuildTime / time.Duration(completed)
}

// RecordScenarioSkipped records a scenario dropped from a report build.
func (c *Collector) RecordScenarioSkipped() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics.ScenariosSkipped++
}

// GetMetrics returns a snapshot of the counters.
func (c *Collector) GetMetrics() Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metrics
}

// Uptime returns how long the collector has been running.
func (c *Collector) Uptime() time.Duration {
	return time.Since(c.startTime)
}

// Stats returns the counters as a map for the /metrics endpoint.
func (c *Collector) Stats() map[string]interface{} {
	m := c.GetMetrics()

	return map[string]interface{}{
		"uptime":              c.Uptime().String(),
		"total_requests":      m.TotalRequests,
		"successful_requests": m.SuccessfulRequests,
		"failed_requests":     m.FailedRequests,
		"cache_hits":          m.CacheHits,
		"cache_misses":        m.CacheMisses,
		"rebuilds":            m.Rebuilds,
		"rebuild_failures":    m.RebuildFailures,
		"average_rebuild_ms":  m.AverageRebuild.Milliseconds(),
		"scenarios_skipped":   m.ScenariosSkipped,
		"average_response_ms": m.AverageResponseTime.Milliseconds(),
		"max_response_ms":     m.MaxResponseTime.Milliseconds(),
	}
}
