// Package profiler times the stages of a cropping run and tracks custom
// per-frame metrics.
package profiler

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// MetricsCollector defines the interface for collecting custom metrics.
type MetricsCollector interface {
	CollectMetrics() map[string]float64
}

// RuntimeProfiler records operation timings and custom metric samples.
//
// It is safe for concurrent use, so scan workers may record into one
// profiler.
type RuntimeProfiler struct {
	mu         sync.RWMutex
	startTime  time.Time
	maxSamples int

	customMetrics  map[string]*MetricTracker
	collectors     []MetricsCollector
	operationTimes map[string]*TimeTracker
}

// MetricTracker tracks statistics for a custom metric.
type MetricTracker struct {
	name   string
	values []float64
	sum    float64
	min    float64
	max    float64
	count  int64
}

// TimeTracker tracks operation timing statistics.
type TimeTracker struct {
	name      string
	durations []time.Duration
	totalTime time.Duration
	minTime   time.Duration
	maxTime   time.Duration
	count     int64
}

// ProfilingOptions configures the runtime profiler.
type ProfilingOptions struct {
	// MaxSamples is the number of samples kept per metric (default: 600).
	MaxSamples int
}

// OperationStats summarizes the timings of one operation.
type OperationStats struct {
	Name  string
	Count int64
	Total time.Duration
	Avg   time.Duration
	Min   time.Duration
	Max   time.Duration
}

// MetricStats summarizes the samples of one custom metric.
type MetricStats struct {
	Name  string
	Count int64
	Avg   float64
	Min   float64
	Max   float64
}

// NewRuntimeProfiler creates a new runtime profiler with the specified options.
//
// Arguments:
// - opts: Configuration options for the profiler
//
// Returns:
// - A configured RuntimeProfiler instance
func NewRuntimeProfiler(opts ProfilingOptions) *RuntimeProfiler {
	if opts.MaxSamples <= 0 {
		opts.MaxSamples = 600
	}
	return &RuntimeProfiler{
		startTime:      time.Now(),
		maxSamples:     opts.MaxSamples,
		customMetrics:  make(map[string]*MetricTracker),
		operationTimes: make(map[string]*TimeTracker),
	}
}

// AddMetricsCollector registers a collector polled by Collect.
func (rp *RuntimeProfiler) AddMetricsCollector(collector MetricsCollector) {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	rp.collectors = append(rp.collectors, collector)
}

// Collect polls every registered collector once and records its metrics.
func (rp *RuntimeProfiler) Collect() {
	rp.mu.RLock()
	collectors := append([]MetricsCollector(nil), rp.collectors...)
	rp.mu.RUnlock()

	for _, c := range collectors {
		for name, value := range c.CollectMetrics() {
			rp.RecordMetric(name, value)
		}
	}
}

// RecordMetric records a custom metric value.
//
// Arguments:
// - name: The name of the metric
// - value: The metric value to record
func (rp *RuntimeProfiler) RecordMetric(name string, value float64) {
	rp.mu.Lock()
	defer rp.mu.Unlock()

	tracker, exists := rp.customMetrics[name]
	if !exists {
		tracker = &MetricTracker{
			name:   name,
			values: make([]float64, 0, rp.maxSamples),
			min:    value,
			max:    value,
		}
		rp.customMetrics[name] = tracker
	}

	tracker.values = append(tracker.values, value)
	if len(tracker.values) > rp.maxSamples {
		// Remove oldest sample
		tracker.sum -= tracker.values[0]
		tracker.values = tracker.values[1:]
	}
	tracker.sum += value
	tracker.count++
	tracker.min = min(tracker.min, value)
	tracker.max = max(tracker.max, value)
}

// StartOperation begins timing an operation.
//
// Arguments:
// - name: The name of the operation to track
//
// Returns:
// - A function to call when the operation completes
func (rp *RuntimeProfiler) StartOperation(name string) func() {
	start := time.Now()
	return func() {
		rp.recordOperationTime(name, time.Since(start))
	}
}

func (rp *RuntimeProfiler) recordOperationTime(name string, duration time.Duration) {
	rp.mu.Lock()
	defer rp.mu.Unlock()

	tracker, exists := rp.operationTimes[name]
	if !exists {
		tracker = &TimeTracker{
			name:    name,
			minTime: duration,
			maxTime: duration,
		}
		rp.operationTimes[name] = tracker
	}

	tracker.durations = append(tracker.durations, duration)
	if len(tracker.durations) > rp.maxSamples {
		tracker.totalTime -= tracker.durations[0]
		tracker.durations = tracker.durations[1:]
	}
	tracker.totalTime += duration
	tracker.count++
	tracker.minTime = min(tracker.minTime, duration)
	tracker.maxTime = max(tracker.maxTime, duration)
}

// Operations returns the timing statistics of every operation, sorted by name.
func (rp *RuntimeProfiler) Operations() []OperationStats {
	rp.mu.RLock()
	defer rp.mu.RUnlock()

	out := make([]OperationStats, 0, len(rp.operationTimes))
	for name, t := range rp.operationTimes {
		if len(t.durations) == 0 {
			continue
		}
		out = append(out, OperationStats{
			Name:  name,
			Count: t.count,
			Total: t.totalTime,
			Avg:   t.totalTime / time.Duration(len(t.durations)),
			Min:   t.minTime,
			Max:   t.maxTime,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Metrics returns the statistics of every custom metric, sorted by name.
func (rp *RuntimeProfiler) Metrics() []MetricStats {
	rp.mu.RLock()
	defer rp.mu.RUnlock()

	out := make([]MetricStats, 0, len(rp.customMetrics))
	for name, t := range rp.customMetrics {
		if len(t.values) == 0 {
			continue
		}
		out = append(out, MetricStats{
			Name:  name,
			Count: t.count,
			Avg:   t.sum / float64(len(t.values)),
			Min:   t.min,
			Max:   t.max,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Report logs the collected statistics at debug level.
func (rp *RuntimeProfiler) Report(log logrus.FieldLogger) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	log.WithFields(logrus.Fields{
		"function":   "Report",
		"uptime":     time.Since(rp.startTime).Truncate(time.Millisecond),
		"heap_alloc": formatBytes(mem.HeapAlloc),
		"gc_cycles":  mem.NumGC,
	}).Debug("Runtime profile")

	for _, op := range rp.Operations() {
		log.WithFields(logrus.Fields{
			"function":  "Report",
			"operation": op.Name,
			"count":     op.Count,
			"total":     op.Total.Truncate(time.Microsecond),
			"avg":       op.Avg.Truncate(time.Microsecond),
			"min":       op.Min.Truncate(time.Microsecond),
			"max":       op.Max.Truncate(time.Microsecond),
		}).Debug("Operation timing")
	}
	for _, m := range rp.Metrics() {
		log.WithFields(logrus.Fields{
			"function": "Report",
			"metric":   m.Name,
			"samples":  m.Count,
			"avg":      m.Avg,
			"min":      m.Min,
			"max":      m.Max,
		}).Debug("Custom metric")
	}
}

// formatBytes formats byte counts in human-readable format.
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
