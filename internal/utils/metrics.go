package utils

import (
	"sync"
	"time"
)

// Tracks request metrics across the client
type MetricsCollector struct {
	mu           sync.RWMutex
	requestCount uint64
	errorCount   uint64

	// Maps endpoint name to list of latencies in nanoseconds
	endpointTimes map[string][]int64

	startTime time.Time
}

type EndpointStats struct {
	Requests       int
	AverageLatency time.Duration
}

type MetricsSnapshot struct {
	Requests  uint64
	Errors    uint64
	Uptime    time.Duration
	Endpoints map[string]EndpointStats
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		endpointTimes: make(map[string][]int64),
		startTime:     time.Now(),
	}
}

// RecordRequest tracks one completed request against an endpoint.
func (mc *MetricsCollector) RecordRequest(endpoint string, duration time.Duration, err error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.requestCount++
	if err != nil {
		mc.errorCount++
	}
	mc.endpointTimes[endpoint] = append(mc.endpointTimes[endpoint], duration.Nanoseconds())
}

func (mc *MetricsCollector) Snapshot() MetricsSnapshot {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	snap := MetricsSnapshot{
		Requests:  mc.requestCount,
		Errors:    mc.errorCount,
		Uptime:    time.Since(mc.startTime),
		Endpoints: make(map[string]EndpointStats, len(mc.endpointTimes)),
	}
	for endpoint, times := range mc.endpointTimes {
		var total int64
		for _, t := range times {
			total += t
		}
		avg := time.Duration(0)
		if len(times) > 0 {
			avg = time.Duration(total / int64(len(times)))
		}
		snap.Endpoints[endpoint] = EndpointStats{
			Requests:       len(times),
			AverageLatency: avg,
		}
	}
	return snap
}
