package bridge

import (
	"sync"
	"time"
)

// MetricsTracker tracks tool-invocation metrics per route and tool.
type MetricsTracker struct {
	metrics map[string]*InvocationMetrics
	mu      sync.RWMutex
}

// NewMetricsTracker creates a new metrics tracker.
func NewMetricsTracker() *MetricsTracker {
	return &MetricsTracker{
		metrics: make(map[string]*InvocationMetrics),
	}
}

// Track records a tool invocation.
func (mt *MetricsTracker) Track(route, toolName string, success bool, durationMs float64) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	key := route + ":" + toolName

	m, exists := mt.metrics[key]
	if !exists {
		m = &InvocationMetrics{
			Route: route,
			Tool:  toolName,
		}
		mt.metrics[key] = m
	}

	m.TotalRequests++
	if success {
		m.SuccessCount++
	} else {
		m.FailureCount++
	}

	// Running average
	m.AverageResponseTime = (m.AverageResponseTime*float64(m.TotalRequests-1) + durationMs) / float64(m.TotalRequests)
	m.LastRequestAt = time.Now().UnixMilli()
}

// GetMetrics returns a snapshot of all metrics.
func (mt *MetricsTracker) GetMetrics() []InvocationMetrics {
	mt.mu.RLock()
	defer mt.mu.RUnlock()

	result := make([]InvocationMetrics, 0, len(mt.metrics))
	for _, m := range mt.metrics {
		result = append(result, *m)
	}
	return result
}

// GetMetricsFor returns metrics for one route/tool pair, or nil if the pair
// has never been invoked.
func (mt *MetricsTracker) GetMetricsFor(route, toolName string) *InvocationMetrics {
	mt.mu.RLock()
	defer mt.mu.RUnlock()

	m, exists := mt.metrics[route+":"+toolName]
	if !exists {
		return nil
	}

	result := *m
	return &result
}
