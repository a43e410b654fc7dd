package server

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Brownie44l1/webserver/internal/resolve"
	"github.com/Brownie44l1/webserver/internal/response"
)

// Metrics holds server runtime metrics
type Metrics struct {
	RequestsTotal     atomic.Int64
	ActiveConnections atomic.Int64
	Succeeded         atomic.Int64
	Errors4xx         atomic.Int64
	Errors5xx         atomic.Int64
	NoContent         atomic.Int64

	TotalLatencyNs atomic.Int64

	mu         sync.Mutex
	byCategory map[resolve.Category]int64
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{byCategory: make(map[resolve.Category]int64)}
}

// RecordRequest records a completed request. Requests rejected before
// classification are counted under resolve.Invalid.
func (m *Metrics) RecordRequest(category resolve.Category, code response.StatusCode, duration time.Duration) {
	m.RequestsTotal.Add(1)
	m.TotalLatencyNs.Add(duration.Nanoseconds())

	switch {
	case code.IsSuccess():
		m.Succeeded.Add(1)
		if code == response.StatusNoContent {
			m.NoContent.Add(1)
		}
	case code.IsClientError():
		m.Errors4xx.Add(1)
	case code.IsServerError():
		m.Errors5xx.Add(1)
	}

	m.mu.Lock()
	m.byCategory[category]++
	m.mu.Unlock()
}

// AverageLatency returns average request latency
func (m *Metrics) AverageLatency() time.Duration {
	totalReqs := m.RequestsTotal.Load()
	if totalReqs == 0 {
		return 0
	}
	return time.Duration(m.TotalLatencyNs.Load() / totalReqs)
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	RequestsTotal     int64
	ActiveConnections int64
	Succeeded         int64
	Errors4xx         int64
	Errors5xx         int64
	NoContent         int64
	AverageLatency    time.Duration
	ByCategory        map[string]int64
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	byCategory := make(map[string]int64, len(m.byCategory))
	for c, n := range m.byCategory {
		byCategory[c.String()] = n
	}
	m.mu.Unlock()

	return MetricsSnapshot{
		RequestsTotal:     m.RequestsTotal.Load(),
		ActiveConnections: m.ActiveConnections.Load(),
		Succeeded:         m.Succeeded.Load(),
		Errors4xx:         m.Errors4xx.Load(),
		Errors5xx:         m.Errors5xx.Load(),
		NoContent:         m.NoContent.Load(),
		AverageLatency:    m.AverageLatency(),
		ByCategory:        byCategory,
	}
}
