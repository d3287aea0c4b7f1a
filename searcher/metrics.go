package searcher

import (
	"sync/atomic"
	"time"
)

// SearchMetrics summarizes one FindMove call.
type SearchMetrics struct {
	StartTime    time.Time
	Duration     time.Duration
	Episodes     int64
	FullPlayouts int64
}

type MetricsCollector interface {
	Start()
	AddEpisode()
	AddFullPlayout()
	Complete() SearchMetrics
}

type metricsCollector struct {
	startTime    time.Time
	episodes     atomic.Int64
	fullPlayouts atomic.Int64
}

func NewMetricsCollector() MetricsCollector {
	return &metricsCollector{}
}

func (m *metricsCollector) Start() {
	m.startTime = time.Now()
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
}

func (m *metricsCollector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *metricsCollector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *metricsCollector) Complete() SearchMetrics {
	return SearchMetrics{
		StartTime:    m.startTime,
		Duration:     time.Since(m.startTime),
		Episodes:     m.episodes.Load(),
		FullPlayouts: m.fullPlayouts.Load(),
	}
}

type noMetricsCollector struct{}

func NewNoMetricsCollector() MetricsCollector {
	return &noMetricsCollector{}
}

func (noMetricsCollector) Start()                  {}
func (noMetricsCollector) AddEpisode()             {}
func (noMetricsCollector) AddFullPlayout()         {}
func (noMetricsCollector) Complete() SearchMetrics { return SearchMetrics{} }
