package cache

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 汇总缓存命中、未命中与持久层失败次数。nil *Metrics 表示不记录。
type Metrics struct {
	hits        *prometheus.CounterVec
	misses      *prometheus.CounterVec
	expirations prometheus.Counter
	failures    *prometheus.CounterVec
}

// NewMetrics 创建并注册 filecache_* 指标。
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "filecache_hits_total",
			Help: "Cache reads answered with a live entry, by tier.",
		}, []string{"tier"}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "filecache_misses_total",
			Help: "Cache reads that found no usable durable record, by reason.",
		}, []string{"reason"}),
		expirations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "filecache_expirations_total",
			Help: "Entries found expired and purged on read.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "filecache_durable_failures_total",
			Help: "Failed durable writes and removals, by operation.",
		}, []string{"op"}),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.hits, m.misses, m.expirations, m.failures} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register cache metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) hit(status lookupStatus) {
	if m == nil {
		return
	}
	m.hits.WithLabelValues(status.String()).Inc()
}

func (m *Metrics) miss(status lookupStatus) {
	if m == nil {
		return
	}
	m.misses.WithLabelValues(status.String()).Inc()
}

func (m *Metrics) expired() {
	if m == nil {
		return
	}
	m.expirations.Inc()
}

func (m *Metrics) failure(op string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(op).Inc()
}
