// Package metrics 聚合 Prometheus 指标并提供 /metrics 暴露入口。
// 指标命名沿用 meme_ 前缀，便于与历史看板对齐。
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 持有独立的 Registry 与全部采集器，按实例注入而非进程级单例，
// 测试可各自构建互不干扰的实例。
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal   prometheus.Counter
	RequestDuration prometheus.Histogram
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
	CacheHitRate    prometheus.Gauge
	CacheSize       prometheus.Gauge
	TotalMemes      prometheus.Gauge
}

// New 构建并注册所有采集器。
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "meme_requests_total",
			Help: "Total number of meme requests",
		}),
		RequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "meme_request_duration_seconds",
			Help: "Response time for meme requests",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "meme_cache_hits_total",
			Help: "Total number of content cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "meme_cache_misses_total",
			Help: "Total number of content cache misses",
		}),
		CacheHitRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "meme_cache_hit_rate",
			Help: "Content cache hit rate",
		}),
		CacheSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "meme_cache_size",
			Help: "Current number of cached entries",
		}),
		TotalMemes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "meme_total",
			Help: "Number of memes in the index",
		}),
	}

	m.Registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.CacheHits,
		m.CacheMisses,
		m.CacheHitRate,
		m.CacheSize,
		m.TotalMemes,
	)
	return m
}

// Handler 返回标准 promhttp 处理器，由 HTTP 层挂载到 /metrics。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
