package h2pool

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "h2pool"

// Metrics 连接池指标
type Metrics struct {
	// Entries 池中连接数
	Entries prometheus.Gauge

	// Admissions 准入成功次数（含替换）
	Admissions prometheus.Counter

	// Rejections 准入被拒次数，按原因区分
	Rejections *prometheus.CounterVec

	// Replacements 支持推送的连接替换旧连接的次数
	Replacements prometheus.Counter

	// Evictions 查找时驱逐不可用连接的次数
	Evictions prometheus.Counter

	// Reuses 复用池中连接的次数
	Reuses prometheus.Counter

	// Fallbacks 指示回退到 HTTP/1.1 的次数
	Fallbacks prometheus.Counter

	// NegotiationFailures 协商失败次数，按是否为 ALPN 失败区分
	NegotiationFailures *prometheus.CounterVec

	// NegotiationDuration 协商耗时
	NegotiationDuration prometheus.Histogram
}

// 拒绝原因
const (
	rejectClosed   = "closed"
	rejectFinal    = "final"
	rejectStopping = "stopping"
	rejectLostRace = "lost_race"
)

// NewMetrics 创建指标并注册到 reg
//
// reg 为 nil 时指标仍然可用，只是不对外暴露。
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "connections",
			Help:      "Number of pooled HTTP/2 connections.",
		}),
		Admissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "admissions_total",
			Help:      "Connections admitted to the pool.",
		}),
		Rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rejections_total",
			Help:      "Connections refused by the pool.",
		}, []string{"reason"}),
		Replacements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "replacements_total",
			Help:      "Pooled connections replaced by a push-capable connection.",
		}),
		Evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "evictions_total",
			Help:      "Unusable connections evicted on lookup.",
		}),
		Reuses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "reuses_total",
			Help:      "Acquisitions served by a pooled connection.",
		}),
		Fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "fallbacks_total",
			Help:      "Acquisitions resolved to the HTTP/1.1 fallback.",
		}),
		NegotiationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "negotiation_failures_total",
			Help:      "Failed negotiations.",
		}, []string{"kind"}),
		NegotiationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "negotiation_duration_seconds",
			Help:      "Time spent negotiating new HTTP/2 connections.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Entries,
			m.Admissions,
			m.Rejections,
			m.Replacements,
			m.Evictions,
			m.Reuses,
			m.Fallbacks,
			m.NegotiationFailures,
			m.NegotiationDuration,
		)
	}
	return m
}
