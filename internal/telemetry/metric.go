package telemetry

import (
	"strconv"
	"time"

	"trac/config"
	"trac/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric struct
//
// 未啟用 metric 時所有欄位皆為 nil，下方 helper 一律先做 nil 判斷。
type Metric struct {
	HttpRequestsTotal         *prometheus.CounterVec
	HttpRequestDuration       *prometheus.HistogramVec
	ActiveSubscriptions       *prometheus.GaugeVec
	SnapshotDeliveriesTotal   *prometheus.CounterVec
	SnapshotErrorsTotal       *prometheus.CounterVec
	StaleCallbacksTotal       *prometheus.CounterVec
	RecomputeDuration         prometheus.Histogram
	TrackedPersonnel          *prometheus.GaugeVec
	ActiveSessions            prometheus.Gauge
	StatsPublishFailuresTotal *prometheus.CounterVec
	config                    *config.Configuration
}

// NewMetric 建立所有指標
func NewMetric(config *config.Configuration) *Metric {
	if config == nil || !config.Telemetry.Metric.Enabled {
		return &Metric{}
	}
	buckets := prometheus.DefBuckets
	if len(config.Telemetry.Metric.Buckets) > 0 {
		buckets = config.Telemetry.Metric.Buckets
	}
	prefix := config.App.Name + "_"
	return &Metric{
		config: config,
		HttpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricHttpRequestsTotal),
				Help: "Total received API requests",
			},
			labelNames(core.MetricLabelEndpoint, core.MetricLabelStatus),
		),
		HttpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + string(core.MetricHttpRequestDuration),
				Help:    "API request duration (seconds)",
				Buckets: buckets,
			},
			labelNames(core.MetricLabelEndpoint),
		),
		ActiveSubscriptions: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: prefix + string(core.MetricActiveSubscriptions),
				Help: "Open snapshot subscriptions by kind",
			},
			labelNames(core.MetricLabelKind),
		),
		SnapshotDeliveriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricSnapshotDeliveriesTotal),
				Help: "Snapshots applied to session state",
			},
			labelNames(core.MetricLabelKind),
		),
		SnapshotErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricSnapshotErrorsTotal),
				Help: "Snapshot delivery errors (state kept at last known value)",
			},
			labelNames(core.MetricLabelKind),
		),
		StaleCallbacksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricStaleCallbacksTotal),
				Help: "Callbacks discarded because their subscription was superseded",
			},
			labelNames(core.MetricLabelKind),
		),
		RecomputeDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    prefix + string(core.MetricRecomputeDuration),
				Help:    "Org stats recompute duration (seconds)",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
		TrackedPersonnel: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: prefix + string(core.MetricTrackedPersonnel),
				Help: "Personnel records held per organization",
			},
			labelNames(core.MetricLabelOrg),
		),
		ActiveSessions: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: prefix + string(core.MetricActiveSessions),
				Help: "Signed-in observer sessions",
			},
		),
		StatsPublishFailuresTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricStatsPublishFailuresTotal),
				Help: "Failed org stats publications by sink",
			},
			labelNames(core.MetricLabelSink),
		),
	}
}

func (m *Metric) ObserveHttpRequest(endpoint string, status int, d time.Duration) {
	if m == nil || m.HttpRequestsTotal == nil || m.HttpRequestDuration == nil {
		return
	}
	m.HttpRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	m.HttpRequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (m *Metric) SubscriptionOpened(kind core.SubscriptionKind) {
	if m == nil || m.ActiveSubscriptions == nil {
		return
	}
	m.ActiveSubscriptions.WithLabelValues(string(kind)).Inc()
}

func (m *Metric) SubscriptionClosed(kind core.SubscriptionKind) {
	if m == nil || m.ActiveSubscriptions == nil {
		return
	}
	m.ActiveSubscriptions.WithLabelValues(string(kind)).Dec()
}

func (m *Metric) SnapshotDelivered(kind core.SubscriptionKind) {
	if m == nil || m.SnapshotDeliveriesTotal == nil {
		return
	}
	m.SnapshotDeliveriesTotal.WithLabelValues(string(kind)).Inc()
}

func (m *Metric) SnapshotFailed(kind core.SubscriptionKind) {
	if m == nil || m.SnapshotErrorsTotal == nil {
		return
	}
	m.SnapshotErrorsTotal.WithLabelValues(string(kind)).Inc()
}

func (m *Metric) StaleCallback(kind core.SubscriptionKind) {
	if m == nil || m.StaleCallbacksTotal == nil {
		return
	}
	m.StaleCallbacksTotal.WithLabelValues(string(kind)).Inc()
}

func (m *Metric) ObserveRecompute(d time.Duration) {
	if m == nil || m.RecomputeDuration == nil {
		return
	}
	m.RecomputeDuration.Observe(d.Seconds())
}

func (m *Metric) SetTrackedPersonnel(orgID string, n int) {
	if m == nil || m.TrackedPersonnel == nil || orgID == "" {
		return
	}
	m.TrackedPersonnel.WithLabelValues(orgID).Set(float64(n))
}

func (m *Metric) ForgetOrg(orgID string) {
	if m == nil || m.TrackedPersonnel == nil || orgID == "" {
		return
	}
	m.TrackedPersonnel.DeleteLabelValues(orgID)
}

func (m *Metric) SetActiveSessions(n int) {
	if m == nil || m.ActiveSessions == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}

func (m *Metric) PublishFailed(sink string) {
	if m == nil || m.StatsPublishFailuresTotal == nil {
		return
	}
	m.StatsPublishFailuresTotal.WithLabelValues(sink).Inc()
}

// labelNames helper: LabelName slice 轉成 []string
func labelNames(labels ...core.MetricLabelName) []string {
	strs := make([]string, len(labels))
	for i, l := range labels {
		strs[i] = string(l)
	}
	return strs
}
