// Package metrics: 출석부 변경/저장/가져오기 통계를 Prometheus 카운터로 수집합니다.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "chulseuk"

// 가져오기 결과 라벨
const (
	ImportApplied   = "applied"
	ImportRejected  = "rejected"
	ImportPreviewed = "previewed"
)

// Metrics: 서비스 전용 레지스트리와 카운터 묶음
// roster.Recorder를 구현한다.
type Metrics struct {
	registry *prometheus.Registry

	mutations      *prometheus.CounterVec
	persistFailure *prometheus.CounterVec
	imports        *prometheus.CounterVec
	notifications  prometheus.Counter
	members        prometheus.Gauge
}

// New: 새 레지스트리에 카운터와 Go 런타임 수집기를 등록합니다.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roster_mutations_total",
			Help:      "Number of applied roster mutations by operation.",
		}, []string{"op"}),
		persistFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roster_persist_failures_total",
			Help:      "Number of failed roster persistence writes by operation.",
		}, []string{"op"}),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roster_imports_total",
			Help:      "Number of roster import attempts by result.",
		}, []string{"result"}),
		notifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_dispatched_total",
			Help:      "Number of bulk SMS intents dispatched.",
		}),
		members: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "roster_members",
			Help:      "Current number of members in the roster.",
		}),
	}

	m.registry.MustRegister(
		m.mutations,
		m.persistFailure,
		m.imports,
		m.notifications,
		m.members,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) MutationApplied(op string) {
	m.mutations.WithLabelValues(op).Inc()
}

func (m *Metrics) PersistFailed(op string) {
	m.persistFailure.WithLabelValues(op).Inc()
}

// ImportAttempted: 가져오기 결과(ImportApplied 등)를 기록합니다.
func (m *Metrics) ImportAttempted(result string) {
	m.imports.WithLabelValues(result).Inc()
}

func (m *Metrics) NotificationDispatched() {
	m.notifications.Inc()
}

// SetMembers: 현재 명단 인원을 기록합니다.
func (m *Metrics) SetMembers(n int) {
	m.members.Set(float64(n))
}

// Handler: /metrics 응답 핸들러
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
