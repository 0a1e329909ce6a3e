package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters/histograms for dialogue turns.
type ConversationMetrics struct {
	turnsTotal   *prometheus.CounterVec
	turnLatency  *prometheus.HistogramVec
	factsMerged  *prometheus.CounterVec
	stageReached *prometheus.CounterVec
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "dialogue",
			Name:      "turns_total",
			Help:      "Total processed patient turns",
		}, []string{"action", "status"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "dialogue",
			Name:      "turn_latency_seconds",
			Help:      "Latency of turn processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
		factsMerged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "dialogue",
			Name:      "facts_merged_total",
			Help:      "Total facts merged into session state",
		}, []string{"field"}),
		stageReached: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "dialogue",
			Name:      "stage_reached_total",
			Help:      "Total turns ending at each booking stage",
		}, []string{"stage"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.turnLatency, m.factsMerged, m.stageReached)
	return m
}

func (m *ConversationMetrics) ObserveTurn(action, status string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(action, status).Inc()
	m.turnLatency.WithLabelValues(action).Observe(seconds)
}

func (m *ConversationMetrics) ObserveFact(field string) {
	if m == nil {
		return
	}
	m.factsMerged.WithLabelValues(field).Inc()
}

func (m *ConversationMetrics) ObserveStage(stage string) {
	if m == nil {
		return
	}
	m.stageReached.WithLabelValues(stage).Inc()
}

// BookingMetrics exposes counters for booking commits.
type BookingMetrics struct {
	commitsTotal *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		commitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "commits_total",
			Help:      "Total booking commit attempts",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.commitsTotal)
	return m
}

func (m *BookingMetrics) ObserveCommit(outcome string) {
	if m == nil {
		return
	}
	m.commitsTotal.WithLabelValues(outcome).Inc()
}
