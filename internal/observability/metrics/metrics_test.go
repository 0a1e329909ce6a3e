package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestConversationMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewConversationMetrics(reg)
	m.ObserveTurn("request_identity", "ok", 0.02)
	m.ObserveFact("date")
	m.ObserveStage("datetime_selected")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if got := counterValue(families, "clinic_dialogue_turns_total"); got != 1 {
		t.Fatalf("expected 1 turn, got %v", got)
	}
	if got := counterValue(families, "clinic_dialogue_facts_merged_total"); got != 1 {
		t.Fatalf("expected 1 fact, got %v", got)
	}
}

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)
	m.ObserveCommit("confirmed")
	m.ObserveCommit("conflict")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if got := counterValue(families, "clinic_booking_commits_total"); got != 2 {
		t.Fatalf("expected 2 commits, got %v", got)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var c *ConversationMetrics
	c.ObserveTurn("a", "b", 0.1)
	c.ObserveFact("date")
	c.ObserveStage("initial")

	var b *BookingMetrics
	b.ObserveCommit("confirmed")
}

func counterValue(families []*dto.MetricFamily, name string) float64 {
	var total float64
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, m := range fam.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}
