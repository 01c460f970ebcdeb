package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStockMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStockMetrics(reg)

	m.IncConsumption("Detergent")
	m.IncConsumption("Detergent")
	m.IncRestock("Soap")
	m.IncAlertOpened("critical")
	m.AddAlertsResolved(3)

	if got := testutil.ToFloat64(m.consumptions.WithLabelValues("Detergent")); got != 2 {
		t.Fatalf("expected 2 consumptions, got %v", got)
	}
	if got := testutil.ToFloat64(m.restocks.WithLabelValues("Soap")); got != 1 {
		t.Fatalf("expected 1 restock, got %v", got)
	}
	if got := testutil.ToFloat64(m.alertsOpened.WithLabelValues("critical")); got != 1 {
		t.Fatalf("expected 1 alert opened, got %v", got)
	}
	if got := testutil.ToFloat64(m.alertsResolved); got != 3 {
		t.Fatalf("expected 3 alerts resolved, got %v", got)
	}
}

func TestNilRegistererIsSafe(t *testing.T) {
	m := NewStockMetrics(nil)
	m.IncConsumption("Bleach")
	m.IncRestock("")
	m.IncAlertOpened("warning")
	m.AddAlertsResolved(1)
}
