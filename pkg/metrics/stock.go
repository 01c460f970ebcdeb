package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StockMetrics counts stock mutations and alert lifecycle events.
type StockMetrics struct {
	consumptions   *prometheus.CounterVec
	restocks       *prometheus.CounterVec
	alertsOpened   *prometheus.CounterVec
	alertsResolved prometheus.Counter
}

// NewStockMetrics registers the stock metrics on the provided registerer.
func NewStockMetrics(reg prometheus.Registerer) *StockMetrics {
	if reg == nil {
		return &StockMetrics{}
	}
	consumptions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_consumption_total",
		Help: "Recorded consumption events per item.",
	}, []string{"item"})
	restocks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_restock_total",
		Help: "Recorded restock events per item.",
	}, []string{"item"})
	alertsOpened := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_alerts_opened_total",
		Help: "Stock alerts opened, labeled by severity.",
	}, []string{"severity"})
	alertsResolved := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_alerts_resolved_total",
		Help: "Stock alerts resolved by restocking.",
	})
	reg.MustRegister(consumptions, restocks, alertsOpened, alertsResolved)
	return &StockMetrics{
		consumptions:   consumptions,
		restocks:       restocks,
		alertsOpened:   alertsOpened,
		alertsResolved: alertsResolved,
	}
}

// IncConsumption counts one consumption event for the named item.
func (m *StockMetrics) IncConsumption(item string) {
	if m == nil || m.consumptions == nil {
		return
	}
	m.consumptions.WithLabelValues(normalizeLabel(item)).Inc()
}

// IncRestock counts one restock event for the named item.
func (m *StockMetrics) IncRestock(item string) {
	if m == nil || m.restocks == nil {
		return
	}
	m.restocks.WithLabelValues(normalizeLabel(item)).Inc()
}

// IncAlertOpened counts one opened alert with the given severity.
func (m *StockMetrics) IncAlertOpened(severity string) {
	if m == nil || m.alertsOpened == nil {
		return
	}
	m.alertsOpened.WithLabelValues(normalizeLabel(severity)).Inc()
}

// AddAlertsResolved counts alerts resolved by a restock.
func (m *StockMetrics) AddAlertsResolved(count int) {
	if m == nil || m.alertsResolved == nil || count <= 0 {
		return
	}
	m.alertsResolved.Add(float64(count))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
