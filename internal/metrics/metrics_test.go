package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.Calculations.WithLabelValues(CalculationOK).Inc()
	m.Calculations.WithLabelValues(CalculationOK).Inc()
	m.Deliveries.WithLabelValues("failed").Inc()

	if got := testutil.ToFloat64(m.Calculations.WithLabelValues(CalculationOK)); got != 2 {
		t.Errorf("calculations ok = %v, want 2", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`dilutionwise_calculations_total{outcome="ok"} 2`,
		`dilutionwise_report_deliveries_total{status="failed"} 1`,
		"dilutionwise_deliveries_pruned_total 0",
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNew_IndependentRegistries(t *testing.T) {
	// Registering twice on the global registry would panic; separate
	// instances must not.
	a, b := New(), New()
	a.DeliveriesPruned.Add(3)
	if got := testutil.ToFloat64(b.DeliveriesPruned); got != 0 {
		t.Errorf("registries share state: %v", got)
	}
}
