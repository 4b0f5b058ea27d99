package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestOrderMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOrderMetrics(reg)
	m.IncPlaced(OutcomeSuccess)
	m.IncPlaced(OutcomeSuccess)
	m.IncPlaced(OutcomeFailed)
	m.AddItems("product", 2)
	m.AddItems("event", 3)
	m.AddItems("event", 0)
	m.AddConfirmed(1)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	expectCounter(t, mfs, "orders_placed_total", "outcome", OutcomeSuccess, 2)
	expectCounter(t, mfs, "orders_placed_total", "outcome", OutcomeFailed, 1)
	expectCounter(t, mfs, "order_items_placed_total", "kind", "product", 2)
	expectCounter(t, mfs, "order_items_placed_total", "kind", "event", 3)

	mf := findMetricFamily(mfs, "orders_confirmed_total")
	if mf == nil || mf.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Fatalf("expected orders_confirmed_total=1")
	}
}

func TestGatewayMetricsExportsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewGatewayMetrics(reg)
	m.Observe("capture_order", OutcomeSuccess, 250*time.Millisecond)
	m.Observe("", OutcomeFailed, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	expectCounter(t, mfs, "paypal_requests_total", "operation", "capture_order", 1)
	expectCounter(t, mfs, "paypal_requests_total", "operation", "unknown", 1)

	sum, err := fetchHistogramSum(mfs, "paypal_request_duration_seconds", "operation", "capture_order")
	if err != nil {
		t.Fatalf("fetch duration: %v", err)
	}
	if sum <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", sum)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	NewOrderMetrics(nil).IncPlaced(OutcomeSuccess)
	NewGatewayMetrics(nil).Observe("op", OutcomeSuccess, time.Second)
	NewHTTPMetrics(nil).Observe(http.MethodGet, "/x", 200, time.Second)

	var m *OrderMetrics
	m.AddConfirmed(3)
}

func TestHandlerServesRegisteredMetrics(t *testing.T) {
	reg := NewRegistry()
	NewHTTPMetrics(reg).Observe(http.MethodGet, "/api/products", http.StatusOK, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `http_requests_total{method="GET",route="/api/products",status="200"} 1`) {
		t.Fatalf("expected request counter in exposition:\n%s", body)
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Fatalf("expected go collector metrics")
	}
}

func expectCounter(t *testing.T, mfs []*dto.MetricFamily, name, label, value string, want float64) {
	t.Helper()
	got, err := fetchCounterValue(mfs, name, label, value)
	if err != nil {
		t.Fatalf("fetch %s: %v", name, err)
	}
	if got != want {
		t.Fatalf("expected %s{%s=%q}=%v, got %v", name, label, value, want, got)
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
