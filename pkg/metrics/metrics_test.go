package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestOrderMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewOrderMetrics(reg)
	if err != nil {
		t.Fatalf("register metrics: %v", err)
	}
	metrics.ObservePlacement("COD", 250*time.Millisecond)
	metrics.IncPlacementFailure("EMPTY_CART")
	metrics.IncCancelled("UPI")
	metrics.IncTransition("")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "orders_placed_total", "payment_method", "COD"); err != nil {
		t.Fatalf("fetch placed: %v", err)
	} else if got != 1 {
		t.Fatalf("expected placed=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "order_placement_failures_total", "code", "EMPTY_CART"); err != nil {
		t.Fatalf("fetch failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failures=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "orders_cancelled_total", "payment_method", "UPI"); err != nil {
		t.Fatalf("fetch cancelled: %v", err)
	} else if got != 1 {
		t.Fatalf("expected cancelled=1, got %f", got)
	}

	if _, err := fetchCounterValue(mfs, "order_status_transitions_total", "to", "unknown"); err != nil {
		t.Fatalf("empty label should normalize to unknown: %v", err)
	}

	if got, err := fetchHistogramSum(mfs, "order_placement_duration_seconds", "payment_method", "COD"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestOrderMetricsDoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewOrderMetrics(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewOrderMetrics(reg); err == nil {
		t.Fatal("expected duplicate registration error")
	}
}

func TestNilRecordersAreNoops(t *testing.T) {
	var orders *OrderMetrics
	orders.ObservePlacement("COD", time.Second)
	orders.IncReturnRequested()

	noop, err := NewOrderMetrics(nil)
	if err != nil {
		t.Fatalf("nil registerer: %v", err)
	}
	noop.IncCancelled("COD")

	var httpMetrics *HTTPMetrics
	httpMetrics.Observe("GET", "/", 200, time.Millisecond)
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	httpMetrics, err := NewHTTPMetrics(reg)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	httpMetrics.Observe("GET", "/product/{slug}/", 200, 10*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/product/{slug}/"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
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
