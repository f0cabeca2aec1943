package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
)

func TestRecordCacheHit(t *testing.T) {
	cacheHitsTotal.Reset()

	RecordCacheHit("roadmap")

	metric := &dto.Metric{}
	if err := cacheHitsTotal.WithLabelValues("roadmap").Write(metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("Expected counter value 1, got %f", metric.Counter.GetValue())
	}

	RecordCacheHit("roadmap")
	metric = &dto.Metric{}
	if err := cacheHitsTotal.WithLabelValues("roadmap").Write(metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("Expected counter value 2, got %f", metric.Counter.GetValue())
	}
}

func TestRecordCacheMissAndDegraded(t *testing.T) {
	cacheMissesTotal.Reset()
	cacheDegradedTotal.Reset()

	RecordCacheMiss("roadmap_list")
	RecordCacheDegraded("get")
	RecordCacheDegraded("delete")

	metric := &dto.Metric{}
	if err := cacheMissesTotal.WithLabelValues("roadmap_list").Write(metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("Expected 1 miss, got %f", metric.Counter.GetValue())
	}

	metric = &dto.Metric{}
	if err := cacheDegradedTotal.WithLabelValues("get").Write(metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("Expected 1 degraded get, got %f", metric.Counter.GetValue())
	}
}

func TestRecordStoreOperation(t *testing.T) {
	storeOperationsTotal.Reset()

	RecordStoreOperation("bulk_write", "success")
	RecordStoreOperation("bulk_write", "error")
	RecordStoreOperation("bulk_write", "success")

	metric := &dto.Metric{}
	if err := storeOperationsTotal.WithLabelValues("bulk_write", "success").Write(metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("Expected 2 successes, got %f", metric.Counter.GetValue())
	}
}

func TestRecordStoreDuration(t *testing.T) {
	storeOperationDuration.Reset()

	// Histogram recording must not panic; full bucket validation would
	// need prometheus testutil.
	RecordStoreDuration("get", 0.004)
	RecordStoreDuration("get", 0.2)
	RecordStoreDuration("list", 1.5)
}
