package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPipelineMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPipelineMetrics(reg)

	m.ObserveSubmission("success")
	m.ObserveSubmission("success")
	m.ObserveSubmission("rate_limited")
	m.ObserveInsertAttempt()
	m.SetOfflineQueueDepth(4)
	m.ObserveReplay("delivered")
	m.ObserveSubmitDuration(0.05)

	if got := testutil.ToFloat64(m.submissionsTotal.WithLabelValues("success")); got != 2 {
		t.Errorf("submissions success = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.submissionsTotal.WithLabelValues("rate_limited")); got != 1 {
		t.Errorf("submissions rate_limited = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.offlineQueueDepth); got != 4 {
		t.Errorf("queue depth = %v, want 4", got)
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *PipelineMetrics
	m.ObserveSubmission("success")
	m.ObserveInsertAttempt()
	m.SetOfflineQueueDepth(1)
	m.ObserveReplay("kept")
	m.ObserveSubmitDuration(1)
}
