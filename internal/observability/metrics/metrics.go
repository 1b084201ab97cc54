package metrics

import "github.com/prometheus/client_golang/prometheus"

// PipelineMetrics exposes counters/gauges for the lead submission pipeline.
type PipelineMetrics struct {
	submissionsTotal    *prometheus.CounterVec
	insertAttemptsTotal prometheus.Counter
	offlineQueueDepth   prometheus.Gauge
	offlineReplayed     *prometheus.CounterVec
	submitDuration      prometheus.Histogram
}

func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	m := &PipelineMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flor",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Total lead submissions by outcome",
		}, []string{"outcome"}),
		insertAttemptsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flor",
			Subsystem: "leads",
			Name:      "insert_attempts_total",
			Help:      "Total remote insert attempts, including retries",
		}),
		offlineQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flor",
			Subsystem: "leads",
			Name:      "offline_queue_depth",
			Help:      "Entries currently waiting in the offline queue",
		}),
		offlineReplayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flor",
			Subsystem: "leads",
			Name:      "offline_replayed_total",
			Help:      "Offline queue replay results",
		}, []string{"result"}),
		submitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flor",
			Subsystem: "leads",
			Name:      "submit_duration_seconds",
			Help:      "End-to-end latency of one submission cycle",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.insertAttemptsTotal, m.offlineQueueDepth, m.offlineReplayed, m.submitDuration)
	return m
}

func (m *PipelineMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *PipelineMetrics) ObserveInsertAttempt() {
	if m == nil {
		return
	}
	m.insertAttemptsTotal.Inc()
}

func (m *PipelineMetrics) SetOfflineQueueDepth(depth int) {
	if m == nil {
		return
	}
	m.offlineQueueDepth.Set(float64(depth))
}

func (m *PipelineMetrics) ObserveReplay(result string) {
	if m == nil {
		return
	}
	m.offlineReplayed.WithLabelValues(result).Inc()
}

func (m *PipelineMetrics) ObserveSubmitDuration(seconds float64) {
	if m == nil {
		return
	}
	m.submitDuration.Observe(seconds)
}
