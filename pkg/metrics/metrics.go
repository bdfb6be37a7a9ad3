package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "muanapay"

// Recorder counts pipeline outcomes. Labels are small fixed vocabularies.
type Recorder interface {
	SmsIngested(outcome string)
	Enrichment(mode string, result string)
	Verification(status string)
}

type PrometheusRecorder struct {
	smsIngested   *prometheus.CounterVec
	enrichment    *prometheus.CounterVec
	verifications *prometheus.CounterVec
}

func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		smsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sms_ingested_total",
			Help:      "Inbound SMS by ingestion outcome (stored, duplicate, filtered, failed).",
		}, []string{"outcome"}),
		enrichment: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrichment_total",
			Help:      "Language-model enrichment attempts by mode and result.",
		}, []string{"mode", "result"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verifications_total",
			Help:      "Payment verification decisions by final status.",
		}, []string{"status"}),
	}
	reg.MustRegister(r.smsIngested, r.enrichment, r.verifications)
	return r
}

func (r *PrometheusRecorder) SmsIngested(outcome string) {
	r.smsIngested.WithLabelValues(outcome).Inc()
}

func (r *PrometheusRecorder) Enrichment(mode string, result string) {
	r.enrichment.WithLabelValues(mode, result).Inc()
}

func (r *PrometheusRecorder) Verification(status string) {
	r.verifications.WithLabelValues(status).Inc()
}

type NoopRecorder struct{}

func (NoopRecorder) SmsIngested(string)        {}
func (NoopRecorder) Enrichment(string, string) {}
func (NoopRecorder) Verification(string)       {}
