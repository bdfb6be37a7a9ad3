package metrics_fx

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"muanapay/pkg/metrics"
)

var Module = fx.Provide(
	provideRegistry,
	provideRecorder,
)

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideRecorder(reg *prometheus.Registry) metrics.Recorder {
	return metrics.NewPrometheusRecorder(reg)
}
