package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "specpress"

// PrometheusRecorder implements Recorder on a Prometheus registry.
type PrometheusRecorder struct {
	files    *prom.CounterVec
	runs     *prom.CounterVec
	duration prom.Histogram
	pruned   prom.Counter
}

// NewPrometheusRecorder creates the collectors and registers them on reg.
// A nil reg uses a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &PrometheusRecorder{
		files: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "import_files_total",
			Help:      "Source files processed by import, by status",
		}, []string{"status"}),
		runs: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "import_runs_total",
			Help:      "Import runs, by outcome",
		}, []string{"outcome"}),
		duration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "import_duration_seconds",
			Help:      "Duration of full import runs",
			Buckets:   prom.ExponentialBuckets(0.005, 2, 12),
		}),
		pruned: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "import_pruned_total",
			Help:      "Index entries removed because their source file is gone",
		}),
	}
	reg.MustRegister(r.files, r.runs, r.duration, r.pruned)
	return r
}

func (r *PrometheusRecorder) IncFileResult(status string) {
	r.files.WithLabelValues(status).Inc()
}

func (r *PrometheusRecorder) IncImportRun(outcome string) {
	r.runs.WithLabelValues(outcome).Inc()
}

func (r *PrometheusRecorder) ObserveImportDuration(d time.Duration) {
	r.duration.Observe(d.Seconds())
}

func (r *PrometheusRecorder) AddPruned(n int) {
	if n > 0 {
		r.pruned.Add(float64(n))
	}
}

// HTTPHandler serves the metrics gathered by reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
