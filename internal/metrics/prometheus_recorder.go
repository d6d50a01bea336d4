package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	derrors "git.home.luguber.info/inful/ndocs/internal/foundation/errors"
)

const namespace = "ndocs"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	registry      *prom.Registry
	documents     prom.Counter
	links         prom.Counter
	navFiles      *prom.CounterVec
	stageDuration *prom.HistogramVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.once.Do(func() {
		pr.documents = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "documents_converted_total",
			Help:      "Markdown documents converted to HTML",
		})
		pr.links = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "links_rewritten_total",
			Help:      "Link targets changed by the link rewriter",
		})
		pr.navFiles = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "nav_files_total",
			Help:      "Navigation files processed by result",
		}, []string{"result"})
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of convert and prevnext stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		reg.MustRegister(pr.documents, pr.links, pr.navFiles, pr.stageDuration)
	})
	return pr
}

func (p *PrometheusRecorder) IncDocumentsConverted() {
	if p == nil || p.documents == nil {
		return
	}
	p.documents.Inc()
}

func (p *PrometheusRecorder) AddLinksRewritten(n int) {
	if p == nil || p.links == nil || n <= 0 {
		return
	}
	p.links.Add(float64(n))
}

func (p *PrometheusRecorder) IncNavFile(result NavResult) {
	if p == nil || p.navFiles == nil {
		return
	}
	p.navFiles.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if p == nil || p.registry == nil {
		return nil
	}
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "cannot write metrics file").
			WithContext("file", path).
			Build()
	}
	return nil
}
