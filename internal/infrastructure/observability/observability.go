package observability

import (
	"github.com/Zhima-Mochi/minishop-payorder/internal/observability"
)

// Options carries the vendor-backed instruments. Missing parts fall back to no-ops.
type Options struct {
	Tracer     observability.Tracer
	Logger     observability.Logger
	Counters   map[observability.MetricKey]observability.Counter
	Histograms map[observability.MetricKey]observability.Histogram
}

type provider struct {
	tracer  observability.Tracer
	logger  observability.Logger
	metrics observability.Metrics
}

type registeredMetrics struct {
	counters   map[observability.MetricKey]observability.Counter
	histograms map[observability.MetricKey]observability.Histogram
}

func (m *registeredMetrics) Counter(name observability.MetricKey) observability.Counter {
	if c, ok := m.counters[name]; ok && c != nil {
		return c
	}
	return observability.NopCounter()
}

func (m *registeredMetrics) Histogram(name observability.MetricKey) observability.Histogram {
	if h, ok := m.histograms[name]; ok && h != nil {
		return h
	}
	return observability.NopHistogram()
}

// New assembles an Observability provider from the supplied tracer, logger, and metric instruments.
func New(opts Options) observability.Observability {
	p := &provider{
		tracer:  opts.Tracer,
		logger:  opts.Logger,
		metrics: observability.NopMetrics(),
	}
	if p.tracer == nil {
		p.tracer = observability.NopTracer()
	}
	if p.logger == nil {
		p.logger = observability.NopLogger()
	}

	if len(opts.Counters) > 0 || len(opts.Histograms) > 0 {
		m := &registeredMetrics{
			counters:   make(map[observability.MetricKey]observability.Counter, len(opts.Counters)),
			histograms: make(map[observability.MetricKey]observability.Histogram, len(opts.Histograms)),
		}
		for k, v := range opts.Counters {
			if v != nil {
				m.counters[k] = v
			}
		}
		for k, v := range opts.Histograms {
			if v != nil {
				m.histograms[k] = v
			}
		}
		p.metrics = m
	}

	return p
}

func (p *provider) Tracer() observability.Tracer {
	return p.tracer
}

func (p *provider) Logger() observability.Logger {
	return p.logger
}

func (p *provider) Metrics() observability.Metrics {
	return p.metrics
}
