// Package metrics exports report generation metrics to Prometheus.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for generated reports.
const (
	OutcomeGenerated = "generated"
	OutcomeCached    = "cached"
	OutcomeInvalid   = "invalid"
	OutcomeNotFound  = "not_found"
	OutcomeError     = "error"
)

// Observer records report service activity.
type Observer struct {
	duration *prometheus.HistogramVec
	reports  *prometheus.CounterVec
	classes  *prometheus.CounterVec
}

// NewObserver registers the report metrics on reg, reusing collectors that
// are already registered. A nil reg uses the default registerer.
func NewObserver(namespace string, reg prometheus.Registerer) (*Observer, error) {
	if namespace == "" {
		namespace = "innerscope"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	o := &Observer{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_duration_seconds",
			Help:      "Time spent producing a report, including cache lookups.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"entry"}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Report requests by entry point and outcome.",
		}, []string{"entry", "outcome"}),
		classes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_classifications_total",
			Help:      "Generated reports by data classification.",
		}, []string{"classification"}),
	}

	var err error
	if o.duration, err = register(reg, o.duration); err != nil {
		return nil, fmt.Errorf("register report histogram: %w", err)
	}
	if o.reports, err = register(reg, o.reports); err != nil {
		return nil, fmt.Errorf("register report counter: %w", err)
	}
	if o.classes, err = register(reg, o.classes); err != nil {
		return nil, fmt.Errorf("register classification counter: %w", err)
	}
	return o, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return c, err
}

// ObserveReport records one request. classification is empty unless a report
// was produced.
func (o *Observer) ObserveReport(entry, outcome, classification string, d time.Duration) {
	if o == nil {
		return
	}
	o.duration.WithLabelValues(entry).Observe(d.Seconds())
	o.reports.WithLabelValues(entry, outcome).Inc()
	if classification != "" {
		o.classes.WithLabelValues(classification).Inc()
	}
}
