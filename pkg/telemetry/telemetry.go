// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

// Package telemetry holds the internal metrics of the decoder, registered on
// a package-level prometheus registry.
package telemetry

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

var (
	registryMu sync.Mutex
	registry   = prometheus.NewRegistry()
)

// Registry returns the registry holding every metric of this package.
func Registry() *prometheus.Registry {
	registryMu.Lock()
	defer registryMu.Unlock()
	return registry
}

// Gather exposes the current value of every metric.
func Gather() ([]*dto.MetricFamily, error) {
	return Registry().Gather()
}

// register adds c to the registry. Metrics are created at package init by
// their users; registering the same metric twice returns the existing one.
func register[C prometheus.Collector](c C) C {
	registryMu.Lock()
	defer registryMu.Unlock()

	if err := registry.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// metricName prefixes name with the separator producing
// "<subsystem>__<name>" once joined by prometheus.
func metricName(name string) string {
	return "_" + name
}

// Counter tracks how many times something happened, per tag values.
type Counter interface {
	// Inc increments the counter for the given tag values.
	Inc(tagsValue ...string)
	// Add adds value to the counter for the given tag values.
	Add(value float64, tagsValue ...string)
	// WithValues returns the SimpleCounter for the given tag values.
	WithValues(tagsValue ...string) SimpleCounter
}

// SimpleCounter is a counter without tags.
type SimpleCounter interface {
	Inc()
	Add(float64)
	// Get returns the current value.
	Get() float64
}

// SimpleHistogram tracks the distribution of an observed value.
type SimpleHistogram interface {
	Observe(value float64)
}

type promCounter struct {
	pc *prometheus.CounterVec
}

// NewCounter creates a Counter named "<subsystem>__<name>" with the given tags.
func NewCounter(subsystem, name string, tags []string, help string) Counter {
	c := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      metricName(name),
			Help:      help,
		},
		tags,
	)
	return &promCounter{pc: register(c)}
}

func (c *promCounter) Inc(tagsValue ...string) {
	c.pc.WithLabelValues(tagsValue...).Inc()
}

func (c *promCounter) Add(value float64, tagsValue ...string) {
	c.pc.WithLabelValues(tagsValue...).Add(value)
}

func (c *promCounter) WithValues(tagsValue ...string) SimpleCounter {
	return &simplePromCounter{c: c.pc.WithLabelValues(tagsValue...)}
}

type simplePromCounter struct {
	c prometheus.Counter
}

// NewSimpleCounter creates a SimpleCounter named "<subsystem>__<name>".
func NewSimpleCounter(subsystem, name, help string) SimpleCounter {
	return NewCounter(subsystem, name, nil, help).WithValues()
}

func (s *simplePromCounter) Inc() { s.c.Inc() }

func (s *simplePromCounter) Add(v float64) { s.c.Add(v) }

func (s *simplePromCounter) Get() float64 {
	var m dto.Metric
	if err := s.c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

type simplePromHistogram struct {
	h prometheus.Histogram
}

// NewSimpleHistogram creates a SimpleHistogram named "<subsystem>__<name>".
// nil buckets selects prometheus.DefBuckets.
func NewSimpleHistogram(subsystem, name, help string, buckets []float64) SimpleHistogram {
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Subsystem: subsystem,
		Name:      metricName(name),
		Help:      help,
		Buckets:   buckets,
	})
	return &simplePromHistogram{h: register(h)}
}

func (s *simplePromHistogram) Observe(value float64) { s.h.Observe(value) }
