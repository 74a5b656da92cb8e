// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package metrics exports surface and pump activity as Prometheus metrics.
//
// An Exporter implements both bridge.Observer and pump.Observer, so a single
// value passed as offscreen.Config.Observer instruments every surface:
//
//	reg := prometheus.NewRegistry()
//	exp, err := metrics.NewExporter("offscreen", reg, metrics.Options{})
//	eng, err := offscreen.Start(rt, loop, offscreen.Config{Observer: exp})
package metrics

import (
	"errors"
	"fmt"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/offscreen/bridge"
	"github.com/gogpu/offscreen/pump"
)

// Options controls collector configuration.
type Options struct {
	// IntervalBuckets are the histogram buckets for paint intervals in
	// seconds. Defaults to frame-rate oriented buckets.
	IntervalBuckets []float64

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// DefaultIntervalBuckets cover 240 fps down to one frame per second.
var DefaultIntervalBuckets = []float64{1.0 / 240, 1.0 / 120, 1.0 / 60, 1.0 / 30, 1.0 / 15, 0.25, 0.5, 1}

// Exporter adapts frame and pump notifications to Prometheus collectors.
type Exporter struct {
	framesPainted *prom.CounterVec
	paintRejected *prom.CounterVec
	framesPulled  *prom.CounterVec
	paintInterval *prom.HistogramVec
	pumpSteps     prom.Counter
	pumpLeases    prom.Gauge

	now func() time.Time

	mu        sync.Mutex
	lastPaint map[string]time.Time
}

var (
	_ bridge.Observer = (*Exporter)(nil)
	_ pump.Observer   = (*Exporter)(nil)
)

// NewExporter creates and registers the collectors. Collectors already
// registered under the same names are reused, so several exporters may share
// one registry.
func NewExporter(namespace string, reg prom.Registerer, opts Options) (*Exporter, error) {
	if namespace == "" {
		namespace = "offscreen"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.IntervalBuckets
	if len(buckets) == 0 {
		buckets = DefaultIntervalBuckets
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	painted := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "frames_painted_total",
		Help:      "Frames accepted from the runtime.",
	}, []string{"surface"})
	rejected := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "paints_rejected_total",
		Help:      "Paints dropped by the bridge.",
	}, []string{"surface", "reason"})
	pulled := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "frames_pulled_total",
		Help:      "Frames uploaded into host textures.",
	}, []string{"surface"})
	interval := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "paint_interval_seconds",
		Help:      "Time between consecutive accepted paints.",
		Buckets:   buckets,
	}, []string{"surface"})
	steps := prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "pump_steps_total",
		Help:      "Runtime message loop steps run by the pump.",
	})
	leases := prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "pump_leases",
		Help:      "Surfaces currently holding the pump.",
	})

	var err error
	if painted, err = registerCollector(reg, painted); err != nil {
		return nil, err
	}
	if rejected, err = registerCollector(reg, rejected); err != nil {
		return nil, err
	}
	if pulled, err = registerCollector(reg, pulled); err != nil {
		return nil, err
	}
	if interval, err = registerCollector(reg, interval); err != nil {
		return nil, err
	}
	if steps, err = registerCollector(reg, steps); err != nil {
		return nil, err
	}
	if leases, err = registerCollector(reg, leases); err != nil {
		return nil, err
	}

	return &Exporter{
		framesPainted: painted,
		paintRejected: rejected,
		framesPulled:  pulled,
		paintInterval: interval,
		pumpSteps:     steps,
		pumpLeases:    leases,
		now:           now,
		lastPaint:     make(map[string]time.Time),
	}, nil
}

// FramePainted implements bridge.Observer.
func (e *Exporter) FramePainted(surface string) {
	if e == nil {
		return
	}
	surface = normalizeLabel(surface, "unknown")
	e.framesPainted.WithLabelValues(surface).Inc()

	now := e.now()
	e.mu.Lock()
	last, seen := e.lastPaint[surface]
	e.lastPaint[surface] = now
	e.mu.Unlock()
	if seen {
		e.paintInterval.WithLabelValues(surface).Observe(now.Sub(last).Seconds())
	}
}

// PaintRejected implements bridge.Observer.
func (e *Exporter) PaintRejected(surface, reason string) {
	if e == nil {
		return
	}
	e.paintRejected.WithLabelValues(normalizeLabel(surface, "unknown"), normalizeLabel(reason, "unknown")).Inc()
}

// FramePulled implements bridge.Observer.
func (e *Exporter) FramePulled(surface string) {
	if e == nil {
		return
	}
	e.framesPulled.WithLabelValues(normalizeLabel(surface, "unknown")).Inc()
}

// PumpStepped implements pump.Observer.
func (e *Exporter) PumpStepped() {
	if e == nil {
		return
	}
	e.pumpSteps.Inc()
}

// PumpLeases implements pump.Observer.
func (e *Exporter) PumpLeases(active int) {
	if e == nil {
		return
	}
	e.pumpLeases.Set(float64(active))
}

// Forget drops the per-surface series of a surface that has quit.
func (e *Exporter) Forget(surface string) {
	if e == nil {
		return
	}
	e.mu.Lock()
	delete(e.lastPaint, surface)
	e.mu.Unlock()

	labels := prom.Labels{"surface": surface}
	e.framesPainted.DeletePartialMatch(labels)
	e.paintRejected.DeletePartialMatch(labels)
	e.framesPulled.DeletePartialMatch(labels)
	e.paintInterval.DeletePartialMatch(labels)
}

func normalizeLabel(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegistered prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegistered) {
		existing, ok := alreadyRegistered.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("metrics: collector type mismatch for %T", collector)
		}
		return existing, nil
	}
	return collector, fmt.Errorf("metrics: register: %w", err)
}
