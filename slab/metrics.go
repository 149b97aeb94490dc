// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package slab

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the Prometheus metrics updated by an Allocator. A single
// Metrics value may be shared by several allocators, in which case the heap
// gauge reports the most recent change.
type Metrics struct {
	HeapBytes     prometheus.Gauge
	Refills       prometheus.Counter
	LargeAllocs   prometheus.Counter
	Scavenges     prometheus.Counter
	AllocFailures prometheus.Counter
}

// NewMetrics constructs allocator metrics and registers them with reg.
// If reg == nil, the metrics are not registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HeapBytes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "jvalue",
			Subsystem: "slab",
			Name:      "heap_bytes",
			Help:      "Total size of the heap regions of the allocator.",
		}),
		Refills: f.NewCounter(prometheus.CounterOpts{
			Namespace: "jvalue",
			Subsystem: "slab",
			Name:      "refills_total",
			Help:      "Number of free lists refilled from the heap.",
		}),
		LargeAllocs: f.NewCounter(prometheus.CounterOpts{
			Namespace: "jvalue",
			Subsystem: "slab",
			Name:      "large_allocs_total",
			Help:      "Number of allocations too large for any size class.",
		}),
		Scavenges: f.NewCounter(prometheus.CounterOpts{
			Namespace: "jvalue",
			Subsystem: "slab",
			Name:      "scavenges_total",
			Help:      "Number of refills served by splitting a free block of a larger class.",
		}),
		AllocFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: "jvalue",
			Subsystem: "slab",
			Name:      "alloc_failures_total",
			Help:      "Number of allocations that failed for lack of memory.",
		}),
	}
}

func (m *Metrics) setHeap(n int) {
	if m != nil {
		m.HeapBytes.Set(float64(n))
	}
}

func (m *Metrics) refilled() {
	if m != nil {
		m.Refills.Inc()
	}
}

func (m *Metrics) largeAlloc() {
	if m != nil {
		m.LargeAllocs.Inc()
	}
}

func (m *Metrics) scavenged() {
	if m != nil {
		m.Scavenges.Inc()
	}
}

func (m *Metrics) failed() {
	if m != nil {
		m.AllocFailures.Inc()
	}
}
