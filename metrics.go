package bvh

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	pathLabel   = "path"
	policyLabel = "policy"

	linearPath    = "linear"
	hierarchyPath = "hierarchy"
	gridPath      = "grid"
)

var (
	bvhBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bvh_builds_total",
		Help: "The number of hierarchies built.",
	}, []string{policyLabel})

	bvhNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bvh_hierarchy_nodes",
		Help: "The number of nodes in the last built hierarchy.",
	})

	bvhQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bvh_query_duration_seconds",
		Help:    "The time taken by a single query.",
		Buckets: prometheus.ExponentialBuckets(1e-7, 4, 12),
	}, []string{pathLabel})

	bvhQueryMismatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bvh_query_mismatches_total",
		Help: "The number of queries where an accelerated path disagreed with the linear scan.",
	})
)

func instrumentBuild(h *Hierarchy) {
	bvhBuilds.
		With(prometheus.Labels{policyLabel: h.Policy.String()}).
		Inc()
	bvhNodes.Set(float64(len(h.Nodes)))
}

func instrumentQuery(path string, elapsed time.Duration) {
	bvhQueryDuration.
		With(prometheus.Labels{pathLabel: path}).
		Observe(elapsed.Seconds())
}

func instrumentMismatch() {
	bvhQueryMismatches.Inc()
}
