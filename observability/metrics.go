package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// CoreMetrics tracks activity across the object store, market engine, and
// block processor. One instance is registered per process; subsystems record
// against it through the small recording helpers below rather than touching
// prometheus directly, mirroring the teacher's lazily-initialised registries.
type CoreMetrics struct {
	sessionsOpen     prometheus.Gauge
	sessionDepth     prometheus.Gauge
	objectsCreated   *prometheus.CounterVec
	objectsRemoved   *prometheus.CounterVec
	evaluations      *prometheus.CounterVec
	marginCalls      *prometheus.CounterVec
	blackSwans       *prometheus.CounterVec
	blocksApplied    prometheus.Counter
	blocksRejected   *prometheus.CounterVec
	reorgDepth       prometheus.Histogram
	maintenanceRuns  prometheus.Counter
	participationPct prometheus.Gauge
}

var (
	coreMetricsOnce sync.Once
	coreRegistry    *CoreMetrics
)

// Core returns the lazily-initialised core metrics registry.
func Core() *CoreMetrics {
	coreMetricsOnce.Do(func() {
		coreRegistry = &CoreMetrics{
			sessionsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "graphene", Subsystem: "store", Name: "sessions_open",
				Help: "1 while any undo session is open on the object store, 0 otherwise.",
			}),
			sessionDepth: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "graphene", Subsystem: "store", Name: "session_stack_depth",
				Help: "Depth of the undo session stack.",
			}),
			objectsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "graphene", Subsystem: "store", Name: "objects_created_total",
				Help: "Objects created per object type.",
			}, []string{"type"}),
			objectsRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "graphene", Subsystem: "store", Name: "objects_removed_total",
				Help: "Objects removed per object type.",
			}, []string{"type"}),
			evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "graphene", Subsystem: "evaluator", Name: "operations_total",
				Help: "Operations evaluated segmented by operation kind and outcome.",
			}, []string{"operation", "outcome"}),
			marginCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "graphene", Subsystem: "market", Name: "margin_calls_total",
				Help: "Margin calls triggered segmented by asset id.",
			}, []string{"asset"}),
			blackSwans: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "graphene", Subsystem: "market", Name: "black_swans_total",
				Help: "Global settlement (black swan) events segmented by asset id.",
			}, []string{"asset"}),
			blocksApplied: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "graphene", Subsystem: "chain", Name: "blocks_applied_total",
				Help: "Blocks successfully applied to the head chain.",
			}),
			blocksRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "graphene", Subsystem: "chain", Name: "blocks_rejected_total",
				Help: "Blocks rejected segmented by error kind.",
			}, []string{"kind"}),
			reorgDepth: prometheus.NewHistogram(prometheus.HistogramOpts{
				Namespace: "graphene", Subsystem: "chain", Name: "reorg_depth",
				Help:    "Depth of blocks popped during a fork switch.",
				Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34},
			}),
			maintenanceRuns: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "graphene", Subsystem: "chain", Name: "maintenance_runs_total",
				Help: "Maintenance interval passes executed.",
			}),
			participationPct: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "graphene", Subsystem: "chain", Name: "witness_participation_ratio",
				Help: "Fraction of the last 128 scheduled slots that produced a block.",
			}),
		}
		prometheus.MustRegister(
			coreRegistry.sessionsOpen, coreRegistry.sessionDepth,
			coreRegistry.objectsCreated, coreRegistry.objectsRemoved,
			coreRegistry.evaluations, coreRegistry.marginCalls, coreRegistry.blackSwans,
			coreRegistry.blocksApplied, coreRegistry.blocksRejected, coreRegistry.reorgDepth,
			coreRegistry.maintenanceRuns, coreRegistry.participationPct,
		)
	})
	return coreRegistry
}

func (m *CoreMetrics) SetSessionDepth(depth int) {
	if m == nil {
		return
	}
	m.sessionsOpen.Set(boolToFloat(depth > 0))
	m.sessionDepth.Set(float64(depth))
}

func (m *CoreMetrics) RecordObjectCreated(objType string) {
	if m == nil {
		return
	}
	m.objectsCreated.WithLabelValues(objType).Inc()
}

func (m *CoreMetrics) RecordObjectRemoved(objType string) {
	if m == nil {
		return
	}
	m.objectsRemoved.WithLabelValues(objType).Inc()
}

func (m *CoreMetrics) RecordEvaluation(operation, outcome string) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(operation, outcome).Inc()
}

func (m *CoreMetrics) RecordMarginCall(asset string) {
	if m == nil {
		return
	}
	m.marginCalls.WithLabelValues(asset).Inc()
}

func (m *CoreMetrics) RecordBlackSwan(asset string) {
	if m == nil {
		return
	}
	m.blackSwans.WithLabelValues(asset).Inc()
}

func (m *CoreMetrics) RecordBlockApplied() {
	if m == nil {
		return
	}
	m.blocksApplied.Inc()
}

func (m *CoreMetrics) RecordBlockRejected(kind string) {
	if m == nil {
		return
	}
	m.blocksRejected.WithLabelValues(kind).Inc()
}

func (m *CoreMetrics) RecordReorg(depth int) {
	if m == nil {
		return
	}
	m.reorgDepth.Observe(float64(depth))
}

func (m *CoreMetrics) RecordMaintenanceRun(participation float64) {
	if m == nil {
		return
	}
	m.maintenanceRuns.Inc()
	m.participationPct.Set(participation)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
