// metrics
package treeset

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var operationsRouted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "treeset_operations_total",
	Help: "Number of operations accepted by tree set managers",
}, []string{"op"})

var gcCycles = promauto.NewCounter(prometheus.CounterOpts{
	Name: "treeset_gc_cycles_total",
	Help: "Number of completed garbage collection cycles",
})

var gcQueuedOperations = promauto.NewCounter(prometheus.CounterOpts{
	Name: "treeset_gc_queued_operations_total",
	Help: "Number of operations held back while a garbage collection was running",
})

var nodesRunning = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "treeset_nodes",
	Help: "Number of running tree node actors, tombstones included",
})
