package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_events_total",
			Help: "Inbound chat events by kind (action/text/photo).",
		},
		[]string{"kind"},
	)

	flowOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_flow_outcomes_total",
			Help: "Flow terminations by flow and outcome (completed/cancelled/aborted).",
		},
		[]string{"flow", "outcome"},
	)

	rejectedInput = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_rejected_input_total",
			Help: "User inputs rejected by step validation, by flow.",
		},
		[]string{"flow"},
	)
)

func init() { register(eventsTotal, flowOutcomes, rejectedInput) }

func Event(kind string) { eventsTotal.WithLabelValues(kind).Inc() }

func FlowOutcome(flow, outcome string) { flowOutcomes.WithLabelValues(flow, outcome).Inc() }

func InputRejected(flow string) { rejectedInput.WithLabelValues(flow).Inc() }

// -------- store helpers --------

var storeOps = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "store_ops_total",
		Help: "Document store operations by op and success.",
	},
	[]string{"op", "success"},
)

func init() { register(storeOps) }

func StoreOp(op string, success bool) {
	storeOps.WithLabelValues(op, strconv.FormatBool(success)).Inc()
}
