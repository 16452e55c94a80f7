package canvas

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// portsRegistered tracks how many ports are currently bound
	portsRegistered = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "flowboard_canvas_ports",
			Help: "Number of ports currently registered with the position registry",
		},
	)

	// recomputePasses counts full snapshot recomputations
	recomputePasses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "flowboard_canvas_recompute_total",
			Help: "Total number of full port position recomputation passes",
		},
	)

	// dragSessions counts started drag gestures
	dragSessions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "flowboard_canvas_drag_sessions_total",
			Help: "Total number of drag sessions started",
		},
	)
)

func init() {
	// Register metrics with the default registry
	prometheus.MustRegister(portsRegistered)
	prometheus.MustRegister(recomputePasses)
	prometheus.MustRegister(dragSessions)
}
