package through

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activeGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "go_through_active",
		Help: "The number of units that have not closed yet",
	}, []string{"name"})

	destroyedCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "go_through_destroyed_total",
		Help: "The number of destroyed units",
	}, []string{"name", "reason"})
)

func destroyReason(err error) string {
	if err != nil {
		return "error"
	}
	return "clean"
}
