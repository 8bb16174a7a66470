package stream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	itemsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "go_through_items_total",
		Help: "The number of items written to or pushed from a stream",
	}, []string{"name", "direction"})

	bufferedGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "go_through_buffered",
		Help: "The writable load (items or bytes) waiting to be transformed",
	}, []string{"name"})
)
