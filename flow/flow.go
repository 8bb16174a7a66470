// Package flow provides typed stages built on through units.
//
// Every constructor returns a *through.DestroyableTransform, so stages can be
// chained with Via and To or handed to through.Pipeline.
package flow

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	through "github.com/imishinist/go-through"
	"github.com/imishinist/go-through/stream"
)

// ErrUnexpectedType is returned when a stage receives a chunk of a type it
// cannot handle.
var ErrUnexpectedType = errors.New("flow: unexpected chunk type")

var (
	stagesGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "go_through_flow_stages",
		Help: "The number of open stages",
	}, []string{"name", "type"})

	droppedCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "go_through_flow_dropped_total",
		Help: "The number of chunks a stage consumed without output",
	}, []string{"name", "type"})
)

func newStage(name, kind string, transform through.TransformFunc, flush through.FlushFunc) *through.DestroyableTransform {
	u := through.WithConfig(through.Config{Name: name}, transform, flush)

	stagesGauge.WithLabelValues(name, kind).Inc()
	u.Once(stream.EventClose, func(...any) {
		stagesGauge.WithLabelValues(name, kind).Dec()
	})
	return u
}

func cast[T any](chunk any) (T, error) {
	v, ok := chunk.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: got %T, want %T", ErrUnexpectedType, chunk, zero)
	}
	return v, nil
}
