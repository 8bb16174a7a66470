package through

import "context"

// Input is an interface for a stream input.
type Input interface {
	Write(ctx context.Context, chunk any) error
	End() error
}

// Output is an interface for a stream output.
type Output interface {
	Out() <-chan any
}

// Source is an interface for a stream source.
type Source interface {
	Output
	Via(Flow) Flow
}

// Flow is an interface for a stream flow.
type Flow interface {
	Input
	Output
	Via(Flow) Flow
	To(Sink) error
}

// Sink is an interface for a stream sink.
type Sink interface {
	Input
}

// Destroyer is implemented by streams that can be torn down.
type Destroyer interface {
	Destroy(err error)
}
