package valuenet

import (
	"context"

	"tossholdem/replay"
)

// ReplayMirror wraps a Net so every AddTrainingExample call is also pushed
// into a local replay.Sink, independent of whatever the upstream network
// does with the same call. This is how this repo wires its two external
// collaborators together in-process: the value network remains the only
// thing the solver talks to (per kernels.go's
// Net interface), while a durable local copy of every training example
// still lands in replay.PriorityBuffer for offline inspection or sampling,
// without requiring the solver or Driver to know replay exists at all.
type ReplayMirror struct {
	Net
	Sink replay.Sink
}

// WithReplayMirror returns net wrapped so AddTrainingExample also pushes
// into sink, keyed by the query's traverser field (query.go's offset 1).
func WithReplayMirror(net Net, sink replay.Sink) *ReplayMirror {
	return &ReplayMirror{Net: net, Sink: sink}
}

func (m *ReplayMirror) AddTrainingExample(ctx context.Context, queryRow []float32, values []float32) error {
	if err := m.Net.AddTrainingExample(ctx, queryRow, values); err != nil {
		return err
	}
	traverser := 0
	if len(queryRow) > 1 {
		traverser = int(queryRow[1])
	}
	return m.Sink.Push(ctx, traverser, replay.Entry{Query: queryRow, Values: values})
}
