package valuenet

import "context"

// Net is valuenet's own statement of the contract tossholdem/solver.Net
// requires. The two interfaces are never unified into a shared type — Go
// interfaces satisfy structurally, and solver must not import valuenet — but
// keeping this copy here documents, at the producing side, exactly what a
// Net implementation promises.
type Net interface {
	ComputeValues(ctx context.Context, batch [][]float32) ([][]float32, error)
	AddTrainingExample(ctx context.Context, queryRow []float32, values []float32) error
}

var _ Net = (*GRPCClient)(nil)
var _ Net = (*NullNet)(nil)

// NullNet is a zero-value evaluator: every leaf query gets an all-zero
// value row, and training examples are discarded. It lets a subgame with
// pseudo-leaves be solved (and a self-play driver run end to end) without
// a live value-network process, the same role the ported source's tests
// give a "zero net".
type NullNet struct {
	handsPerQuery int
}

// NewNullNet returns a NullNet that answers every query with a
// handsPerQuery-wide zero vector.
func NewNullNet(handsPerQuery int) *NullNet {
	return &NullNet{handsPerQuery: handsPerQuery}
}

func (n *NullNet) ComputeValues(ctx context.Context, batch [][]float32) ([][]float32, error) {
	out := make([][]float32, len(batch))
	for i := range out {
		out[i] = make([]float32, n.handsPerQuery)
	}
	return out, nil
}

func (n *NullNet) AddTrainingExample(ctx context.Context, queryRow []float32, values []float32) error {
	return nil
}
