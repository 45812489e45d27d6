// Package valuenet is the ambient transport to the external value
// network: a pure batched evaluation function plus a training-example
// sink. The solver only ever sees the small duck-typed
// Net interface (tossholdem/solver.Net) this package's GRPCClient
// satisfies; this package owns the wire format and the batching behavior
// needed to make a per-query RPC call tolerable at solver scale.
//
// Grounded on cfr/grpc_batch_executor.go: same
// per-kind request pool, watcher goroutine, and batch-flush-on-size-or-
// timeout design, generalized from batching game states for GetProbs/Train
// to batching flat query buffers for ComputeValues/AddTrainingExample.
package valuenet

// QueryBatch is N stacked query rows, each query.Size(numHands) floats
// wide. The wire counterpart of compute_values's tensor input.
type QueryBatch struct {
	Rows [][]float32
}

// ValueBatch is N stacked per-hand value rows, one per QueryBatch row.
type ValueBatch struct {
	Rows [][]float32
}

// TrainingExample is a single (query, values) pair appended to the replay
// sink via add_training_example.
type TrainingExample struct {
	Query  []float32
	Values []float32
}

// Empty is the zero-payload response to AddTrainingExample, matching
// infra.Empty used for fire-and-forget RPCs (Save/Reset in
// grpc_batch_executor.go).
type Empty struct{}

func marshalMatrix(rows [][]float32) []byte {
	size := 4
	for _, row := range rows {
		size += 4 + len(row)*4
	}
	buf := make([]byte, 0, size)
	buf = appendUint32(buf, uint32(len(rows)))
	for _, row := range rows {
		buf = appendUint32(buf, uint32(len(row)))
		for _, v := range row {
			buf = appendFloat32(buf, v)
		}
	}
	return buf
}

func unmarshalMatrix(buf []byte) ([][]float32, error) {
	n, buf, err := readUint32(buf)
	if err != nil {
		return nil, err
	}
	rows := make([][]float32, n)
	for i := range rows {
		var width uint32
		width, buf, err = readUint32(buf)
		if err != nil {
			return nil, err
		}
		row := make([]float32, width)
		for j := range row {
			var v float32
			v, buf, err = readFloat32(buf)
			if err != nil {
				return nil, err
			}
			row[j] = v
		}
		rows[i] = row
	}
	return rows, nil
}
