package valuenet

import (
	"context"
	"testing"
)

func TestNullNetComputeValuesShape(t *testing.T) {
	net := NewNullNet(22100)
	batch := [][]float32{
		make([]float32, 256),
		make([]float32, 256),
		make([]float32, 256),
	}
	out, err := net.ComputeValues(context.Background(), batch)
	if err != nil {
		t.Fatalf("ComputeValues: %v", err)
	}
	if len(out) != len(batch) {
		t.Fatalf("got %d rows, want %d", len(out), len(batch))
	}
	for i, row := range out {
		if len(row) != 22100 {
			t.Fatalf("row %d: got width %d, want 22100", i, len(row))
		}
		for j, v := range row {
			if v != 0 {
				t.Fatalf("row %d col %d: got %v, want 0", i, j, v)
			}
		}
	}
}

func TestNullNetAddTrainingExampleNoError(t *testing.T) {
	net := NewNullNet(22100)
	if err := net.AddTrainingExample(context.Background(), make([]float32, 256), make([]float32, 22100)); err != nil {
		t.Fatalf("AddTrainingExample: %v", err)
	}
}
