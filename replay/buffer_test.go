package replay

import (
	"context"
	"testing"
)

func TestPriorityBufferPushAndSample(t *testing.T) {
	buf, err := NewPriorityBuffer(":memory:", 8, 0.25)
	if err != nil {
		t.Fatalf("NewPriorityBuffer: %v", err)
	}
	defer buf.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		entry := Entry{
			Query:  []float32{float32(i), 1, 2},
			Values: []float32{float32(i) / 10},
		}
		if err := buf.Push(ctx, 0, entry); err != nil {
			t.Fatalf("Push %d: %v", i, err)
		}
	}

	count, err := buf.Count(ctx, 0)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 5 {
		t.Fatalf("got count %d, want 5", count)
	}

	samples, err := buf.Sample(ctx, 0, 3)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(samples))
	}
	for _, s := range samples {
		if len(s.Query) != 3 || len(s.Values) != 1 {
			t.Fatalf("unexpected sample shape: %+v", s)
		}
	}
}

func TestPriorityBufferPrunesOverCapacity(t *testing.T) {
	buf, err := NewPriorityBuffer(":memory:", 4, 0.5)
	if err != nil {
		t.Fatalf("NewPriorityBuffer: %v", err)
	}
	defer buf.Close()

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		entry := Entry{Query: []float32{float32(i)}, Values: []float32{float32(i)}}
		if err := buf.Push(ctx, 1, entry); err != nil {
			t.Fatalf("Push %d: %v", i, err)
		}
	}

	count, err := buf.Count(ctx, 1)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count <= 0 || count > 4 {
		t.Fatalf("got count %d, want pruning to have kept it bounded", count)
	}
}

func TestPriorityBufferEmptyBucketSampleIsEmpty(t *testing.T) {
	buf, err := NewPriorityBuffer(":memory:", 8, 0.25)
	if err != nil {
		t.Fatalf("NewPriorityBuffer: %v", err)
	}
	defer buf.Close()

	samples, err := buf.Sample(context.Background(), 42, 5)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(samples) != 0 {
		t.Fatalf("got %d samples, want 0", len(samples))
	}
}
