package valuenet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"tossholdem/common/safemap"
)

// executionUnit is one pending row awaiting a batched ComputeValues RPC.
type executionUnit struct {
	query  []float32
	respCh chan []float32
}

// GRPCClient is a batched, concurrency-shared client to an external value
// network. Every concurrent solver goroutine's ComputeValues call enqueues
// its rows into a single shared pool; a watcher goroutine (and any caller
// that pushes the pool past batchSize) flushes the pool as one RPC, so many
// small per-subgame batches coalesce into fewer, larger network round
// trips. Directly adapted from cfr.GRPCBatchExecutor
// (cfr/grpc_batch_executor.go): same request-pool / watcher / execution-lock
// shape, generalized from one pool per acting player to one pool per value
// network replica, and from game states to flat query rows.
type GRPCClient struct {
	conn   *grpc.ClientConn
	client ValueNetClient

	batchSize    int
	maxBatchSize int

	pool safemap.Safemap[string, executionUnit]

	lastExec      time.Time
	executionLock sync.Mutex
}

// NewGRPCClient dials addr and starts the background flush watcher.
// batchSize is the pool size that triggers an immediate flush; maxBatchSize
// caps how many rows a single RPC carries.
func NewGRPCClient(addr string, batchSize, maxBatchSize int) (*GRPCClient, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	c := &GRPCClient{
		conn:         conn,
		client:       NewValueNetClient(conn),
		batchSize:    batchSize,
		maxBatchSize: maxBatchSize,
		pool:         safemap.New[string, executionUnit](),
		lastExec:     time.Now(),
	}
	go c.watcher()
	return c, nil
}

func (c *GRPCClient) watcher() {
	for {
		<-time.After(100 * time.Millisecond)
		if time.Since(c.lastExec) > 100*time.Millisecond {
			c.execute()
		}
	}
}

func (c *GRPCClient) execute() {
	c.executionLock.Lock()
	defer c.executionLock.Unlock()
	c.lastExec = time.Now()

	targetSize := c.pool.Count()
	if targetSize == 0 {
		return
	}
	if targetSize > c.maxBatchSize {
		targetSize = c.maxBatchSize
	}

	keys := make([]string, 0, targetSize)
	req := &QueryBatch{Rows: make([][]float32, 0, targetSize)}
	c.pool.Foreach(func(k string, u executionUnit) {
		if len(keys) >= targetSize {
			return
		}
		keys = append(keys, k)
		req.Rows = append(req.Rows, u.query)
	})

	resp, err := c.client.ComputeValues(context.Background(), req)
	if err != nil {
		for _, k := range keys {
			if u, ok := c.pool.Get(k); ok {
				close(u.respCh)
				c.pool.Delete(k)
			}
		}
		return
	}

	for i, k := range keys {
		u, ok := c.pool.Get(k)
		if !ok {
			continue
		}
		u.respCh <- resp.Rows[i]
		close(u.respCh)
		c.pool.Delete(k)
	}
}

func (c *GRPCClient) enqueue(query []float32) chan []float32 {
	c.executionLock.Lock()
	reqID := uuid.NewString()
	for c.pool.Exists(reqID) {
		reqID = uuid.NewString()
	}
	ch := make(chan []float32, 1)
	c.pool.Set(reqID, executionUnit{query: query, respCh: ch})
	shouldFlush := c.pool.Count() >= c.batchSize
	c.executionLock.Unlock()

	if shouldFlush {
		go c.execute()
	}
	return ch
}

// ComputeValues enqueues every row of batch into the shared pool and blocks
// until each has a value, or ctx is cancelled first.
func (c *GRPCClient) ComputeValues(ctx context.Context, batch [][]float32) ([][]float32, error) {
	chans := make([]chan []float32, len(batch))
	for i, row := range batch {
		chans[i] = c.enqueue(row)
	}

	out := make([][]float32, len(batch))
	for i, ch := range chans {
		select {
		case v, ok := <-ch:
			if !ok {
				return nil, fmt.Errorf("valuenet: compute_values RPC failed for row %d: %w", i, errComputeValuesFailed)
			}
			out[i] = v
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return out, nil
}

// errComputeValuesFailed carries a DebugInfo detail (genproto's errdetails
// package) identifying which stage of the batch pipeline dropped the row,
// so a caller inspecting the returned status gets more than a bare string.
var errComputeValuesFailed = mustWithDebugInfo(
	status.New(codes.Unavailable, "upstream value network batch call did not complete"),
	"GRPCClient.execute: ComputeValues RPC error or pool flush before response",
)

func mustWithDebugInfo(s *status.Status, detail string) error {
	withDetails, err := s.WithDetails(&errdetails.DebugInfo{Detail: detail})
	if err != nil {
		return s.Err()
	}
	return withDetails.Err()
}

// AddTrainingExample appends one (query, values) pair to the replay stream
// the value network trains from. Unlike ComputeValues, training examples
// are fire-and-forget and are not pool-batched: dcfr-go's Train RPC
// takes a full sample slice per call, but here the replay buffer (not this
// client) owns batching writes before they ever reach the network.
func (c *GRPCClient) AddTrainingExample(ctx context.Context, queryRow []float32, values []float32) error {
	_, err := c.client.AddTrainingExample(ctx, &TrainingExample{Query: queryRow, Values: values})
	return err
}

// Close releases the underlying connection.
func (c *GRPCClient) Close() error {
	return c.conn.Close()
}
