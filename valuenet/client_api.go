package valuenet

import (
	"context"

	"google.golang.org/grpc"
)

// serviceName is the gRPC service path segment ComputeValues/AddTrainingExample
// are dispatched under, mirroring how infra.ActorClient names
// its RPCs (GetProbs, Train, Save, Reset).
const serviceName = "/tossholdem.valuenet.ValueNet/"

// ValueNetClient is the thin RPC surface GRPCClient drives. Hand-written in
// the shape protoc-gen-go-grpc would emit for a two-method service, since no
// .proto toolchain runs in this environment; wire encoding is handled by
// floatCodec rather than generated protobuf marshaling (see codec.go).
type ValueNetClient interface {
	ComputeValues(ctx context.Context, in *QueryBatch, opts ...grpc.CallOption) (*ValueBatch, error)
	AddTrainingExample(ctx context.Context, in *TrainingExample, opts ...grpc.CallOption) (*Empty, error)
}

type valueNetClient struct {
	cc *grpc.ClientConn
}

// NewValueNetClient wraps conn the way a generated NewXxxClient constructor
// would.
func NewValueNetClient(conn *grpc.ClientConn) ValueNetClient {
	return &valueNetClient{cc: conn}
}

func (c *valueNetClient) ComputeValues(ctx context.Context, in *QueryBatch, opts ...grpc.CallOption) (*ValueBatch, error) {
	out := new(ValueBatch)
	opts = append(opts, grpc.CallContentSubtype(codecName))
	if err := c.cc.Invoke(ctx, serviceName+"ComputeValues", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *valueNetClient) AddTrainingExample(ctx context.Context, in *TrainingExample, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	opts = append(opts, grpc.CallContentSubtype(codecName))
	if err := c.cc.Invoke(ctx, serviceName+"AddTrainingExample", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
