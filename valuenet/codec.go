package valuenet

import (
	"encoding/binary"
	"fmt"
	"math"

	"google.golang.org/grpc/encoding"
)

// codecName is registered with grpc's pluggable wire-codec extension point
// (google.golang.org/grpc/encoding). The payloads here are homogeneous
// float32 matrices, so a small fixed-width binary layout is a better fit
// than routing them through full protobuf reflection; this follows the
// same "encoding.Codec" seam genproto-based services use when they need a
// non-protobuf content-subtype.
const codecName = "tossholdem-floats"

func init() {
	encoding.RegisterCodec(floatCodec{})
}

type floatCodec struct{}

func (floatCodec) Name() string { return codecName }

func (floatCodec) Marshal(v interface{}) ([]byte, error) {
	switch m := v.(type) {
	case *QueryBatch:
		return marshalMatrix(m.Rows), nil
	case *ValueBatch:
		return marshalMatrix(m.Rows), nil
	case *TrainingExample:
		buf := appendUint32(nil, uint32(len(m.Query)))
		for _, v := range m.Query {
			buf = appendFloat32(buf, v)
		}
		buf = appendUint32(buf, uint32(len(m.Values)))
		for _, v := range m.Values {
			buf = appendFloat32(buf, v)
		}
		return buf, nil
	case *Empty:
		return nil, nil
	default:
		return nil, fmt.Errorf("valuenet: codec cannot marshal %T", v)
	}
}

func (floatCodec) Unmarshal(data []byte, v interface{}) error {
	switch m := v.(type) {
	case *QueryBatch:
		rows, err := unmarshalMatrix(data)
		if err != nil {
			return err
		}
		m.Rows = rows
		return nil
	case *ValueBatch:
		rows, err := unmarshalMatrix(data)
		if err != nil {
			return err
		}
		m.Rows = rows
		return nil
	case *TrainingExample:
		qn, rest, err := readUint32(data)
		if err != nil {
			return err
		}
		query := make([]float32, qn)
		for i := range query {
			query[i], rest, err = readFloat32(rest)
			if err != nil {
				return err
			}
		}
		vn, rest, err := readUint32(rest)
		if err != nil {
			return err
		}
		values := make([]float32, vn)
		for i := range values {
			values[i], rest, err = readFloat32(rest)
			if err != nil {
				return err
			}
		}
		m.Query = query
		m.Values = values
		return nil
	case *Empty:
		return nil
	default:
		return fmt.Errorf("valuenet: codec cannot unmarshal into %T", v)
	}
}

func appendUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendFloat32(buf []byte, v float32) []byte {
	return appendUint32(buf, math.Float32bits(v))
}

func readUint32(buf []byte) (uint32, []byte, error) {
	if len(buf) < 4 {
		return 0, nil, fmt.Errorf("valuenet: short buffer reading uint32")
	}
	return binary.LittleEndian.Uint32(buf), buf[4:], nil
}

func readFloat32(buf []byte) (float32, []byte, error) {
	bits, rest, err := readUint32(buf)
	if err != nil {
		return 0, nil, err
	}
	return math.Float32frombits(bits), rest, nil
}
