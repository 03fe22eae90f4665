package grpc

import (
	"encoding/json"
	"fmt"
)

// CodecName is the gRPC content-subtype of the JSON codec
// (application/grpc+json).
const CodecName = "json"

// JSONCodec encodes gRPC messages as JSON. Messages are plain Go structs, so
// no generated protobuf code is involved.
type JSONCodec struct{}

func (JSONCodec) Name() string { return CodecName }

func (JSONCodec) Marshal(v any) ([]byte, error) {
	if raw, ok := v.(json.RawMessage); ok {
		return raw, nil
	}
	return json.Marshal(v)
}

// Unmarshal treats an empty payload as "{}". A *json.RawMessage target
// receives the bytes unchanged.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		data = []byte("{}")
	}
	if raw, ok := v.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], data...)
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json codec: %w", err)
	}
	return nil
}
