package store

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Codec converts repository values to and from their stored bytes.
type Codec[M any] interface {
	Marshal(m M) ([]byte, error)
	Unmarshal(data []byte) (M, error)
}

// JSONCodec stores values as JSON documents.
type JSONCodec[M any] struct{}

// Marshal implements Codec.
func (JSONCodec[M]) Marshal(m M) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}
	return data, nil
}

// Unmarshal implements Codec.
func (JSONCodec[M]) Unmarshal(data []byte) (M, error) {
	var m M
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return m, nil
}

// ProtoCodec stores values as binary google.protobuf.Struct messages.
//
// The value's JSON form is the source of field names, so M must be a JSON
// object. Numbers round-trip as float64 when M holds untyped fields.
type ProtoCodec[M any] struct{}

// Marshal implements Codec.
func (ProtoCodec[M]) Marshal(m M) ([]byte, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("value is not an object: %w", err)
	}
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to convert value to struct: %w", err)
	}
	data, err := proto.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal struct: %w", err)
	}
	return data, nil
}

// Unmarshal implements Codec.
func (ProtoCodec[M]) Unmarshal(data []byte) (M, error) {
	var m M
	s := &structpb.Struct{}
	if err := proto.Unmarshal(data, s); err != nil {
		return m, fmt.Errorf("failed to unmarshal struct: %w", err)
	}
	raw, err := json.Marshal(s.AsMap())
	if err != nil {
		return m, fmt.Errorf("failed to convert struct: %w", err)
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return m, fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return m, nil
}
