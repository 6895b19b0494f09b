package datasource

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zero-day-ai/taskdef/config"
	"github.com/zero-day-ai/taskdef/store"
)

func TestPropertiesKeepTypes(t *testing.T) {
	props := Properties{
		"int":      42,
		"int8":     int8(-8),
		"int16":    int16(16),
		"int32":    int32(-32),
		"int64":    int64(math.MaxInt64),
		"uint":     uint(7),
		"uint8":    uint8(255),
		"uint16":   uint16(16),
		"uint32":   uint32(32),
		"uint64":   uint64(math.MaxUint64),
		"float32":  float32(1.5),
		"float64":  2.0,
		"bool":     true,
		"string":   "payload",
		"null":     nil,
		"list":     []any{1, "two", 3.5, []any{false}},
		"map":      map[string]any{"n": 1, "nested": map[string]any{"f": 0.25}},
		"infinity": math.Inf(1),
	}
	model := Model{ID: "ds-1", ConfigName: "x", StorageType: config.StorageInMemory, Properties: props}

	codecs := map[string]store.Codec[Model]{
		"json":  store.JSONCodec[Model]{},
		"proto": store.ProtoCodec[Model]{},
	}
	for name, codec := range codecs {
		t.Run(name, func(t *testing.T) {
			data, err := codec.Marshal(model)
			require.NoError(t, err)

			got, err := codec.Unmarshal(data)
			require.NoError(t, err)
			assert.Equal(t, props, got.Properties)
		})
	}
}

func TestPropertiesFromYAML(t *testing.T) {
	var props map[string]any
	require.NoError(t, yaml.Unmarshal([]byte("default_data: [1, 2, 3]\nratio: 0.5\nlabel: raw\nlimits: {max: 10}\n"), &props))

	data, err := json.Marshal(Properties(props))
	require.NoError(t, err)

	var got Properties
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, Properties(props), got)
	assert.Equal(t, []any{1, 2, 3}, got["default_data"])
}

func TestPropertiesOtherTypesDecodeGenerically(t *testing.T) {
	type point struct {
		X int `json:"x"`
	}
	data, err := json.Marshal(Properties{"p": point{X: 3}, "s": []string{"a"}})
	require.NoError(t, err)

	var got Properties
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, map[string]any{"x": float64(3)}, got["p"])
	assert.Equal(t, []any{"a"}, got["s"])
}

func TestPropertiesNil(t *testing.T) {
	data, err := json.Marshal(Properties(nil))
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	var got Properties
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Nil(t, got)
}

func TestPropertiesInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "unknown kind", data: `{"a":{"kind":"complex128","value":"1"}}`},
		{name: "overflow", data: `{"a":{"kind":"int8","value":"300"}}`},
		{name: "not a number", data: `{"a":{"kind":"int","value":"x"}}`},
		{name: "bad bool", data: `{"a":{"kind":"bool","value":"\"yes\""}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Properties
			assert.Error(t, json.Unmarshal([]byte(tt.data), &got))
		})
	}
}
