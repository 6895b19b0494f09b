package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "already normalized", in: "embedded_1", want: "embedded_1"},
		{name: "upper case", in: "Embedded_1", want: "embedded_1"},
		{name: "surrounding whitespace", in: "  foo\t", want: "foo"},
		{name: "inner spaces", in: "sales input data", want: "sales_input_data"},
		{name: "mixed", in: " My Input ", want: "my_input"},
		{name: "digits first", in: "1_embedded_4", want: "1_embedded_4"},
		{name: "empty", in: "", want: ""},
		{name: "only spaces", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, in := range []string{"A b C", " x ", "already_ok"} {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}
