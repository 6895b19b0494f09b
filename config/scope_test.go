package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScope(t *testing.T) {
	tests := []struct {
		in      string
		want    Scope
		wantErr bool
	}{
		{in: "", want: ScopePipeline},
		{in: "pipeline", want: ScopePipeline},
		{in: "Scenario", want: ScopeScenario},
		{in: "business cycle", want: ScopeBusinessCycle},
		{in: "business_cycle", want: ScopeBusinessCycle},
		{in: "global", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseScope(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScopeText(t *testing.T) {
	text, err := ScopeBusinessCycle.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "business_cycle", string(text))

	var s Scope
	require.NoError(t, s.UnmarshalText([]byte("scenario")))
	assert.Equal(t, ScopeScenario, s)

	_, err = Scope(42).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "scope(42)", Scope(42).String())
}
