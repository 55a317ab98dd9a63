package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAxes(t *testing.T) {
	tests := []struct {
		input   string
		want    []Axis
		wantErr bool
	}{
		{"", []Axis{AxisY, AxisX}, false},
		{"yx", []Axis{AxisY, AxisX}, false},
		{"x", []Axis{AxisX}, false},
		{"Y", []Axis{AxisY}, false},
		{"zyx", nil, true},
		{"xc", nil, true},
		{"é", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAxes(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidAxis)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAxesDoesNotAliasDefaults(t *testing.T) {
	axes, err := ParseAxes("")
	require.NoError(t, err)
	axes[0] = AxisX
	assert.Equal(t, AxisY, DefaultAxes[0])
}

func TestAxisValidate(t *testing.T) {
	assert.NoError(t, AxisX.Validate())
	assert.NoError(t, AxisY.Validate())
	assert.ErrorIs(t, Axis('z').Validate(), ErrInvalidAxis)
	assert.ErrorIs(t, Axis('c').Validate(), ErrInvalidAxis)
}
