package simulate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence_RepeatsLastValue(t *testing.T) {
	d := Sequence(0.1, 0.5)
	assert.Equal(t, 0.1, d())
	assert.Equal(t, 0.5, d())
	assert.Equal(t, 0.5, d())
}

func TestTable_Pick(t *testing.T) {
	table := MustTable(
		Weight[string]{"network", 0.2},
		Weight[string]{"invalid", 0.2},
		Weight[string]{"server", 0.2},
		Weight[string]{"success", 0.4},
	)

	tests := []struct {
		draw float64
		want string
	}{
		{0.0, "network"},
		{0.19, "network"},
		{0.2, "invalid"},
		{0.39, "invalid"},
		{0.4, "server"},
		{0.59, "server"},
		{0.6, "success"},
		{0.99, "success"},
		{-1, "network"},
		{7, "success"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, table.Pick(tt.draw), "draw %v", tt.draw)
	}
}

func TestTable_RelativeWeights(t *testing.T) {
	table := MustTable(Weight[bool]{false, 3}, Weight[bool]{true, 7})

	assert.False(t, table.Pick(0.29))
	assert.True(t, table.Pick(0.3))
	assert.InDelta(t, 0.3, Probability(table, false), 1e-9)
}

func TestNewTable_Errors(t *testing.T) {
	_, err := NewTable[int]()
	require.Error(t, err)

	_, err = NewTable(Weight[int]{1, -0.5})
	require.Error(t, err)

	_, err = NewTable(Weight[int]{1, 0}, Weight[int]{2, 0})
	require.Error(t, err)
}

func TestUniform_InRange(t *testing.T) {
	d := Uniform()
	for i := 0; i < 1000; i++ {
		v := d()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}
