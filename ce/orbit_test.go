package ce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewOrbitRegistry_ValidChain(t *testing.T) {
	reg, _ := chainSystem()
	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, 4, reg.CorrLength(), "empty slot + 1 point + 2 pair functions")
	assert.Equal(t, 3, reg.InteractionLength(), "constant slot + 2 orbits")
	assert.Equal(t, 1, reg.Orbit(0).ClusterSize())
	assert.Equal(t, 2, reg.Orbit(1).NumFunctions())
	assert.Equal(t, 4, reg.Orbit(1).NumConfigs())
}

func TestNewOrbitRegistry_Empty(t *testing.T) {
	reg, err := NewOrbitRegistry(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.CorrLength(), "only the empty cluster slot")
	assert.Equal(t, 1, reg.InteractionLength())
}

func TestNewOrbitRegistry_RejectsMalformedOrbits(t *testing.T) {
	point := func(id, bitID int) Orbit {
		return Orbit{ID: id, BitID: bitID, TensorIndices: []int{1},
			CorrTensors: mat.NewDense(1, 2, []float64{-1, 1})}
	}

	tests := []struct {
		name    string
		orbits  []Orbit
		wantErr string
	}{
		{
			name:    "id out of order",
			orbits:  []Orbit{point(2, 1)},
			wantErr: "has id 2, want 1",
		},
		{
			name:    "bit_id not contiguous",
			orbits:  []Orbit{point(1, 1), point(2, 3)},
			wantErr: "bit_id 3, want 2",
		},
		{
			name:    "bit_id claims empty slot",
			orbits:  []Orbit{point(1, 0)},
			wantErr: "bit_id must be >= 1",
		},
		{
			name: "no unit multiplier",
			orbits: []Orbit{{ID: 1, BitID: 1, TensorIndices: []int{2, 4},
				CorrTensors: mat.NewDense(1, 8, make([]float64, 8))}},
			wantErr: "must contain the unit multiplier",
		},
		{
			name: "multipliers not mixed-radix",
			orbits: []Orbit{{ID: 1, BitID: 1, TensorIndices: []int{1, 3, 4},
				CorrTensors: mat.NewDense(1, 12, make([]float64, 12))}},
			wantErr: "do not form a mixed-radix scheme",
		},
		{
			name: "column count incompatible with radices",
			orbits: []Orbit{{ID: 1, BitID: 1, TensorIndices: []int{1, 2},
				CorrTensors: mat.NewDense(1, 5, make([]float64, 5))}},
			wantErr: "5 columns, incompatible with tensor_indices",
		},
		{
			name:    "missing tensor_indices",
			orbits:  []Orbit{{ID: 1, BitID: 1, CorrTensors: mat.NewDense(1, 2, []float64{0, 0})}},
			wantErr: "tensor_indices must not be empty",
		},
		{
			name:    "missing correlation tensors",
			orbits:  []Orbit{{ID: 1, BitID: 1, TensorIndices: []int{1}}},
			wantErr: "correlation tensors missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrbitRegistry(tt.orbits)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNewOrbitRegistry_TernaryMixedRadix(t *testing.T) {
	// A binary-ternary pair: multipliers [1,2] imply radices 2 and 3, N=6.
	orbits := []Orbit{{
		ID:            1,
		BitID:         1,
		TensorIndices: []int{1, 2},
		CorrTensors:   mat.NewDense(2, 6, make([]float64, 12)),
	}}
	reg, err := NewOrbitRegistry(orbits)
	require.NoError(t, err)
	assert.Equal(t, 6, reg.Orbit(0).NumConfigs())
}
