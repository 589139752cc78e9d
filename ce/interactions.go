package ce

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// InteractionStore holds, per orbit, one flattened tensor of
// interaction-energy values: the orbit's basis functions collapsed across
// the fitted coefficients, one scalar per joint site-configuration code.
// Immutable; a coefficient change rebuilds a fresh store (snapshot swap)
// rather than mutating one that concurrent evaluator calls may be reading.
type InteractionStore struct {
	tensors [][]float64
	offset  float64
}

// NewInteractionStore collapses fitted coefficients against a registry's
// basis tables: tensor_n[idx] = sum_k coeffs[bit_id+k] * corr_tensors[k][idx].
// coeffs must cover the full correlation vector; coeffs[0] is the constant
// term and becomes the store's offset.
func NewInteractionStore(reg *OrbitRegistry, coeffs []float64) (*InteractionStore, error) {
	if len(coeffs) != reg.CorrLength() {
		return nil, fmt.Errorf("have %d coefficients for correlation length %d", len(coeffs), reg.CorrLength())
	}
	tensors := make([][]float64, reg.Len())
	for n := 0; n < reg.Len(); n++ {
		orb := reg.Orbit(n)
		raw := orb.CorrTensors.RawMatrix()
		h := make([]float64, orb.NumConfigs())
		for k := 0; k < orb.NumFunctions(); k++ {
			row := raw.Data[k*raw.Stride : k*raw.Stride+raw.Cols]
			floats.AddScaled(h, coeffs[orb.BitID+k], row)
		}
		tensors[n] = h
	}
	return &InteractionStore{tensors: tensors, offset: coeffs[0]}, nil
}

// NewInteractionStoreFromTensors wraps externally collapsed tensors, one per
// orbit. Shape agreement with a registry is checked by NewEvaluator.
func NewInteractionStoreFromTensors(tensors [][]float64, offset float64) *InteractionStore {
	return &InteractionStore{tensors: tensors, offset: offset}
}

// NumOrbits returns the number of per-orbit tensors.
func (s *InteractionStore) NumOrbits() int {
	return len(s.tensors)
}

// Tensor returns orbit n's flattened interaction tensor.
func (s *InteractionStore) Tensor(n int) []float64 {
	return s.tensors[n]
}

// Offset returns the constant (grand-mean) term.
func (s *InteractionStore) Offset() float64 {
	return s.offset
}
