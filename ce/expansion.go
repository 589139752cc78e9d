package ce

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ClusterExpansion couples an orbit registry with fitted coefficients: it
// derives the interaction store, owns an evaluator, and predicts the fitted
// property (normally energy per primitive cell) for occupancies.
//
// Immutable. New coefficients produce a whole new expansion via
// WithCoefficients, so a sampler can swap expansions between simulation
// epochs while in-flight evaluator calls keep reading the old snapshot.
type ClusterExpansion struct {
	reg    *OrbitRegistry
	coeffs []float64
	store  *InteractionStore
	eval   *Evaluator
}

// NewClusterExpansion builds an expansion from a registry and a coefficient
// vector covering the full correlation layout (coeffs[0] is the constant
// term).
func NewClusterExpansion(reg *OrbitRegistry, coeffs []float64, cfg EvaluatorConfig) (*ClusterExpansion, error) {
	store, err := NewInteractionStore(reg, coeffs)
	if err != nil {
		return nil, err
	}
	eval, err := NewEvaluator(reg, store, cfg)
	if err != nil {
		return nil, err
	}
	return &ClusterExpansion{
		reg:    reg,
		coeffs: append([]float64(nil), coeffs...),
		store:  store,
		eval:   eval,
	}, nil
}

// WithCoefficients returns a new expansion over the same registry with
// refitted coefficients.
func (ce *ClusterExpansion) WithCoefficients(coeffs []float64) (*ClusterExpansion, error) {
	return NewClusterExpansion(ce.reg, coeffs, EvaluatorConfig{Workers: ce.eval.workers})
}

// Registry returns the orbit registry.
func (ce *ClusterExpansion) Registry() *OrbitRegistry {
	return ce.reg
}

// Coefficients returns a copy of the fitted coefficient vector.
func (ce *ClusterExpansion) Coefficients() []float64 {
	return append([]float64(nil), ce.coeffs...)
}

// Offset returns the constant (grand-mean) term, coeffs[0].
func (ce *ClusterExpansion) Offset() float64 {
	return ce.store.Offset()
}

// Evaluator returns the bound evaluator.
func (ce *ClusterExpansion) Evaluator() *Evaluator {
	return ce.eval
}

// Predict returns the fitted property for an occupancy as the dot product
// of its correlation vector with the coefficients.
func (ce *ClusterExpansion) Predict(occu []int, tables []ClusterIndexTable) (float64, error) {
	corr, err := ce.eval.CorrelationsFromOccupancy(occu, tables)
	if err != nil {
		return 0, err
	}
	return floats.Dot(corr, ce.coeffs), nil
}

// EnergyFromInteractions returns the same quantity as Predict but summed
// from the per-orbit interaction decomposition. The two agree to
// floating-point tolerance for any valid occupancy.
func (ce *ClusterExpansion) EnergyFromInteractions(occu []int, tables []ClusterIndexTable) (float64, error) {
	inter, err := ce.eval.InteractionsFromOccupancy(occu, ce.Offset(), tables)
	if err != nil {
		return 0, err
	}
	return floats.Sum(inter), nil
}

// DeltaEnergy returns the energy change of a local move evaluated over a
// restricted table set, the quantity a Metropolis acceptance step consumes.
func (ce *ClusterExpansion) DeltaEnergy(occuAfter, occuBefore []int, ratios []float64, tables []ClusterIndexTable) (float64, error) {
	delta, err := ce.eval.DeltaInteractionsFromOccupancies(occuAfter, occuBefore, ratios, tables)
	if err != nil {
		return 0, fmt.Errorf("delta energy: %w", err)
	}
	return floats.Sum(delta), nil
}
