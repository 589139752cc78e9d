package ce

import (
	"fmt"
)

// Evaluator computes correlation and interaction vectors (and their deltas)
// from occupancy arrays. It is stateless between calls: every routine reads
// only its arguments plus the immutable registry and store, so one Evaluator
// may serve concurrent callers.
//
// All routines assume occupancy codes are valid for the registry's
// mixed-radix scheme; that contract is owned by orbit construction and is
// not re-derivable here.
type Evaluator struct {
	reg     *OrbitRegistry
	store   *InteractionStore
	workers int
}

// NewEvaluator binds a registry and an optional interaction store. A nil
// store is valid for correlation-only use; if present, the store must carry
// exactly one tensor per orbit with the orbit's configuration count.
func NewEvaluator(reg *OrbitRegistry, store *InteractionStore, cfg EvaluatorConfig) (*Evaluator, error) {
	if reg == nil {
		return nil, fmt.Errorf("orbit registry is required")
	}
	if store != nil {
		if store.NumOrbits() != reg.Len() {
			return nil, fmt.Errorf("interaction store has %d tensors for %d orbits", store.NumOrbits(), reg.Len())
		}
		for n := 0; n < reg.Len(); n++ {
			orb := reg.Orbit(n)
			if len(store.Tensor(n)) != orb.NumConfigs() {
				return nil, fmt.Errorf("orbit %d: interaction tensor has %d entries, want %d", orb.ID, len(store.Tensor(n)), orb.NumConfigs())
			}
		}
	}
	return &Evaluator{reg: reg, store: store, workers: cfg.Workers}, nil
}

// Registry returns the bound orbit registry.
func (e *Evaluator) Registry() *OrbitRegistry {
	return e.reg
}

// flatIndex composes the mixed-radix lookup index for one cluster instance.
func flatIndex(multipliers, sites, occu []int) int {
	idx := 0
	for i, m := range multipliers {
		idx += m * occu[sites[i]]
	}
	return idx
}

// checkCall validates the cheap count invariants shared by all four
// routines before any numeric work. Table shapes themselves were validated
// at construction; full routines additionally reject empty tables.
func (e *Evaluator) checkCall(tables []ClusterIndexTable, allowEmpty bool) error {
	if len(tables) != e.reg.Len() {
		return fmt.Errorf("have %d cluster index tables for %d orbits", len(tables), e.reg.Len())
	}
	for n, t := range tables {
		orb := e.reg.Orbit(n)
		if t.Rows() == 0 {
			if allowEmpty {
				continue
			}
			return fmt.Errorf("orbit %d: cluster index table is empty", orb.ID)
		}
		if t.Width() != orb.ClusterSize() {
			return fmt.Errorf("orbit %d: cluster index table width %d, want cluster size %d", orb.ID, t.Width(), orb.ClusterSize())
		}
	}
	return nil
}

// CorrelationsFromOccupancy computes the full correlation vector: for each
// orbit, the symmetry average of every basis function over all cluster
// instances in the supercell. Slot 0 (empty cluster) is always 1.
func (e *Evaluator) CorrelationsFromOccupancy(occu []int, tables []ClusterIndexTable) ([]float64, error) {
	if err := e.checkCall(tables, false); err != nil {
		return nil, err
	}
	corr := make([]float64, e.reg.CorrLength())
	corr[0] = 1
	forEachOrbit(e.workers, e.reg.Len(), func(n int) {
		orb := e.reg.Orbit(n)
		t := tables[n]
		raw := orb.CorrTensors.RawMatrix()
		k := orb.NumFunctions()
		sums := make([]float64, k)
		for j := 0; j < t.Rows(); j++ {
			idx := flatIndex(orb.TensorIndices, t.Row(j), occu)
			for b := 0; b < k; b++ {
				sums[b] += raw.Data[b*raw.Stride+idx]
			}
		}
		inv := 1 / float64(t.Rows())
		for b := 0; b < k; b++ {
			corr[orb.BitID+b] = sums[b] * inv
		}
	})
	return corr, nil
}

// InteractionsFromOccupancy computes the per-orbit cluster-interaction
// vector: orbit id slots carry the symmetry average of the orbit's
// flattened interaction tensor; slot 0 carries the supplied constant term.
func (e *Evaluator) InteractionsFromOccupancy(occu []int, offset float64, tables []ClusterIndexTable) ([]float64, error) {
	if e.store == nil {
		return nil, fmt.Errorf("evaluator has no interaction store")
	}
	if err := e.checkCall(tables, false); err != nil {
		return nil, err
	}
	inter := make([]float64, e.reg.InteractionLength())
	inter[0] = offset
	forEachOrbit(e.workers, e.reg.Len(), func(n int) {
		orb := e.reg.Orbit(n)
		t := tables[n]
		h := e.store.Tensor(n)
		var sum float64
		for j := 0; j < t.Rows(); j++ {
			sum += h[flatIndex(orb.TensorIndices, t.Row(j), occu)]
		}
		inter[orb.ID] = sum / float64(t.Rows())
	})
	return inter, nil
}

// DeltaCorrelationsFromOccupancies computes the correlation change between
// two occupancies over a restricted table set (only clusters touching the
// changed sites). Each orbit's restricted average is divided by its cluster
// ratio to restore the full-orbit normalization, so the result matches
// subtracting two full correlation vectors at a cost proportional to the
// local neighborhood. Slot 0 is always 0.
func (e *Evaluator) DeltaCorrelationsFromOccupancies(occuAfter, occuBefore []int, ratios []float64, tables []ClusterIndexTable) ([]float64, error) {
	if err := e.checkDelta(ratios, tables); err != nil {
		return nil, err
	}
	delta := make([]float64, e.reg.CorrLength())
	forEachOrbit(e.workers, e.reg.Len(), func(n int) {
		t := tables[n]
		if t.Rows() == 0 {
			return
		}
		orb := e.reg.Orbit(n)
		raw := orb.CorrTensors.RawMatrix()
		k := orb.NumFunctions()
		sums := make([]float64, k)
		for j := 0; j < t.Rows(); j++ {
			row := t.Row(j)
			idxAfter := flatIndex(orb.TensorIndices, row, occuAfter)
			idxBefore := flatIndex(orb.TensorIndices, row, occuBefore)
			for b := 0; b < k; b++ {
				sums[b] += raw.Data[b*raw.Stride+idxAfter] - raw.Data[b*raw.Stride+idxBefore]
			}
		}
		norm := 1 / (float64(t.Rows()) * ratios[n])
		for b := 0; b < k; b++ {
			delta[orb.BitID+b] = sums[b] * norm
		}
	})
	return delta, nil
}

// DeltaInteractionsFromOccupancies is the interaction-vector counterpart of
// DeltaCorrelationsFromOccupancies. Slot 0 (constant term) is always 0.
func (e *Evaluator) DeltaInteractionsFromOccupancies(occuAfter, occuBefore []int, ratios []float64, tables []ClusterIndexTable) ([]float64, error) {
	if e.store == nil {
		return nil, fmt.Errorf("evaluator has no interaction store")
	}
	if err := e.checkDelta(ratios, tables); err != nil {
		return nil, err
	}
	delta := make([]float64, e.reg.InteractionLength())
	forEachOrbit(e.workers, e.reg.Len(), func(n int) {
		t := tables[n]
		if t.Rows() == 0 {
			return
		}
		orb := e.reg.Orbit(n)
		h := e.store.Tensor(n)
		var sum float64
		for j := 0; j < t.Rows(); j++ {
			row := t.Row(j)
			sum += h[flatIndex(orb.TensorIndices, row, occuAfter)] - h[flatIndex(orb.TensorIndices, row, occuBefore)]
		}
		delta[orb.ID] = sum / (float64(t.Rows()) * ratios[n])
	})
	return delta, nil
}

func (e *Evaluator) checkDelta(ratios []float64, tables []ClusterIndexTable) error {
	if len(ratios) != e.reg.Len() {
		return fmt.Errorf("have %d cluster ratios for %d orbits", len(ratios), e.reg.Len())
	}
	if err := e.checkCall(tables, true); err != nil {
		return err
	}
	for n, t := range tables {
		if t.Rows() > 0 && ratios[n] <= 0 {
			return fmt.Errorf("orbit %d: non-positive cluster ratio %v for non-empty restricted table", e.reg.Orbit(n).ID, ratios[n])
		}
	}
	return nil
}
