package ce

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Orbit describes one symmetry-equivalence class of site clusters: the basis
// functions it contributes to the correlation vector and the mixed-radix
// scheme that flattens a joint site configuration into a table column.
type Orbit struct {
	// ID is the orbit's 1-based slot in interaction vectors. Slot 0 is the
	// empty cluster (constant term).
	ID int

	// BitID is the start offset of this orbit's basis functions in the
	// correlation vector. Slot 0 is the empty cluster, so the first orbit
	// has BitID 1.
	BitID int

	// TensorIndices holds one mixed-radix multiplier per site position in
	// the cluster. The flattened lookup index for a cluster instance is
	// sum_i TensorIndices[i]*occu[site_i]. Supplied by orbit construction;
	// a wrong multiplier corrupts lookups silently, so it is never inferred.
	TensorIndices []int

	// CorrTensors holds precomputed basis-function values: one row per
	// basis function ("bit combination"), one column per joint
	// site-configuration code.
	CorrTensors *mat.Dense
}

// ClusterSize returns the number of sites in one cluster instance.
func (o *Orbit) ClusterSize() int {
	return len(o.TensorIndices)
}

// NumFunctions returns K, the number of basis functions (correlation slots)
// this orbit contributes.
func (o *Orbit) NumFunctions() int {
	k, _ := o.CorrTensors.Dims()
	return k
}

// NumConfigs returns N, the number of joint site-configuration codes.
func (o *Orbit) NumConfigs() int {
	_, n := o.CorrTensors.Dims()
	return n
}

func (o *Orbit) validate() error {
	if o.ID < 1 {
		return fmt.Errorf("orbit id must be >= 1, got %d", o.ID)
	}
	if o.BitID < 1 {
		return fmt.Errorf("bit_id must be >= 1 (slot 0 is the empty cluster), got %d", o.BitID)
	}
	if len(o.TensorIndices) == 0 {
		return fmt.Errorf("tensor_indices must not be empty")
	}
	if o.CorrTensors == nil {
		return fmt.Errorf("correlation tensors missing")
	}
	k, n := o.CorrTensors.Dims()
	if k < 1 || n < 1 {
		return fmt.Errorf("correlation tensors must be non-empty, got %dx%d", k, n)
	}

	// The multipliers must form a proper mixed-radix scheme whose implied
	// per-site state counts multiply out to exactly N columns.
	m := append([]int(nil), o.TensorIndices...)
	sort.Ints(m)
	if m[0] != 1 {
		return fmt.Errorf("tensor_indices must contain the unit multiplier, got %v", o.TensorIndices)
	}
	for i := 0; i+1 < len(m); i++ {
		if m[i+1] <= m[i] || m[i+1]%m[i] != 0 {
			return fmt.Errorf("tensor_indices %v do not form a mixed-radix scheme", o.TensorIndices)
		}
	}
	last := m[len(m)-1]
	if n%last != 0 || n/last < 2 {
		return fmt.Errorf("correlation tensor has %d columns, incompatible with tensor_indices %v", n, o.TensorIndices)
	}
	return nil
}

// OrbitRegistry is an ordered, immutable collection of orbits defining the
// layout of correlation and interaction vectors. Construction validates
// every orbit eagerly; a registry that exists is well-formed.
type OrbitRegistry struct {
	orbits  []Orbit
	corrLen int
}

// NewOrbitRegistry builds a registry from orbits ordered by id. Orbit ids
// must be 1-based and consecutive, and bit_id ranges must tile the
// correlation vector contiguously starting at slot 1.
func NewOrbitRegistry(orbits []Orbit) (*OrbitRegistry, error) {
	next := 1
	for i := range orbits {
		o := &orbits[i]
		if err := o.validate(); err != nil {
			return nil, fmt.Errorf("orbit at position %d: %w", i, err)
		}
		if o.ID != i+1 {
			return nil, fmt.Errorf("orbit at position %d has id %d, want %d", i, o.ID, i+1)
		}
		if o.BitID != next {
			return nil, fmt.Errorf("orbit %d has bit_id %d, want %d (correlation slots must be contiguous)", o.ID, o.BitID, next)
		}
		next += o.NumFunctions()
	}
	return &OrbitRegistry{orbits: orbits, corrLen: next}, nil
}

// Len returns the number of orbits.
func (r *OrbitRegistry) Len() int {
	return len(r.orbits)
}

// Orbit returns the orbit at 0-based position n (id n+1).
func (r *OrbitRegistry) Orbit(n int) *Orbit {
	return &r.orbits[n]
}

// CorrLength returns the correlation vector length: one slot for the empty
// cluster plus one per basis function across all orbits.
func (r *OrbitRegistry) CorrLength() int {
	return r.corrLen
}

// InteractionLength returns the interaction vector length: one slot for the
// constant term plus one per orbit.
func (r *OrbitRegistry) InteractionLength() int {
	return len(r.orbits) + 1
}
