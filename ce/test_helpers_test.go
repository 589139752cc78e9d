package ce

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// chainSystem is a 4-site binary chain with two orbits: a point orbit
// (spin basis -1/+1) and a nearest-neighbor pair orbit with two basis
// functions over the 4 joint configurations.
//
// Correlation layout: [empty, point, pair_k0, pair_k1].
func chainSystem() (*OrbitRegistry, []ClusterIndexTable) {
	orbits := []Orbit{
		{
			ID:            1,
			BitID:         1,
			TensorIndices: []int{1},
			CorrTensors:   mat.NewDense(1, 2, []float64{-1, 1}),
		},
		{
			ID:            2,
			BitID:         2,
			TensorIndices: []int{1, 2},
			CorrTensors: mat.NewDense(2, 4, []float64{
				1, -1, -1, 1,
				0.5, 0.25, -0.25, 1.5,
			}),
		},
	}
	reg, err := NewOrbitRegistry(orbits)
	if err != nil {
		panic(err)
	}
	tables := mustTables([][][]int{
		{{0}, {1}, {2}, {3}},
		{{0, 1}, {1, 2}, {2, 3}, {3, 0}},
	})
	return reg, tables
}

// chainCoeffs are fitted coefficients for chainSystem's correlation layout.
func chainCoeffs() []float64 {
	return []float64{0.75, -0.3, 0.2, 1.1}
}

func mustTables(rows [][][]int) []ClusterIndexTable {
	tables := make([]ClusterIndexTable, len(rows))
	for n, r := range rows {
		t, err := NewClusterIndexTable(r)
		if err != nil {
			panic(err)
		}
		tables[n] = t
	}
	return tables
}

func mustEvaluator(reg *OrbitRegistry, store *InteractionStore, workers int) *Evaluator {
	e, err := NewEvaluator(reg, store, EvaluatorConfig{Workers: workers})
	if err != nil {
		panic(err)
	}
	return e
}

// randomBinaryOccupancy draws an occupancy for a binary lattice.
func randomBinaryOccupancy(rng *rand.Rand, numSites int) []int {
	occu := make([]int, numSites)
	for i := range occu {
		occu[i] = rng.Intn(2)
	}
	return occu
}
