package cmd

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	ce "github.com/lattice-sim/lattice-sim/ce"
)

// ExpansionModel is the YAML schema for a fitted cluster-expansion model
// plus the index tables of one target supercell, supplied by the external
// cluster-subspace layer.
type ExpansionModel struct {
	Version      string        `yaml:"version"`
	SiteStates   []int         `yaml:"site_states"`
	Coefficients []float64     `yaml:"coefficients"`
	Orbits       []OrbitConfig `yaml:"orbits"`
}

// OrbitConfig is one orbit record in the model file.
type OrbitConfig struct {
	ID                 int         `yaml:"id"`
	BitID              int         `yaml:"bit_id"`
	TensorIndices      []int       `yaml:"tensor_indices"`
	CorrelationTensors [][]float64 `yaml:"correlation_tensors"`
	ClusterIndices     [][]int     `yaml:"cluster_indices"`
}

// LoadExpansionModel reads and parses a model YAML file.
func LoadExpansionModel(path string) (*ExpansionModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}
	var m ExpansionModel
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing model file %s: %w", path, err)
	}
	return &m, nil
}

// Build turns the parsed model into a ClusterExpansion and the supercell's
// cluster index tables, validating everything eagerly.
func (m *ExpansionModel) Build(workers int) (*ce.ClusterExpansion, []ce.ClusterIndexTable, error) {
	orbits := make([]ce.Orbit, len(m.Orbits))
	tables := make([]ce.ClusterIndexTable, len(m.Orbits))
	for i, oc := range m.Orbits {
		k := len(oc.CorrelationTensors)
		if k == 0 {
			return nil, nil, fmt.Errorf("orbit %d: correlation_tensors is empty", oc.ID)
		}
		n := len(oc.CorrelationTensors[0])
		flat := make([]float64, 0, k*n)
		for r, row := range oc.CorrelationTensors {
			if len(row) != n {
				return nil, nil, fmt.Errorf("orbit %d: correlation_tensors row %d has %d entries, want %d", oc.ID, r, len(row), n)
			}
			flat = append(flat, row...)
		}
		orbits[i] = ce.Orbit{
			ID:            oc.ID,
			BitID:         oc.BitID,
			TensorIndices: oc.TensorIndices,
			CorrTensors:   mat.NewDense(k, n, flat),
		}
		t, err := ce.NewClusterIndexTable(oc.ClusterIndices)
		if err != nil {
			return nil, nil, fmt.Errorf("orbit %d: %w", oc.ID, err)
		}
		tables[i] = t
	}

	reg, err := ce.NewOrbitRegistry(orbits)
	if err != nil {
		return nil, nil, err
	}
	if err := ce.ValidateTables(reg, len(m.SiteStates), tables); err != nil {
		return nil, nil, err
	}
	exp, err := ce.NewClusterExpansion(reg, m.Coefficients, ce.EvaluatorConfig{Workers: workers})
	if err != nil {
		return nil, nil, err
	}
	return exp, tables, nil
}
