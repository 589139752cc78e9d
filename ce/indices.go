package ce

import (
	"fmt"
)

// ClusterIndexTable is a rectangular J x I arena of supercell site indices
// for one orbit: row j lists the I member sites of the j-th
// symmetry-equivalent cluster instance. The backing array is flat for cache
// locality; rows are views, never copies.
type ClusterIndexTable struct {
	sites []int
	rows  int
	width int
}

// NewClusterIndexTable builds a table from explicit rows, validating that
// they are rectangular, non-empty, and contain no negative site indices.
func NewClusterIndexTable(rows [][]int) (ClusterIndexTable, error) {
	if len(rows) == 0 {
		return ClusterIndexTable{}, fmt.Errorf("cluster index table must have at least one row")
	}
	width := len(rows[0])
	if width == 0 {
		return ClusterIndexTable{}, fmt.Errorf("cluster index table rows must not be empty")
	}
	flat := make([]int, 0, len(rows)*width)
	for j, row := range rows {
		if len(row) != width {
			return ClusterIndexTable{}, fmt.Errorf("cluster index table is not rectangular: row %d has %d sites, want %d", j, len(row), width)
		}
		for i, s := range row {
			if s < 0 {
				return ClusterIndexTable{}, fmt.Errorf("cluster index table row %d position %d: negative site index %d", j, i, s)
			}
		}
		flat = append(flat, row...)
	}
	return ClusterIndexTable{sites: flat, rows: len(rows), width: width}, nil
}

// tableFromFlat wraps an already-validated flat arena. Used when deriving
// restricted tables; rows may be zero.
func tableFromFlat(flat []int, rows, width int) ClusterIndexTable {
	return ClusterIndexTable{sites: flat, rows: rows, width: width}
}

// Rows returns J, the number of cluster instances in the table.
func (t ClusterIndexTable) Rows() int {
	return t.rows
}

// Width returns I, the cluster size.
func (t ClusterIndexTable) Width() int {
	return t.width
}

// Row returns the site indices of instance j as a view into the arena.
func (t ClusterIndexTable) Row(j int) []int {
	return t.sites[j*t.width : (j+1)*t.width]
}

// ValidateTables checks a full per-orbit table set against a registry and a
// supercell: one table per orbit, widths matching cluster sizes, and all
// site indices inside [0, numSites).
func ValidateTables(reg *OrbitRegistry, numSites int, tables []ClusterIndexTable) error {
	if len(tables) != reg.Len() {
		return fmt.Errorf("have %d cluster index tables for %d orbits", len(tables), reg.Len())
	}
	if numSites < 1 {
		return fmt.Errorf("supercell must have at least one site, got %d", numSites)
	}
	for n, t := range tables {
		orb := reg.Orbit(n)
		if t.Rows() == 0 {
			return fmt.Errorf("orbit %d: cluster index table is empty", orb.ID)
		}
		if t.Width() != orb.ClusterSize() {
			return fmt.Errorf("orbit %d: cluster index table width %d, want cluster size %d", orb.ID, t.Width(), orb.ClusterSize())
		}
		for _, s := range t.sites {
			if s >= numSites {
				return fmt.Errorf("orbit %d: site index %d outside supercell of %d sites", orb.ID, s, numSites)
			}
		}
	}
	return nil
}
