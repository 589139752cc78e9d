package ce

import (
	"fmt"
)

// Neighborhood indexes, for every lattice site, the cluster instances that
// contain it: per site and orbit a restricted ClusterIndexTable holding only
// the rows touching that site, plus the cluster ratio that rescales
// restricted averages back to the full orbit normalization.
//
// Built once per supercell from the full tables and immutable afterwards;
// this is what feeds the evaluator's delta routines on single-site moves.
type Neighborhood struct {
	numSites int
	// tables[site][orbit] and ratios[site][orbit]; a zero-row table carries
	// ratio 0 and is skipped by delta evaluation.
	tables [][]ClusterIndexTable
	ratios [][]float64
}

// NewNeighborhood derives the per-site restricted tables from a validated
// full table set.
func NewNeighborhood(reg *OrbitRegistry, numSites int, full []ClusterIndexTable) (*Neighborhood, error) {
	if err := ValidateTables(reg, numSites, full); err != nil {
		return nil, fmt.Errorf("building neighborhood: %w", err)
	}

	tables := make([][]ClusterIndexTable, numSites)
	ratios := make([][]float64, numSites)
	for s := 0; s < numSites; s++ {
		tables[s] = make([]ClusterIndexTable, reg.Len())
		ratios[s] = make([]float64, reg.Len())
	}

	for n := range full {
		t := full[n]
		width := t.Width()
		perSite := make([][]int, numSites)
		for j := 0; j < t.Rows(); j++ {
			row := t.Row(j)
			// A row may name the same site twice in small supercells
			// (periodic images); append it once per distinct site.
			for i, s := range row {
				dup := false
				for _, prev := range row[:i] {
					if prev == s {
						dup = true
						break
					}
				}
				if !dup {
					perSite[s] = append(perSite[s], row...)
				}
			}
		}
		fullJ := float64(t.Rows())
		for s := 0; s < numSites; s++ {
			restricted := len(perSite[s]) / width
			tables[s][n] = tableFromFlat(perSite[s], restricted, width)
			if restricted > 0 {
				// Full multiplicity over restricted count, the divisor that
				// converts a restricted average into a full-orbit average.
				ratios[s][n] = fullJ / float64(restricted)
			}
		}
	}

	return &Neighborhood{numSites: numSites, tables: tables, ratios: ratios}, nil
}

// NumSites returns the supercell size the neighborhood was built for.
func (nb *Neighborhood) NumSites() int {
	return nb.numSites
}

// SiteTables returns the per-orbit restricted tables for one site.
func (nb *Neighborhood) SiteTables(site int) []ClusterIndexTable {
	return nb.tables[site]
}

// SiteRatios returns the per-orbit cluster ratios for one site.
func (nb *Neighborhood) SiteRatios(site int) []float64 {
	return nb.ratios[site]
}
