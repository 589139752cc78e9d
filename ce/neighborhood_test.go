package ce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewNeighborhood_RestrictedTablesAndRatios(t *testing.T) {
	reg, tables := chainSystem()
	nb, err := NewNeighborhood(reg, 4, tables)
	require.NoError(t, err)
	assert.Equal(t, 4, nb.NumSites())

	// Point orbit: each site appears in exactly one of the 4 rows.
	pt := nb.SiteTables(1)[0]
	assert.Equal(t, 1, pt.Rows())
	assert.Equal(t, []int{1}, pt.Row(0))
	assert.Equal(t, 4.0, nb.SiteRatios(1)[0])

	// Pair orbit on the 4-site ring: site 1 sits in rows (0,1) and (1,2).
	pair := nb.SiteTables(1)[1]
	assert.Equal(t, 2, pair.Rows())
	assert.Equal(t, []int{0, 1}, pair.Row(0))
	assert.Equal(t, []int{1, 2}, pair.Row(1))
	assert.Equal(t, 2.0, nb.SiteRatios(1)[1])
}

func TestNewNeighborhood_UntouchedOrbitIsEmptyWithZeroRatio(t *testing.T) {
	// A pair orbit that never touches site 3.
	reg, err := NewOrbitRegistry([]Orbit{{
		ID:            1,
		BitID:         1,
		TensorIndices: []int{1, 2},
		CorrTensors:   mat.NewDense(1, 4, []float64{0, 1, 2, 3}),
	}})
	require.NoError(t, err)
	tables := mustTables([][][]int{{{0, 1}, {1, 2}}})

	nb, err := NewNeighborhood(reg, 4, tables)
	require.NoError(t, err)
	assert.Equal(t, 0, nb.SiteTables(3)[0].Rows())
	assert.Equal(t, 0.0, nb.SiteRatios(3)[0])
}

func TestNewNeighborhood_DuplicateSiteInRowCountedOnce(t *testing.T) {
	// Periodic images can map both cluster sites onto the same supercell
	// site; the row must enter that site's restricted table once.
	reg, err := NewOrbitRegistry([]Orbit{{
		ID:            1,
		BitID:         1,
		TensorIndices: []int{1, 2},
		CorrTensors:   mat.NewDense(1, 4, []float64{0, 1, 2, 3}),
	}})
	require.NoError(t, err)
	tables := mustTables([][][]int{{{0, 0}, {1, 0}}})

	nb, err := NewNeighborhood(reg, 2, tables)
	require.NoError(t, err)
	site0 := nb.SiteTables(0)[0]
	assert.Equal(t, 2, site0.Rows())
	assert.Equal(t, 1.0, nb.SiteRatios(0)[0])

	site1 := nb.SiteTables(1)[0]
	assert.Equal(t, 1, site1.Rows())
	assert.Equal(t, 2.0, nb.SiteRatios(1)[0])
}

func TestNewNeighborhood_ValidatesTables(t *testing.T) {
	reg, tables := chainSystem()
	_, err := NewNeighborhood(reg, 3, tables)
	assert.ErrorContains(t, err, "building neighborhood")
}
