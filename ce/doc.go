// Package ce provides the correlation and interaction evaluation kernel for
// cluster-expansion Monte Carlo on crystal lattices.
//
// # Reading Guide
//
// Start with these three files to understand the kernel:
//   - orbit.go: Orbit records and the OrbitRegistry (basis tables, mixed-radix multipliers)
//   - indices.go: ClusterIndexTable, the per-supercell site-index arenas
//   - evaluator.go: the four correlation/interaction routines and their delta forms
//
// # Architecture
//
// An external cluster-subspace layer supplies orbit definitions and, per
// supercell, the cluster index tables. The fitted coefficients collapse into
// an InteractionStore (interactions.go). Delta evaluation over local
// configuration changes is fed by a per-site Neighborhood index
// (neighborhood.go). ClusterExpansion (expansion.go) ties registry,
// coefficients, and evaluator together for energy prediction.
//
// All registry, table, and store types are immutable after construction and
// safe to share across concurrent evaluator calls. The evaluator itself is
// stateless; each call runs one parallel loop over orbits, every orbit
// writing a disjoint slice of the output vector.
package ce
