package ce

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SweepConfig groups flip-sweep parameters.
type SweepConfig struct {
	Steps           int   // number of single-site trial flips (every flip is applied)
	Seed            int64 // master seed for the partitioned RNG
	CheckpointEvery int   // full recomputation interval in steps (0 = final checkpoint only)
}

// SweepResult summarizes one sweep: the worst drift observed between
// delta-accumulated and fully recomputed vectors, the final energy, and
// delta-call timing statistics.
type SweepResult struct {
	Steps           int
	MaxCorrDrift    float64
	MaxEnergyDrift  float64
	FinalEnergy     float64
	DeltaMicrosMean float64
	DeltaMicrosP50  float64
	DeltaMicrosP99  float64
}

// RunSweep drives the evaluator the way a sampler does: start from a random
// occupancy, apply random single-site flips, evaluate each with the delta
// routines over the site's neighborhood, accumulate, and periodically
// checkpoint against the full routines. Every flip is applied
// unconditionally; acceptance rules belong to external samplers.
//
// siteStates holds the number of allowed species per supercell site and
// must match the radix scheme the orbits were built with.
func RunSweep(exp *ClusterExpansion, siteStates []int, tables []ClusterIndexTable, cfg SweepConfig) (*SweepResult, error) {
	if cfg.Steps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", cfg.Steps)
	}
	numSites := len(siteStates)
	flippable := 0
	for i, s := range siteStates {
		if s < 1 {
			return nil, fmt.Errorf("site %d allows %d species, want >= 1", i, s)
		}
		if s > 1 {
			flippable++
		}
	}
	if flippable == 0 {
		return nil, fmt.Errorf("no site allows more than one species; nothing to flip")
	}
	nb, err := NewNeighborhood(exp.Registry(), numSites, tables)
	if err != nil {
		return nil, err
	}

	rng := NewPartitionedRNG(NewRunKey(cfg.Seed))
	occRNG := rng.ForSubsystem(SubsystemOccupancy)
	flipRNG := rng.ForSubsystem(SubsystemFlips)

	occu := make([]int, numSites)
	for i := range occu {
		occu[i] = occRNG.Intn(siteStates[i])
	}
	next := make([]int, numSites)

	eval := exp.Evaluator()
	coeffs := exp.Coefficients()
	accCorr, err := eval.CorrelationsFromOccupancy(occu, tables)
	if err != nil {
		return nil, err
	}
	energy := floats.Dot(accCorr, coeffs)

	res := &SweepResult{Steps: cfg.Steps}
	micros := make([]float64, 0, cfg.Steps)

	for step := 1; step <= cfg.Steps; step++ {
		site := flipRNG.Intn(numSites)
		for siteStates[site] < 2 {
			site = flipRNG.Intn(numSites)
		}
		code := flipRNG.Intn(siteStates[site] - 1)
		if code >= occu[site] {
			code++
		}
		copy(next, occu)
		next[site] = code

		start := time.Now()
		dCorr, err := eval.DeltaCorrelationsFromOccupancies(next, occu, nb.SiteRatios(site), nb.SiteTables(site))
		if err != nil {
			return nil, err
		}
		dInter, err := eval.DeltaInteractionsFromOccupancies(next, occu, nb.SiteRatios(site), nb.SiteTables(site))
		if err != nil {
			return nil, err
		}
		micros = append(micros, float64(time.Since(start).Nanoseconds())/1e3)

		floats.Add(accCorr, dCorr)
		energy += floats.Sum(dInter)
		occu[site] = code

		if (cfg.CheckpointEvery > 0 && step%cfg.CheckpointEvery == 0) || step == cfg.Steps {
			exact, err := eval.CorrelationsFromOccupancy(occu, tables)
			if err != nil {
				return nil, err
			}
			drift := maxAbsDiff(accCorr, exact)
			exactEnergy := floats.Dot(exact, coeffs)
			eDrift := math.Abs(energy - exactEnergy)
			logrus.Debugf("checkpoint step=%d corr_drift=%.3e energy_drift=%.3e", step, drift, eDrift)
			if drift > res.MaxCorrDrift {
				res.MaxCorrDrift = drift
			}
			if eDrift > res.MaxEnergyDrift {
				res.MaxEnergyDrift = eDrift
			}
			copy(accCorr, exact)
			energy = exactEnergy
		}
	}

	res.FinalEnergy = energy
	sort.Float64s(micros)
	res.DeltaMicrosMean = stat.Mean(micros, nil)
	res.DeltaMicrosP50 = stat.Quantile(0.5, stat.Empirical, micros, nil)
	res.DeltaMicrosP99 = stat.Quantile(0.99, stat.Empirical, micros, nil)
	return res, nil
}

func maxAbsDiff(a, b []float64) float64 {
	var worst float64
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > worst {
			worst = d
		}
	}
	return worst
}
