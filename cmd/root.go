package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	ce "github.com/lattice-sim/lattice-sim/ce"
)

var (
	// CLI flags shared by the sweep commands
	modelPath       string  // Path to the expansion model YAML file
	seed            int64   // Master seed for occupancy and flip generation
	steps           int     // Number of single-site flips to evaluate
	checkpointEvery int     // Full-recomputation interval in steps
	workers         int     // Parallel orbit workers (0 = all CPUs)
	logLevel        string  // Log verbosity level
	driftTolerance  float64 // Max tolerated delta-vs-full drift for `check`
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "lattice-sim",
	Short: "Correlation/interaction evaluation kernel for lattice cluster expansions",
}

// loadExpansion loads the model file and builds the expansion, fataling on
// any configuration error.
func loadExpansion() (*ce.ClusterExpansion, *ExpansionModel, []ce.ClusterIndexTable) {
	if modelPath == "" {
		logrus.Fatalf("No expansion model file provided. Use --model.")
	}
	model, err := LoadExpansionModel(modelPath)
	if err != nil {
		logrus.Fatalf("Unable to load expansion model: %v", err)
	}
	exp, tables, err := model.Build(workers)
	if err != nil {
		logrus.Fatalf("Invalid expansion model: %v", err)
	}
	return exp, model, tables
}

// runCmd evaluates a random flip sweep and reports timing and drift
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a random-flip evaluation sweep over the supercell",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		exp, model, tables := loadExpansion()
		logrus.Infof("Starting sweep: %d orbits, %d sites, %d steps, seed=%d",
			exp.Registry().Len(), len(model.SiteStates), steps, seed)

		startTime := time.Now()
		res, err := ce.RunSweep(exp, model.SiteStates, tables, ce.SweepConfig{
			Steps:           steps,
			Seed:            seed,
			CheckpointEvery: checkpointEvery,
		})
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}

		logrus.Infof("Sweep complete in %v: final_energy=%.6f", time.Since(startTime), res.FinalEnergy)
		logrus.Infof("Delta call micros: mean=%.2f p50=%.2f p99=%.2f",
			res.DeltaMicrosMean, res.DeltaMicrosP50, res.DeltaMicrosP99)
		logrus.Infof("Max checkpoint drift: corr=%.3e energy=%.3e", res.MaxCorrDrift, res.MaxEnergyDrift)
	},
}

// checkCmd verifies delta-vs-full consistency and fails on drift
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify delta evaluation against full recomputation at every step",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		exp, model, tables := loadExpansion()
		res, err := ce.RunSweep(exp, model.SiteStates, tables, ce.SweepConfig{
			Steps:           steps,
			Seed:            seed,
			CheckpointEvery: 1, // checkpoint after every flip
		})
		if err != nil {
			logrus.Fatalf("Check sweep failed: %v", err)
		}

		if res.MaxCorrDrift > driftTolerance || res.MaxEnergyDrift > driftTolerance {
			logrus.Errorf("Drift exceeds tolerance %.1e: corr=%.3e energy=%.3e",
				driftTolerance, res.MaxCorrDrift, res.MaxEnergyDrift)
			os.Exit(1)
		}
		logrus.Infof("Delta evaluation consistent over %d flips: corr=%.3e energy=%.3e",
			res.Steps, res.MaxCorrDrift, res.MaxEnergyDrift)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{runCmd, checkCmd} {
		c.Flags().StringVar(&modelPath, "model", "", "Path to expansion model YAML (orbits, coefficients, cluster indices)")
		c.Flags().Int64Var(&seed, "seed", 42, "Seed for occupancy and flip generation")
		c.Flags().IntVar(&steps, "steps", 10000, "Number of single-site flips to evaluate")
		c.Flags().IntVar(&workers, "workers", 0, "Parallel orbit workers (0 = all CPUs)")
		c.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	}
	runCmd.Flags().IntVar(&checkpointEvery, "checkpoint-every", 1000, "Full recomputation interval in steps (0 = final only)")
	checkCmd.Flags().Float64Var(&driftTolerance, "tolerance", 1e-8, "Max tolerated absolute drift between delta and full evaluation")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
}
