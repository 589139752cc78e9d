package ce

// EvaluatorConfig groups evaluator scheduling parameters.
type EvaluatorConfig struct {
	Workers int // parallel orbit workers (0 = all hardware threads)
}
