// Package trainer drives repeated gradient descent steps over a fixed batch.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/born-ml/fdnet/internal/nn"
)

// RunConfig captures the knobs required by the training loop.
type RunConfig struct {
	Iterations int
	LearnRate  float64
	LogEvery   int
	Logger     *log.Logger
}

// Result summarizes a finished or interrupted run.
type Result struct {
	Steps    int
	Cost     float64
	Accuracy float64
}

// Run trains net on examples until cfg.Iterations steps are done or ctx is
// cancelled. Cancellation is only observed between steps; the partial Result
// is returned together with ctx.Err().
func Run(ctx context.Context, net *nn.Network, examples []*nn.Example, cfg RunConfig) (Result, error) {
	if cfg.Iterations <= 0 {
		return Result{}, errors.New("trainer: iterations must be > 0")
	}
	if cfg.LearnRate <= 0 {
		return Result{}, errors.New("trainer: learn rate must be > 0")
	}
	if len(examples) == 0 {
		return Result{}, nn.ErrEmptyBatch
	}
	if cfg.LogEvery <= 0 {
		cfg.LogEvery = 100
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	var res Result
	for step := 1; step <= cfg.Iterations; step++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		start := time.Now()
		if err := net.TrainStep(examples, cfg.LearnRate); err != nil {
			return res, fmt.Errorf("step %d: %w", step, err)
		}
		elapsed := time.Since(start)

		res.Steps = step
		res.Cost = net.Cost()

		if step%cfg.LogEvery == 0 || step == cfg.Iterations {
			acc, err := Accuracy(net, examples)
			if err != nil {
				return res, err
			}
			res.Accuracy = acc
			logger.Printf("step=%d cost=%.6f accuracy=%.2f step_ms=%.2f",
				step,
				res.Cost,
				acc,
				float64(elapsed.Microseconds())/1000,
			)
		}
	}

	return res, nil
}

// Accuracy returns the fraction of examples whose predicted class matches
// the argmax of their expected outputs.
func Accuracy(net *nn.Network, examples []*nn.Example) (float64, error) {
	if len(examples) == 0 {
		return 0, nn.ErrEmptyBatch
	}
	correct := 0
	for i, ex := range examples {
		class, err := net.Classify(ex.Inputs())
		if err != nil {
			return 0, fmt.Errorf("example %d: %w", i, err)
		}
		if class == ex.Label() {
			correct++
		}
	}
	return float64(correct) / float64(len(examples)), nil
}
