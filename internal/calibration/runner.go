package calibration

import (
	"context"
	"time"

	"github.com/agbru/mpcalc/internal/bigfloat"
)

// CalibrationPrec is the working precision of the standard calibration
// evaluation. High enough that strategy differences are measurable, low
// enough that a full scan stays in the seconds.
const CalibrationPrec uint = 32768

// calibrationRunner encapsulates the trial run logic for calibration.
type calibrationRunner struct {
	ctx      context.Context
	perTrial time.Duration
}

// newCalibrationRunner creates a new calibration runner.
func newCalibrationRunner(ctx context.Context, timeout time.Duration) *calibrationRunner {
	perTrial := timeout / 6
	if perTrial < 2*time.Second {
		perTrial = 2 * time.Second
	}
	return &calibrationRunner{ctx: ctx, perTrial: perTrial}
}

// runTrial times a single strategy at a single precision.
//
// Parameters:
//   - prec: The working precision of the trial.
//   - useSeries: Whether to use the series or the AGM strategy.
//
// Returns:
//   - time.Duration: The duration of the evaluation.
//   - error: An error if the trial was cancelled or timed out.
func (r *calibrationRunner) runTrial(prec uint, useSeries bool) (duration time.Duration, err error) {
	ctx, cancel := context.WithTimeout(r.ctx, r.perTrial)
	defer cancel()

	done := make(chan time.Duration, 1)
	go func() {
		x := probeArgument(prec)
		z := bigfloat.New(prec)
		start := time.Now()
		logProbe(z, x, prec, useSeries)
		done <- time.Since(start)
	}()

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case d := <-done:
		return d, nil
	}
}

// findBestLogCrossover scans the candidate precisions and returns the largest
// one at which the series beats the AGM.
//
// Parameters:
//   - defaultCrossover: The crossover to keep if no candidate produced a
//     valid measurement pair.
//
// Returns:
//   - uint: The best crossover found.
//   - time.Duration: The cumulative measurement time.
func (r *calibrationRunner) findBestLogCrossover(defaultCrossover uint) (crossover uint, duration time.Duration) {
	candidates := GenerateQuickLogCrossoverCandidates()
	best := defaultCrossover
	measured := false

	for _, cand := range candidates {
		if cand == 0 {
			continue
		}
		seriesDur, err := r.runTrial(cand, true)
		if err != nil {
			continue
		}
		agmDur, err := r.runTrial(cand, false)
		if err != nil {
			continue
		}
		duration += seriesDur + agmDur
		if !measured {
			best = 0
			measured = true
		}
		if seriesDur < agmDur && cand > best {
			best = cand
		}
	}
	return best, duration
}

// findBestParallelThreshold scans the candidate precisions and returns the
// smallest one at which concurrent guard attempts beat sequential ones.
//
// Parameters:
//   - defaultThreshold: The threshold to keep if no candidate produced a
//     valid measurement pair.
//
// Returns:
//   - uint: The best threshold found.
//   - time.Duration: The cumulative measurement time.
func (r *calibrationRunner) findBestParallelThreshold(defaultThreshold uint) (threshold uint, duration time.Duration) {
	candidates := GenerateQuickParallelThresholds()
	best := defaultThreshold
	measured := false

	mb := NewMicroBenchmark()
	for _, cand := range candidates {
		if cand == SequentialOnly {
			continue
		}
		parDur, err := mb.runParallelEvalProbe(r.ctx, cand)
		if err != nil {
			continue
		}
		seqDur, err := r.runTrial(cand, false)
		if err != nil {
			continue
		}
		duration += parDur + 3*seqDur
		if !measured {
			best = SequentialOnly
			measured = true
		}
		if parDur < 3*seqDur*9/10 && cand < best {
			best = cand
		}
	}
	return best, duration
}
