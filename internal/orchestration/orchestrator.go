package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/mpcalc/internal/bigfloat"
	"github.com/agbru/mpcalc/internal/cli"
	"github.com/agbru/mpcalc/internal/config"
	apperrors "github.com/agbru/mpcalc/internal/errors"
	"github.com/agbru/mpcalc/internal/eval"
	"github.com/agbru/mpcalc/internal/ui"
)

// EvaluationResult encapsulates the outcome of a single evaluation attempt.
// It serves as a standardized container for results computed at different
// guard precisions, facilitating comparison and reporting.
type EvaluationResult struct {
	// Name identifies the attempt (e.g., "prec+64").
	Name string
	// WorkPrec is the working precision of the attempt in bits.
	WorkPrec uint
	// Result is the value rounded to the target precision. It is nil if an
	// error occurred.
	Result *bigfloat.Float
	// Duration is the time taken to complete the evaluation.
	Duration time.Duration
	// Err contains any error that occurred during the evaluation.
	Err error
}

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel. A larger buffer reduces the likelihood of blocking evaluation
// goroutines when the UI is slow to consume updates.
const ProgressBufferMultiplier = 5

// DefaultParallelThresholdBits is the target precision below which the guard
// attempts run sequentially. Short evaluations finish before goroutine and
// scheduling overhead pays off; calibration overrides the exact threshold.
const DefaultParallelThresholdBits = 256

var parallelThresholdBits atomic.Uint64

func init() {
	parallelThresholdBits.Store(DefaultParallelThresholdBits)
}

// ParallelThreshold returns the current parallel-evaluation threshold in bits.
func ParallelThreshold() uint {
	return uint(parallelThresholdBits.Load())
}

// SetParallelThreshold sets the target precision below which guard attempts
// run sequentially. Safe for concurrent use.
func SetParallelThreshold(bits uint) {
	parallelThresholdBits.Store(uint64(bits))
}

// ExecuteEvaluations orchestrates the concurrent evaluation of one expression
// at escalating guard precisions.
//
// Each attempt evaluates the expression at the target precision plus one of
// the guard offsets, then rounds the value to the target precision with the
// configured mode. Agreement of all rounded results confirms the correct
// rounding of the answer.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - guards: The guard offsets to evaluate at, in bits.
//   - cfg: The application configuration (expression, precision, mode).
//   - out: The io.Writer for displaying progress updates.
//
// Returns:
//   - []EvaluationResult: A slice containing the results of each attempt.
func ExecuteEvaluations(ctx context.Context, guards []uint, cfg config.AppConfig, out io.Writer) []EvaluationResult {
	target := cfg.PrecisionBits()
	mode, _ := cfg.RoundingMode()

	g, ctx := errgroup.WithContext(ctx)
	if target < ParallelThreshold() {
		g.SetLimit(1)
	}
	results := make([]EvaluationResult, len(guards))
	progressChan := make(chan eval.ProgressUpdate, len(guards)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go cli.DisplayProgress(&displayWg, progressChan, len(guards), out)

	for i, guard := range guards {
		idx, offset := i, guard
		g.Go(func() error {
			startTime := time.Now()
			raw, err := evaluateWithContext(ctx, cfg.Expression, target+offset, mode)
			var rounded *bigfloat.Float
			if err == nil {
				rounded = bigfloat.New(target).SetMode(mode).Set(raw)
			}
			results[idx] = EvaluationResult{
				Name:     fmt.Sprintf("prec+%d", offset),
				WorkPrec: target + offset,
				Result:   rounded,
				Duration: time.Since(startTime),
				Err:      err,
			}
			progressChan <- eval.ProgressUpdate{AttemptIndex: idx, Value: 1.0}
			return nil
		})
	}

	g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// evaluateWithContext evaluates the expression in a goroutine so that the
// context deadline is honored. An evaluation that outlives the context keeps
// running until it completes; its result is discarded.
func evaluateWithContext(ctx context.Context, expression string, prec uint, mode bigfloat.RoundingMode) (*bigfloat.Float, error) {
	type outcome struct {
		z   *bigfloat.Float
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		ev := eval.NewEvaluator(prec, mode, nil)
		z, err := ev.Evaluate(expression)
		done <- outcome{z, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-done:
		return out.z, out.err
	}
}

// sameValue reports whether two rounded results agree. NaN agrees with NaN,
// and zeros must carry the same sign.
func sameValue(a, b *bigfloat.Float) bool {
	if a.IsNaN() || b.IsNaN() {
		return a.IsNaN() && b.IsNaN()
	}
	if a.IsZero() && b.IsZero() {
		return a.Signbit() == b.Signbit()
	}
	return a.Cmp(b) == 0
}

// AnalyzeVerificationResults processes the results from the guard-precision
// attempts and generates a summary report.
//
// It sorts the results by execution time, validates that every successful
// attempt rounded to the same value, and displays a comparative table. It
// handles the logic for determining global success or failure based on the
// individual outcomes.
//
// Parameters:
//   - results: The slice of evaluation results to analyze.
//   - cfg: The application configuration.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeVerificationResults(results []EvaluationResult, cfg config.AppConfig, out io.Writer) int {
	sort.Slice(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValidResult *bigfloat.Float
	var firstValidResultDuration time.Duration
	var firstError error
	successCount := 0

	fmt.Fprintf(out, "\n--- Verification Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sAttempt%s\t%sDuration%s\t%sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())

	for _, res := range results {
		var status string
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
			if firstError == nil {
				firstError = res.Err
			}
		} else {
			status = fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
			successCount++
			if firstValidResult == nil {
				firstValidResult = res.Result
				firstValidResultDuration = res.Duration
			}
		}
		duration := cli.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		fmt.Fprintf(tw, "%s%s%s\t%s%s%s\t%s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(),
			ui.ColorYellow(), duration, ui.ColorReset(),
			status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No attempt could complete the evaluation.\n")
		return apperrors.HandleEvaluationError(firstError, 0, out, cli.CLIColorProvider{})
	}

	mismatch := false
	for _, res := range results {
		if res.Err == nil && !sameValue(res.Result, firstValidResult) {
			mismatch = true
			break
		}
	}
	if mismatch {
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! The guard precisions rounded to different values.")
		return apperrors.ExitErrorMismatch
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All rounded results are consistent.")
	cli.DisplayResult(firstValidResult, cfg.Expression, firstValidResultDuration, cfg.Verbose, cfg.Details, out)
	return apperrors.ExitSuccess
}
