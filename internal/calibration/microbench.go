// Package calibration tunes the evaluation engine for the host machine.
// This file implements fast micro-benchmarks for quick tuning estimation (~100ms).
package calibration

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/agbru/mpcalc/internal/bigfloat"
	"github.com/agbru/mpcalc/internal/mpmath"
	"github.com/agbru/mpcalc/internal/parallel"
)

// ─────────────────────────────────────────────────────────────────────────────
// Micro-benchmark Configuration
// ─────────────────────────────────────────────────────────────────────────────

const (
	// MicroBenchIterations is the number of iterations per test for averaging.
	MicroBenchIterations = 3

	// MicroBenchTimeout is the maximum time for the entire micro-benchmark suite.
	MicroBenchTimeout = 150 * time.Millisecond

	// MicroBenchPerTestTimeout is the maximum time per individual test.
	MicroBenchPerTestTimeout = 30 * time.Millisecond
)

// MicroBenchTestPrecisions defines the working precisions to probe.
// These are chosen to span the range where the strategy switches occur.
var MicroBenchTestPrecisions = []uint{
	512,   // low precision, series territory
	2048,  // medium, near the expected crossover
	8192,  // high, AGM territory on most machines
	16384, // very high, AGM should clearly win
}

// ─────────────────────────────────────────────────────────────────────────────
// Micro-benchmark Types
// ─────────────────────────────────────────────────────────────────────────────

// MicroBenchmark performs fast probes to estimate the tuned parameters.
type MicroBenchmark struct {
	// TestPrecisions are the working precisions to probe (default: MicroBenchTestPrecisions)
	TestPrecisions []uint
	// Iterations is the number of iterations per test (default: MicroBenchIterations)
	Iterations int
	// Timeout is the maximum duration for the entire benchmark
	Timeout time.Duration
}

// TuningResults contains the estimated parameters from micro-benchmarks.
type TuningResults struct {
	// LogCrossoverBits is the estimated series/AGM crossover in bits
	LogCrossoverBits uint
	// ParallelThresholdBits is the estimated parallel-evaluation threshold in bits
	ParallelThresholdBits uint
	// Confidence is a score from 0-1 indicating result reliability
	Confidence float64
	// Duration is how long the micro-benchmark took
	Duration time.Duration
}

// probeResult holds timing data for a single configuration probe.
type probeResult struct {
	prec      uint
	useSeries bool
	parallel  bool
	duration  time.Duration
	err       error
}

// ─────────────────────────────────────────────────────────────────────────────
// Micro-benchmark Implementation
// ─────────────────────────────────────────────────────────────────────────────

// NewMicroBenchmark creates a new MicroBenchmark with default settings.
func NewMicroBenchmark() *MicroBenchmark {
	return &MicroBenchmark{
		TestPrecisions: MicroBenchTestPrecisions,
		Iterations:     MicroBenchIterations,
		Timeout:        MicroBenchTimeout,
	}
}

// RunQuick performs rapid micro-benchmarks to estimate the tuned parameters.
// It times the two logarithm strategies at each probe precision and compares
// sequential against concurrent evaluation to find where each switch pays.
//
// Returns:
//   - TuningResults: The estimated parameters
//   - error: An error if the benchmark failed critically
func (mb *MicroBenchmark) RunQuick(ctx context.Context) (TuningResults, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, mb.Timeout)
	defer cancel()

	// Run probes in parallel for speed
	results := mb.runParallelProbes(ctx)

	// Analyze results to determine the tuned parameters
	tunings := mb.analyzeResults(results)
	tunings.Duration = time.Since(start)

	return tunings, nil
}

// runParallelProbes executes the timing probes concurrently.
func (mb *MicroBenchmark) runParallelProbes(ctx context.Context) []probeResult {
	var results []probeResult
	var mu sync.Mutex
	var wg sync.WaitGroup

	type probeConfig struct {
		prec      uint
		useSeries bool
		parallel  bool
	}

	configs := make([]probeConfig, 0, len(mb.TestPrecisions)*3)
	for _, prec := range mb.TestPrecisions {
		// For each precision: series log, AGM log, and a parallel-vs-sequential pair
		configs = append(configs,
			probeConfig{prec, true, false},
			probeConfig{prec, false, false},
			probeConfig{prec, false, true},
		)
	}

	// Limit concurrency to avoid overwhelming the system
	semaphore := make(chan struct{}, runtime.NumCPU())

	for _, cfg := range configs {
		wg.Add(1)
		go func(c probeConfig) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}:
				defer func() { <-semaphore }()
			}

			var dur time.Duration
			var err error
			if c.parallel {
				dur, err = mb.runParallelEvalProbe(ctx, c.prec)
			} else {
				dur, err = mb.runLogProbe(ctx, c.prec, c.useSeries)
			}

			mu.Lock()
			results = append(results, probeResult{
				prec:      c.prec,
				useSeries: c.useSeries,
				parallel:  c.parallel,
				duration:  dur,
				err:       err,
			})
			mu.Unlock()
		}(cfg)
	}

	wg.Wait()
	return results
}

// runLogProbe times one logarithm strategy at the given precision.
func (mb *MicroBenchmark) runLogProbe(ctx context.Context, prec uint, useSeries bool) (time.Duration, error) {
	x := probeArgument(prec)
	z := bigfloat.New(prec)

	// Warm up
	logProbe(z, x, prec, useSeries)

	var totalDuration time.Duration
	for i := 0; i < mb.Iterations; i++ {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		start := time.Now()
		logProbe(z, x, prec, useSeries)
		totalDuration += time.Since(start)
	}

	return totalDuration / time.Duration(mb.Iterations), nil
}

// runParallelEvalProbe times three concurrent logarithm evaluations at the
// given precision, matching the fan-out of the guard-precision cross-check.
func (mb *MicroBenchmark) runParallelEvalProbe(ctx context.Context, prec uint) (time.Duration, error) {
	x := probeArgument(prec)

	var totalDuration time.Duration
	for i := 0; i < mb.Iterations; i++ {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		start := time.Now()
		var wg sync.WaitGroup
		var ec parallel.ErrorCollector
		for _, offset := range []uint{0, 32, 64} {
			wg.Add(1)
			go func(p uint) {
				defer wg.Done()
				if err := ctx.Err(); err != nil {
					ec.SetError(err)
					return
				}
				z := bigfloat.New(p)
				mpmath.LogAGM(z, x, p)
			}(prec + offset)
		}
		wg.Wait()
		if err := ec.Err(); err != nil {
			return 0, err
		}
		totalDuration += time.Since(start)
	}

	return totalDuration / time.Duration(mb.Iterations), nil
}

// probeArgument returns a deterministic argument away from 1 and from powers
// of two, so neither strategy gets an unrepresentative shortcut.
func probeArgument(prec uint) *bigfloat.Float {
	x := bigfloat.New(prec).SetFloat64(3)
	return x.Quo(x, bigfloat.New(prec).SetFloat64(1.1))
}

// logProbe evaluates one logarithm with the given strategy.
func logProbe(z, x *bigfloat.Float, prec uint, useSeries bool) *bigfloat.Float {
	if useSeries {
		return mpmath.LogSeries(z, x, prec)
	}
	return mpmath.LogAGM(z, x, prec)
}

// analyzeResults examines probe results to determine the tuned parameters.
func (mb *MicroBenchmark) analyzeResults(results []probeResult) TuningResults {
	tr := TuningResults{
		// Start with conservative defaults
		LogCrossoverBits:      mpmath.DefaultLogCrossoverBits,
		ParallelThresholdBits: 256,
		Confidence:            0.5,
	}

	if len(results) == 0 {
		// If no results obtained (e.g. timeout), set confidence to zero
		tr.Confidence = 0.0
		return tr
	}

	// Group results by probe precision
	byPrec := make(map[uint][]probeResult)
	for _, r := range results {
		if r.err == nil {
			byPrec[r.prec] = append(byPrec[r.prec], r)
		}
	}

	// Analyze the series/AGM crossover point
	logCrossover := mb.findLogCrossover(byPrec)
	if logCrossover > 0 {
		tr.LogCrossoverBits = logCrossover
		tr.Confidence += 0.2
	}

	// Analyze the parallel crossover point
	parallelCrossover := mb.findParallelCrossover(byPrec)
	if parallelCrossover > 0 {
		tr.ParallelThresholdBits = parallelCrossover
		tr.Confidence += 0.2
	}

	// Cap confidence at 1.0
	if tr.Confidence > 1.0 {
		tr.Confidence = 1.0
	}

	return tr
}

// findLogCrossover determines the precision where the AGM becomes faster
// than the series. The crossover is the largest probe precision at which the
// series still wins.
func (mb *MicroBenchmark) findLogCrossover(byPrec map[uint][]probeResult) uint {
	var crossover uint

	for prec, results := range byPrec {
		var seriesDur, agmDur time.Duration
		var seriesCount, agmCount int

		for _, r := range results {
			if r.parallel {
				continue
			}
			if r.useSeries {
				seriesDur += r.duration
				seriesCount++
			} else {
				agmDur += r.duration
				agmCount++
			}
		}

		if seriesCount > 0 && agmCount > 0 {
			avgSeries := seriesDur / time.Duration(seriesCount)
			avgAGM := agmDur / time.Duration(agmCount)

			// The series still wins at this precision
			if avgSeries < avgAGM && prec > crossover {
				crossover = prec
			}
		}
	}

	// If the series never won, disable the series path
	if crossover == 0 {
		return 0
	}

	// Add some margin (the series should be clearly better)
	return crossover * 9 / 10
}

// findParallelCrossover determines the precision where concurrent guard
// attempts become faster than sequential ones.
func (mb *MicroBenchmark) findParallelCrossover(byPrec map[uint][]probeResult) uint {
	if runtime.NumCPU() <= 1 {
		return SequentialOnly // No parallelism on single-core
	}

	var crossover uint

	for prec, results := range byPrec {
		var seqDur, parDur time.Duration
		var seqCount, parCount int

		for _, r := range results {
			if r.useSeries {
				continue // Compare AGM sequential against AGM parallel
			}
			if r.parallel {
				parDur += r.duration
				parCount++
			} else {
				// The sequential cost of three attempts is roughly three
				// single evaluations
				seqDur += 3 * r.duration
				seqCount++
			}
		}

		if seqCount > 0 && parCount > 0 {
			avgSeq := seqDur / time.Duration(seqCount)
			avgPar := parDur / time.Duration(parCount)

			// Parallel is faster at this precision (require at least 10% improvement)
			if avgPar < avgSeq*9/10 {
				if crossover == 0 || prec < crossover {
					crossover = prec
				}
			}
		}
	}

	// If no crossover found, use default
	if crossover == 0 {
		return 256
	}

	return crossover
}

// ─────────────────────────────────────────────────────────────────────────────
// Quick Calibration Function
// ─────────────────────────────────────────────────────────────────────────────

// QuickCalibrate performs a fast calibration using micro-benchmarks.
// This is designed to run in ~100ms and provide reasonable estimates.
//
// Parameters:
//   - ctx: The context for cancellation
//
// Returns:
//   - TuningResults: The estimated parameters
//   - error: An error if calibration failed
func QuickCalibrate(ctx context.Context) (TuningResults, error) {
	mb := NewMicroBenchmark()
	return mb.RunQuick(ctx)
}

// QuickCalibrateWithDefaults performs quick calibration and returns values
// that can be directly applied to the engine.
//
// Parameters:
//   - ctx: The context for cancellation
//   - defaultLogCrossover: The crossover to use if calibration fails
//   - defaultParallel: The parallel threshold to use if calibration fails
//
// Returns:
//   - logCrossover: The calibrated or default series/AGM crossover
//   - parallelThreshold: The calibrated or default parallel threshold
func QuickCalibrateWithDefaults(ctx context.Context, defaultLogCrossover, defaultParallel uint) (uint, uint) {
	results, err := QuickCalibrate(ctx)
	if err != nil || results.Confidence < 0.3 {
		return defaultLogCrossover, defaultParallel
	}
	return results.LogCrossoverBits, results.ParallelThresholdBits
}
