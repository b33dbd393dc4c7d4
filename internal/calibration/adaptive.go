// Package calibration tunes the evaluation engine for the host machine.
// This file implements adaptive candidate generation based on hardware characteristics.
package calibration

import (
	"runtime"
	"sort"
)

// SequentialOnly is a parallel threshold so high that every evaluation runs
// sequentially. It doubles as the single-core setting and the "parallelism
// never wins" benchmark outcome.
const SequentialOnly uint = 1 << 20

// ─────────────────────────────────────────────────────────────────────────────
// Adaptive Parallel Threshold Generation
// ─────────────────────────────────────────────────────────────────────────────

// GenerateParallelThresholds generates a list of parallel-evaluation
// thresholds to test based on the number of available CPU cores.
//
// The rationale:
// - Single-core: Only test sequential as parallelism has no benefit
// - 2-4 cores: Test higher thresholds as goroutine overhead is relatively high
// - 8+ cores: Include lower thresholds as the guard attempts spread further
func GenerateParallelThresholds() []uint {
	numCPU := runtime.NumCPU()

	// SequentialOnly as a threshold disables parallelism entirely
	thresholds := []uint{SequentialOnly}

	switch {
	case numCPU == 1:
		// Single core: only sequential makes sense
		return thresholds

	case numCPU <= 4:
		// Few cores: test moderate thresholds
		thresholds = append(thresholds, 512, 1024, 2048, 4096)

	case numCPU <= 8:
		// Medium core count: broader range
		thresholds = append(thresholds, 128, 256, 512, 1024, 2048, 4096)

	default:
		// High core count: full range including very low thresholds
		thresholds = append(thresholds, 64, 128, 256, 512, 1024, 2048, 4096)
	}

	return thresholds
}

// GenerateQuickParallelThresholds generates a smaller set of thresholds for
// quick auto-calibration at startup.
func GenerateQuickParallelThresholds() []uint {
	numCPU := runtime.NumCPU()

	if numCPU == 1 {
		return []uint{SequentialOnly}
	}

	// Reduced set for quick calibration
	switch {
	case numCPU <= 4:
		return []uint{SequentialOnly, 1024, 4096}
	default:
		return []uint{SequentialOnly, 256, 1024, 4096}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Adaptive Log Crossover Generation
// ─────────────────────────────────────────────────────────────────────────────

// GenerateLogCrossoverCandidates generates series/AGM crossover precisions to
// test. The series costs O(p) multiplications of p-bit numbers; the AGM costs
// O(log p) iterations, each dominated by a p-bit sqrt. The crossover depends
// on the relative cost of multiplication and sqrt, which is a property of the
// significand arithmetic rather than the core count.
func GenerateLogCrossoverCandidates() []uint {
	wordSize := 32 << (^uint(0) >> 63) // 32 or 64

	// A crossover of 0 disables the series path entirely
	candidates := []uint{0}

	if wordSize == 64 {
		candidates = append(candidates, 1024, 2048, 4096, 8192, 16384)
	} else {
		// 32-bit systems multiply more slowly, pulling the crossover down
		candidates = append(candidates, 512, 1024, 2048, 4096)
	}

	return candidates
}

// GenerateQuickLogCrossoverCandidates generates a smaller set for quick calibration.
func GenerateQuickLogCrossoverCandidates() []uint {
	return []uint{0, 2048, 4096, 8192}
}

// ─────────────────────────────────────────────────────────────────────────────
// Tuning Estimation (without benchmarking)
// ─────────────────────────────────────────────────────────────────────────────

// EstimateOptimalParallelThreshold provides a heuristic estimate of the
// optimal parallel-evaluation threshold without running benchmarks.
// This can be used as a fallback or starting point.
func EstimateOptimalParallelThreshold() uint {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU == 1:
		return SequentialOnly // No parallelism
	case numCPU <= 2:
		return 2048 // High threshold - goroutine overhead is significant
	case numCPU <= 8:
		return 512
	default:
		return 256 // High core count - aggressive parallelism
	}
}

// EstimateOptimalLogCrossover provides a heuristic estimate of the optimal
// series/AGM crossover without running benchmarks.
func EstimateOptimalLogCrossover() uint {
	wordSize := 32 << (^uint(0) >> 63)

	if wordSize == 64 {
		return 4096
	}
	return 2048 // 32-bit words multiply more slowly
}

// ─────────────────────────────────────────────────────────────────────────────
// Tuning Validation
// ─────────────────────────────────────────────────────────────────────────────

// ValidateTunings ensures tuned parameters are within reasonable bounds.
func ValidateTunings(logCrossover, parallelThreshold int) (int, int) {
	// Log crossover: 0 to 1M bits
	if logCrossover < 0 {
		logCrossover = 0
	}
	if logCrossover > 1<<20 {
		logCrossover = 1 << 20
	}

	// Parallel threshold: 0 to 1M bits
	if parallelThreshold < 0 {
		parallelThreshold = 0
	}
	if parallelThreshold > 1<<20 {
		parallelThreshold = 1 << 20
	}

	return logCrossover, parallelThreshold
}

// ─────────────────────────────────────────────────────────────────────────────
// Combined Candidate Generation
// ─────────────────────────────────────────────────────────────────────────────

// CandidateSet represents a complete set of candidate values to test.
type CandidateSet struct {
	LogCrossover []uint
	Parallel     []uint
}

// GenerateFullCandidateSet generates all candidates for comprehensive calibration.
func GenerateFullCandidateSet() CandidateSet {
	return CandidateSet{
		LogCrossover: GenerateLogCrossoverCandidates(),
		Parallel:     GenerateParallelThresholds(),
	}
}

// GenerateQuickCandidateSet generates candidates for quick auto-calibration.
func GenerateQuickCandidateSet() CandidateSet {
	return CandidateSet{
		LogCrossover: GenerateQuickLogCrossoverCandidates(),
		Parallel:     GenerateQuickParallelThresholds(),
	}
}

// EstimatedTunings returns heuristic estimates without benchmarking.
func EstimatedTunings() (logCrossover, parallelThreshold uint) {
	return EstimateOptimalLogCrossover(), EstimateOptimalParallelThreshold()
}

// SortCandidates sorts each candidate slice in ascending order.
func (c *CandidateSet) SortCandidates() {
	sort.Slice(c.LogCrossover, func(i, j int) bool { return c.LogCrossover[i] < c.LogCrossover[j] })
	sort.Slice(c.Parallel, func(i, j int) bool { return c.Parallel[i] < c.Parallel[j] })
}
