package calibration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/agbru/mpcalc/internal/cli"
	"github.com/agbru/mpcalc/internal/config"
	apperrors "github.com/agbru/mpcalc/internal/errors"
	"github.com/agbru/mpcalc/internal/mpmath"
	"github.com/agbru/mpcalc/internal/orchestration"
)

// CalibrationOptions configures the calibration process.
type CalibrationOptions struct {
	// ProfilePath is the path to save/load the calibration profile.
	// If empty, uses the default path.
	ProfilePath string
	// SaveProfile indicates whether to save the calibration results.
	SaveProfile bool
	// LoadProfile indicates whether to try loading an existing profile.
	LoadProfile bool
}

// calibrationResult holds the timing pair of a single crossover candidate.
type calibrationResult struct {
	Prec      uint
	SeriesDur time.Duration
	AGMDur    time.Duration
	Err       error
}

// ApplyProfile applies the tuned parameters from a profile to the engine.
func ApplyProfile(p *CalibrationProfile) {
	if p == nil {
		return
	}
	logCrossover, parallelThreshold := ValidateTunings(p.LogCrossoverBits, p.ParallelThresholdBits)
	mpmath.SetLogCrossover(uint(logCrossover))
	orchestration.SetParallelThreshold(uint(parallelThreshold))
}

// ApplyTunings applies tuned parameters to the engine directly.
func ApplyTunings(logCrossover, parallelThreshold uint) {
	mpmath.SetLogCrossover(logCrossover)
	orchestration.SetParallelThreshold(parallelThreshold)
}

// RunCalibration executes a comprehensive benchmark to determine the optimal
// engine tunings for the current hardware.
//
// It times the series and AGM logarithm strategies against each other at a
// ladder of candidate precisions, and compares sequential against concurrent
// guard evaluation, to locate both crossovers on this machine.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - out: The io.Writer to which progress and results will be written.
//
// Returns:
//   - int: The exit code (0 for success, non-zero for errors).
func RunCalibration(ctx context.Context, out io.Writer) int {
	return RunCalibrationWithOptions(ctx, out, CalibrationOptions{
		SaveProfile: true,
		LoadProfile: false, // Full calibration should run fresh
	})
}

// RunCalibrationWithOptions executes calibration with the specified options.
func RunCalibrationWithOptions(ctx context.Context, out io.Writer, opts CalibrationOptions) int {
	fmt.Fprintf(out, "--- Calibration Mode: Tuning the Engine for This Machine ---\n")

	// Try to load existing profile if requested
	if opts.LoadProfile {
		profile, loaded := LoadOrCreateProfile(opts.ProfilePath)
		if loaded && profile.IsValid() {
			fmt.Fprintf(out, "%sLoaded existing calibration profile from %s%s\n",
				cli.ColorGreen(), GetDefaultProfilePath(), cli.ColorReset())
			fmt.Fprintf(out, "Profile: %s\n", profile.String())
			ApplyProfile(profile)
			fmt.Fprintf(out, "\n%s✅ Using cached calibration: %slog crossover %d bits, parallel threshold %d bits%s\n",
				cli.ColorGreen(), cli.ColorYellow(), profile.LogCrossoverBits, profile.ParallelThresholdBits, cli.ColorReset())
			return apperrors.ExitSuccess
		}
	}

	candidates := GenerateLogCrossoverCandidates()
	fmt.Fprintf(out, "%sProbing %d candidate precisions on %d CPU cores%s\n",
		cli.ColorCyan(), len(candidates)-1, runtime.NumCPU(), cli.ColorReset())

	runner := newCalibrationRunner(ctx, 30*time.Second)
	results := make([]calibrationResult, 0, len(candidates))
	bestCrossover := uint(0)
	calibrationStart := time.Now()

	for _, cand := range candidates {
		if cand == 0 {
			continue
		}
		if ctx.Err() != nil {
			fmt.Fprintf(out, "\n%sCalibration interrupted.%s\n", cli.ColorYellow(), cli.ColorReset())
			return apperrors.ExitErrorCanceled
		}

		seriesDur, err := runner.runTrial(cand, true)
		if err == nil {
			var agmDur time.Duration
			agmDur, err = runner.runTrial(cand, false)
			if err == nil {
				results = append(results, calibrationResult{cand, seriesDur, agmDur, nil})
				if seriesDur < agmDur && cand > bestCrossover {
					bestCrossover = cand
				}
				continue
			}
		}

		fmt.Fprintf(out, "%s❌ Failure at %d bits (%v)%s\n", cli.ColorRed(), cand, err, cli.ColorReset())
		results = append(results, calibrationResult{cand, 0, 0, err})
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return apperrors.ExitErrorCanceled
		}
	}

	// Check if we found any valid result
	if len(results) == 0 {
		fmt.Fprintf(out, "\n%sCalibration failed: no valid results obtained.%s\n", cli.ColorRed(), cli.ColorReset())
		return apperrors.ExitErrorGeneric
	}

	bestParallel, _ := runner.findBestParallelThreshold(orchestration.ParallelThreshold())

	calibrationDuration := time.Since(calibrationStart)

	// Print results table
	printCalibrationResults(out, results, bestCrossover)

	fmt.Fprintf(out, "\n%s✅ Recommendation for this machine: %slog crossover %d bits, parallel threshold %d bits%s\n",
		cli.ColorGreen(), cli.ColorYellow(), bestCrossover, bestParallel, cli.ColorReset())

	ApplyTunings(bestCrossover, bestParallel)

	// Save profile if requested
	if opts.SaveProfile {
		profile := NewProfile()
		profile.LogCrossoverBits = int(bestCrossover)
		profile.ParallelThresholdBits = int(bestParallel)
		profile.CalibrationPrec = CalibrationPrec
		profile.CalibrationTime = calibrationDuration.String()

		if err := profile.SaveProfile(opts.ProfilePath); err != nil {
			fmt.Fprintf(out, "%sWarning: failed to save profile: %v%s\n",
				cli.ColorYellow(), err, cli.ColorReset())
		} else {
			fmt.Fprintf(out, "%sCalibration profile saved to %s%s\n",
				cli.ColorGreen(), GetDefaultProfilePath(), cli.ColorReset())
		}
	}

	return apperrors.ExitSuccess
}

// AutoCalibrate runs a quick startup calibration to fine-tune the engine.
//
// Unlike the full RunCalibration, this function performs a heuristic search
// using a reduced candidate set, designed to be fast enough to run at
// application startup without significant delay.
//
// The function first checks for an existing valid calibration profile. If
// found and valid for the current hardware, it uses the cached values instead
// of running benchmarks.
//
// Parameters:
//   - parentCtx: The context used to manage the calibration timeout.
//   - cfg: The application configuration, providing the profile path.
//   - out: The io.Writer for logging calibration results.
//
// Returns:
//   - bool: True if calibration was applied, false otherwise.
func AutoCalibrate(parentCtx context.Context, cfg config.AppConfig, out io.Writer) bool {
	return AutoCalibrateWithProfile(parentCtx, cfg, out, cfg.CalibrationProfile)
}

// AutoCalibrateWithProfile runs auto-calibration with a specific profile path.
// It first tries to load a cached profile, then falls back to quick
// micro-benchmarks, and finally to a short candidate scan.
func AutoCalibrateWithProfile(parentCtx context.Context, cfg config.AppConfig, out io.Writer, profilePath string) bool {
	// Try to load existing profile first
	if profile, loaded := LoadOrCreateProfile(profilePath); loaded && profile.IsValid() {
		ApplyProfile(profile)
		fmt.Fprintf(out, "%sUsing cached calibration%s: log crossover=%s%d%s bits, parallel=%s%d%s bits\n",
			cli.ColorGreen(), cli.ColorReset(),
			cli.ColorYellow(), profile.LogCrossoverBits, cli.ColorReset(),
			cli.ColorYellow(), profile.ParallelThresholdBits, cli.ColorReset())
		return true
	}

	// Try quick micro-benchmarks first (~100ms)
	microResults, err := QuickCalibrate(parentCtx)
	if err == nil && microResults.Confidence >= 0.5 {
		ApplyTunings(microResults.LogCrossoverBits, microResults.ParallelThresholdBits)

		fmt.Fprintf(out, "%sQuick calibration%s (%v): log crossover=%s%d%s bits, parallel=%s%d%s bits (confidence: %.0f%%)\n",
			cli.ColorGreen(), cli.ColorReset(),
			microResults.Duration.Round(time.Millisecond),
			cli.ColorYellow(), microResults.LogCrossoverBits, cli.ColorReset(),
			cli.ColorYellow(), microResults.ParallelThresholdBits, cli.ColorReset(),
			microResults.Confidence*100)

		// Save profile for future use
		saveCalibrationProfile(microResults.LogCrossoverBits, microResults.ParallelThresholdBits, profilePath, out)
		return true
	}

	// Fall back to a short candidate scan if quick calibration failed or has
	// low confidence
	runner := newCalibrationRunner(parentCtx, cfg.Timeout)

	bestCrossover, crossoverDur := runner.findBestLogCrossover(mpmath.LogCrossover())
	bestParallel, parallelDur := runner.findBestParallelThreshold(orchestration.ParallelThreshold())

	if crossoverDur == 0 && parallelDur == 0 {
		// No valid measurements at all
		return false
	}

	ApplyTunings(bestCrossover, bestParallel)
	saveCalibrationProfile(bestCrossover, bestParallel, profilePath, out)
	printCalibrationOutput(bestCrossover, bestParallel, out)

	return true
}

// LoadCachedCalibration attempts to load a cached calibration profile and
// apply it to the engine. Returns true if a valid cached profile was found.
func LoadCachedCalibration(profilePath string) bool {
	profile, loaded := LoadOrCreateProfile(profilePath)
	if !loaded || !profile.IsValid() {
		return false
	}
	ApplyProfile(profile)
	return true
}

// saveCalibrationProfile saves the tuned parameters to a profile.
//
// Parameters:
//   - logCrossover: The tuned series/AGM crossover.
//   - parallelThreshold: The tuned parallel threshold.
//   - profilePath: The path to save the profile.
//   - out: The writer for warning messages.
func saveCalibrationProfile(logCrossover, parallelThreshold uint, profilePath string, out io.Writer) {
	profile := NewProfile()
	profile.LogCrossoverBits = int(logCrossover)
	profile.ParallelThresholdBits = int(parallelThreshold)
	profile.CalibrationPrec = CalibrationPrec

	if err := profile.SaveProfile(profilePath); err != nil {
		fmt.Fprintf(out, "%sWarning: could not save calibration profile: %v%s\n",
			cli.ColorYellow(), err, cli.ColorReset())
	}
}
