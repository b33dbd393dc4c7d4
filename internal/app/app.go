package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/agbru/mpcalc/internal/bigfloat"
	"github.com/agbru/mpcalc/internal/calibration"
	"github.com/agbru/mpcalc/internal/cli"
	"github.com/agbru/mpcalc/internal/config"
	apperrors "github.com/agbru/mpcalc/internal/errors"
	"github.com/agbru/mpcalc/internal/mpmath"
	"github.com/agbru/mpcalc/internal/orchestration"
	"github.com/agbru/mpcalc/internal/server"
	"github.com/agbru/mpcalc/internal/ui"
)

// Application represents the mpcalc application instance.
// It encapsulates the configuration and provides methods to run
// the application in various modes (CLI, server, REPL).
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// Registry resolves function names during evaluation.
	Registry *mpmath.Registry
	// ErrWriter is the writer for error output (typically os.Stderr).
	ErrWriter io.Writer
}

// New creates a new Application instance by parsing command-line arguments.
// It validates the configuration and returns an error if parsing or validation fails.
//
// Parameters:
//   - args: The command-line arguments (typically os.Args).
//   - errWriter: The writer for error output.
//
// Returns:
//   - *Application: A new application instance.
//   - error: An error if configuration parsing or validation fails.
func New(args []string, errWriter io.Writer) (*Application, error) {
	// args[0] is program name, args[1:] are the actual arguments
	programName := "mpcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	// Try to load cached calibration tunings first. This lets the engine
	// reuse the series/AGM crossover and parallel threshold found in
	// previous runs on this machine.
	if !calibration.LoadCachedCalibration(cfg.CalibrationProfile) {
		// Fallback to estimates from the hardware characteristics.
		applyEstimatedTunings()
	}

	return &Application{
		Config:    cfg,
		Registry:  mpmath.DefaultRegistry(),
		ErrWriter: errWriter,
	}, nil
}

// applyEstimatedTunings adjusts the engine tunings based on hardware
// characteristics (CPU cores, architecture) when they are still at their
// static default values. This provides automatic performance adaptation
// without requiring explicit calibration.
func applyEstimatedTunings() {
	logCrossover, parallelThreshold := calibration.EstimatedTunings()

	// Only replace defaults, never a value a previous caller installed.
	if mpmath.LogCrossover() != mpmath.DefaultLogCrossoverBits {
		logCrossover = mpmath.LogCrossover()
	}
	if orchestration.ParallelThreshold() != orchestration.DefaultParallelThresholdBits {
		parallelThreshold = orchestration.ParallelThreshold()
	}

	calibration.ApplyTunings(logCrossover, parallelThreshold)
}

// Run executes the application based on the configured mode.
// It dispatches to the appropriate handler (completion, server, REPL, or CLI).
//
// Parameters:
//   - ctx: The context for managing cancellation and timeouts.
//   - out: The writer for standard output.
//
// Returns:
//   - int: An exit code (0 for success, non-zero for errors).
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	// Handle completion script generation
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	// Initialize CLI theme (respects --no-color flag and NO_COLOR env var)
	ui.InitTheme(a.Config.NoColor)

	// Server mode
	if a.Config.ServerMode {
		return a.runServer()
	}

	// Interactive REPL mode
	if a.Config.Interactive {
		return a.runREPL()
	}

	// Calibration mode
	if a.Config.Calibrate {
		return a.runCalibration(ctx, out)
	}

	// Run auto-calibration if enabled
	a.runAutoCalibrationIfEnabled(ctx, out)

	// Standard CLI evaluation mode
	return a.runEvaluate(ctx, out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	functions := a.Registry.Names()
	if err := cli.GenerateCompletion(out, a.Config.Completion, functions); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runServer starts the HTTP server mode.
func (a *Application) runServer() int {
	srv := server.NewServer(a.Registry, a.Config)
	if err := srv.Start(); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runREPL starts the interactive REPL mode.
func (a *Application) runREPL() int {
	repl := cli.NewREPL(a.Registry, cli.REPLConfig{
		Precision: a.Config.PrecisionBits(),
		Mode:      a.Config.Mode,
		Timeout:   a.Config.Timeout,
		HexOutput: a.Config.HexOutput,
	})
	repl.Start()
	return apperrors.ExitSuccess
}

// runCalibration runs the full calibration mode.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	return calibration.RunCalibration(ctx, out)
}

// runAutoCalibrationIfEnabled runs auto-calibration if enabled in the
// configuration. The discovered tunings are installed engine-wide.
func (a *Application) runAutoCalibrationIfEnabled(ctx context.Context, out io.Writer) {
	if a.Config.AutoCalibrate {
		calibration.AutoCalibrate(ctx, a.Config, out)
	}
}

// runEvaluate orchestrates the execution of the CLI evaluation command.
func (a *Application) runEvaluate(ctx context.Context, out io.Writer) int {
	// Setup lifecycle (timeout + signals)
	ctx, cancels := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancels.Cleanup()

	// Exceptions accumulate per process, so each evaluation starts from a
	// clean slate.
	bigfloat.ClearFlags()
	if a.Config.Emin != 0 || a.Config.Emax != 0 {
		bigfloat.SetExpRange(int32(a.Config.Emin), int32(a.Config.Emax))
	}

	// Guard offsets to cross-check the rounding with
	guards := cli.GuardOffsets(a.Config)

	// Skip verbose output in quiet mode
	if !a.Config.JSONOutput && !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(guards, out)
	}

	// In quiet and JSON modes, use a discard writer for progress display
	progressOut := out
	if a.Config.Quiet || a.Config.JSONOutput {
		progressOut = io.Discard
	}

	// Execute evaluations
	results := orchestration.ExecuteEvaluations(ctx, guards, a.Config, progressOut)

	// Handle JSON output
	if a.Config.JSONOutput {
		return printJSONResults(results, a.Config, out)
	}

	// Build output config for the CLI options
	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		HexOutput:  a.Config.HexOutput,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
		Details:    a.Config.Details,
	}

	return a.analyzeResultsWithOutput(results, outputCfg, out)
}

func (a *Application) analyzeResultsWithOutput(results []orchestration.EvaluationResult, outputCfg cli.OutputConfig, out io.Writer) int {
	bestResult := findBestResult(results)

	// Handle quiet mode for single result
	if outputCfg.Quiet && bestResult != nil {
		cli.DisplayQuietResult(out, bestResult.Result, outputCfg.HexOutput)

		// Save to file if requested
		if err := a.saveResultIfNeeded(bestResult, outputCfg); err != nil {
			return apperrors.ExitErrorGeneric
		}

		return apperrors.ExitSuccess
	}

	// Use standard analysis for non-quiet mode
	exitCode := orchestration.AnalyzeVerificationResults(results, a.Config, out)

	// Handle file output and hex display for non-quiet mode
	if bestResult != nil && exitCode == apperrors.ExitSuccess {
		// Display hex format if requested
		a.displayHexIfNeeded(bestResult, outputCfg, out)

		// Save to file if requested
		if err := a.saveResultIfNeeded(bestResult, outputCfg); err != nil {
			return apperrors.ExitErrorGeneric
		}
		if outputCfg.OutputFile != "" {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				cli.ColorGreen(), cli.ColorCyan(), outputCfg.OutputFile, cli.ColorReset())
		}
	}

	return exitCode
}

func (a *Application) displayHexIfNeeded(res *orchestration.EvaluationResult, cfg cli.OutputConfig, out io.Writer) {
	if !cfg.HexOutput {
		return
	}
	fmt.Fprintf(out, "\n%s--- Hexadecimal Format ---%s\n", cli.ColorBold(), cli.ColorReset())
	fmt.Fprintf(out, "%s%s%s [hex] = %s%s%s\n",
		cli.ColorMagenta(), a.Config.Expression, cli.ColorReset(),
		cli.ColorGreen(), res.Result.Text('p', 0), cli.ColorReset())
}

// IsHelpError checks if the error is a help flag error (--help was used).
// This is useful for determining if the application should exit with success
// after displaying help text.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: True if the error indicates help was requested.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

func findBestResult(results []orchestration.EvaluationResult) *orchestration.EvaluationResult {
	var bestResult *orchestration.EvaluationResult
	for i := range results {
		if results[i].Err == nil {
			if bestResult == nil || results[i].Duration < bestResult.Duration {
				bestResult = &results[i]
			}
		}
	}
	return bestResult
}

func (a *Application) saveResultIfNeeded(res *orchestration.EvaluationResult, cfg cli.OutputConfig) error {
	if cfg.OutputFile == "" {
		return nil
	}
	if err := cli.WriteResultToFile(res.Result, a.Config.Expression, res.Duration, a.Config.Mode, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving result: %v\n", err)
		return err
	}
	return nil
}

// jsonResult represents a single evaluation attempt in JSON format.
type jsonResult struct {
	Attempt   string `json:"attempt"`
	Precision uint   `json:"precision"`
	Duration  string `json:"duration"`
	Result    string `json:"result,omitempty"`
	Hex       string `json:"hex,omitempty"`
	Error     string `json:"error,omitempty"`
}

// printJSONResults formats the evaluation results as a JSON array and writes
// them to the output. This is useful for programmatic consumption of the results.
func printJSONResults(results []orchestration.EvaluationResult, cfg config.AppConfig, out io.Writer) int {
	output := make([]jsonResult, len(results))
	for i, res := range results {
		jr := jsonResult{
			Attempt:   res.Name,
			Precision: res.WorkPrec,
			Duration:  res.Duration.String(),
		}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		} else {
			jr.Result = res.Result.Text('g', -1)
			if cfg.HexOutput {
				jr.Hex = res.Result.Text('p', 0)
			}
		}
		output[i] = jr
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}
