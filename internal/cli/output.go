// Package cli provides output utilities for exporting evaluation results.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/mpcalc/internal/bigfloat"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result (empty for no file output).
	OutputFile string
	// HexOutput displays the result in hexadecimal floating-point format.
	HexOutput bool
	// Quiet mode suppresses verbose output.
	Quiet bool
	// Verbose shows the full result value.
	Verbose bool
	// Details shows timing and exception flag metadata.
	Details bool
}

// WriteResultToFile writes an evaluation result to a file.
//
// Parameters:
//   - result: The evaluated value.
//   - expression: The expression that was evaluated.
//   - duration: The evaluation duration.
//   - mode: The rounding mode name used.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteResultToFile(result *bigfloat.Float, expression string, duration time.Duration, mode string, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}

	// Ensure directory exists
	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	// Write header
	fmt.Fprintf(file, "# Evaluation Result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Expression: %s\n", expression)
	fmt.Fprintf(file, "# Duration: %s\n", duration)
	fmt.Fprintf(file, "# Precision: %d bits\n", result.Prec())
	fmt.Fprintf(file, "# Rounding mode: %s\n", mode)
	fmt.Fprintf(file, "\n")

	// Write result; the hex form is exact and round-trippable
	if config.HexOutput {
		fmt.Fprintf(file, "%s [hex] =\n%s\n", expression, result.Text('p', 0))
	} else {
		fmt.Fprintf(file, "%s =\n%s\n", expression, result.Text('g', -1))
	}

	return nil
}

// FormatQuietResult formats a result for quiet mode output.
// Returns a single-line result suitable for scripting.
//
// Parameters:
//   - result: The evaluated value.
//   - hexOutput: Whether to format as hexadecimal floating point.
//
// Returns:
//   - string: The formatted result string.
func FormatQuietResult(result *bigfloat.Float, hexOutput bool) string {
	if hexOutput {
		return result.Text('p', 0)
	}
	return result.Text('g', -1)
}

// DisplayQuietResult outputs a result in quiet mode (minimal output).
//
// Parameters:
//   - out: The output writer.
//   - result: The evaluated value.
//   - hexOutput: Whether to format as hexadecimal floating point.
func DisplayQuietResult(out io.Writer, result *bigfloat.Float, hexOutput bool) {
	fmt.Fprintln(out, FormatQuietResult(result, hexOutput))
}

// DisplayResultWithConfig displays a result with the given output configuration.
// This is a unified function that handles all output modes.
//
// Parameters:
//   - out: The output writer.
//   - result: The evaluated value.
//   - expression: The expression that was evaluated.
//   - duration: The evaluation duration.
//   - mode: The rounding mode name used.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if file output fails.
func DisplayResultWithConfig(out io.Writer, result *bigfloat.Float, expression string, duration time.Duration, mode string, config OutputConfig) error {
	// Handle quiet mode
	if config.Quiet {
		DisplayQuietResult(out, result, config.HexOutput)
	} else {
		// Use standard display
		DisplayResult(result, expression, duration, config.Verbose, config.Details, out)

		// Show hex format if requested
		if config.HexOutput {
			fmt.Fprintf(out, "\n%sHexadecimal format:%s\n", ColorBold(), ColorReset())
			fmt.Fprintf(out, "%s [hex] = %s%s%s\n",
				expression, ColorGreen(), result.Text('p', 0), ColorReset())
		}
	}

	// Save to file if requested
	if config.OutputFile != "" {
		if err := WriteResultToFile(result, expression, duration, mode, config); err != nil {
			return err
		}
		if !config.Quiet {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ColorGreen(), ColorCyan(), config.OutputFile, ColorReset())
		}
	}

	return nil
}
