package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/mpcalc/internal/config"
)

// GuardOffsets determines the working-precision offsets used to verify an
// evaluation. Each offset yields one concurrent attempt at the target
// precision plus the offset; the rounded results must all agree.
//
// A single attempt is used when the target precision is small enough that the
// evaluation is effectively instant and re-running it costs more than it
// verifies.
//
// Parameters:
//   - cfg: The application configuration containing the target precision.
//
// Returns:
//   - []uint: The guard offsets, smallest first.
func GuardOffsets(cfg config.AppConfig) []uint {
	if cfg.PrecisionBits() <= 64 {
		return []uint{0}
	}
	return []uint{0, 32, 64}
}

// PrintExecutionConfig displays the current execution configuration to the user.
// It shows the expression, working precision, rounding mode, timeout, and
// environment details.
//
// Parameters:
//   - cfg: The application configuration.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	writeOut(out, "--- Execution Configuration ---\n")
	writeOut(out, "Evaluating %s%s%s at %s%d%s bits with a timeout of %s%s%s.\n",
		ColorMagenta(), cfg.Expression, ColorReset(),
		ColorCyan(), cfg.PrecisionBits(), ColorReset(),
		ColorYellow(), cfg.Timeout, ColorReset())
	writeOut(out, "Rounding mode: %s%s%s.\n", ColorCyan(), cfg.Mode, ColorReset())
	writeOut(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ColorCyan(), runtime.NumCPU(), ColorReset(), ColorCyan(), runtime.Version(), ColorReset())
}

// PrintExecutionMode displays the execution mode (single evaluation vs
// cross-checked verification).
//
// Parameters:
//   - guards: The guard offsets that will be executed.
//   - out: The writer for standard output.
func PrintExecutionMode(guards []uint, out io.Writer) {
	var modeDesc string
	if len(guards) > 1 {
		modeDesc = fmt.Sprintf("Cross-checked evaluation at %s%d%s guard precisions",
			ColorGreen(), len(guards), ColorReset())
	} else {
		modeDesc = "Single evaluation"
	}
	writeOut(out, "Execution mode: %s.\n", modeDesc)
	writeOut(out, "\n--- Starting Execution ---\n")
}

// writeOut writes a formatted string to the output writer.
//
// Parameters:
//   - out: The destination writer.
//   - format: The format string (see fmt.Printf).
//   - a: Arguments for the format string.
func writeOut(out io.Writer, format string, a ...any) {
	fmt.Fprintf(out, format, a...)
}
