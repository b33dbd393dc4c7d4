package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/agbru/mpcalc/internal/cli"
)

// printCalibrationResults formats and prints the calibration results table.
func printCalibrationResults(out io.Writer, results []calibrationResult, bestCrossover uint) {
	fmt.Fprintf(out, "\n--- Calibration Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %sPrecision%s    │ %sSeries%s\t│ %sAGM%s\n",
		cli.ColorUnderline(), cli.ColorReset(),
		cli.ColorUnderline(), cli.ColorReset(),
		cli.ColorUnderline(), cli.ColorReset())
	fmt.Fprintf(tw, "  %s┼%s\n", strings.Repeat("─", 14), strings.Repeat("─", 25))
	for _, res := range results {
		precLabel := fmt.Sprintf("%d bits", res.Prec)
		seriesStr := fmt.Sprintf("%sN/A%s", cli.ColorRed(), cli.ColorReset())
		agmStr := seriesStr
		if res.Err == nil {
			seriesStr = formatTrialDuration(res.SeriesDur)
			agmStr = formatTrialDuration(res.AGMDur)
		}
		highlight := ""
		if res.Prec == bestCrossover && res.Err == nil {
			highlight = fmt.Sprintf(" %s(Crossover)%s", cli.ColorGreen(), cli.ColorReset())
		}
		fmt.Fprintf(tw, "  %s%-12s%s │ %s%s%s\t│ %s%s%s%s\n",
			cli.ColorCyan(), precLabel, cli.ColorReset(),
			cli.ColorYellow(), seriesStr, cli.ColorReset(),
			cli.ColorYellow(), agmStr, cli.ColorReset(), highlight)
	}
	tw.Flush()
}

// formatTrialDuration renders one trial duration for the summary table.
func formatTrialDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return cli.FormatExecutionDuration(d)
}

// printCalibrationOutput prints the applied auto-calibration results.
//
// Parameters:
//   - logCrossover: The applied series/AGM crossover.
//   - parallelThreshold: The applied parallel threshold.
//   - out: The writer for output.
func printCalibrationOutput(logCrossover, parallelThreshold uint, out io.Writer) {
	fmt.Fprintf(out, "%sAuto-calibration%s: log crossover=%s%d%s bits, parallel=%s%d%s bits\n",
		cli.ColorGreen(), cli.ColorReset(),
		cli.ColorYellow(), logCrossover, cli.ColorReset(),
		cli.ColorYellow(), parallelThreshold, cli.ColorReset())
}
