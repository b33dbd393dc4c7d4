// Package cli provides the REPL (Read-Eval-Print Loop) functionality
// for interactive expression evaluation.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/mpcalc/internal/bigfloat"
	"github.com/agbru/mpcalc/internal/eval"
	"github.com/agbru/mpcalc/internal/mpmath"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// Precision is the working precision in bits.
	Precision uint
	// Mode names the rounding mode.
	Mode string
	// Timeout is the maximum duration for each evaluation.
	Timeout time.Duration
	// HexOutput displays results in hexadecimal floating-point format.
	HexOutput bool
}

// REPL represents an interactive calculator session.
type REPL struct {
	config   REPLConfig
	registry *mpmath.Registry
	prec     uint
	mode     bigfloat.RoundingMode
	modeName string
	in       io.Reader
	out      io.Writer
}

// NewREPL creates a new REPL instance.
//
// Parameters:
//   - registry: The function registry evaluations resolve names against.
//   - config: REPL configuration.
//
// Returns:
//   - *REPL: A new REPL instance.
func NewREPL(registry *mpmath.Registry, config REPLConfig) *REPL {
	if registry == nil {
		registry = mpmath.DefaultRegistry()
	}
	prec := config.Precision
	if prec == 0 {
		prec = 128
	}
	modeName := config.Mode
	mode, ok := bigfloat.ParseMode(strings.ToLower(modeName))
	if !ok {
		mode, modeName = bigfloat.ToNearestEven, "nearest"
	}

	return &REPL{
		config:   config,
		registry: registry,
		prec:     prec,
		mode:     mode,
		modeName: modeName,
		in:       os.Stdin,
		out:      os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Start begins the interactive REPL session.
// It continuously reads user input and processes commands until
// the user exits or EOF is reached.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)

	for {
		fmt.Fprint(r.out, ColorGreen()+"mpcalc> "+ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ColorRed(), err, ColorReset())
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !r.processCommand(input) {
			return // Exit command received
		}
	}
}

// printBanner displays the REPL welcome banner.
func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ColorCyan(), ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %s∑ Multi-Precision Calculator - Interactive Mode%s       %s║%s\n",
		ColorCyan(), ColorReset(), ColorBold(), ColorReset(), ColorCyan(), ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ColorCyan(), ColorReset())
}

// printHelp displays available commands.
func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ColorBold(), ColorReset())
	fmt.Fprintf(r.out, "  %s<expression>%s  - Evaluate an expression, e.g. sin(pi/6)\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %sprec <bits>%s   - Change the working precision\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %smode <name>%s   - Change the rounding mode (nearest, zero, down, up, away)\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %sfuncs%s         - List available functions\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %sflags%s         - Display the raised exception flags\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %sclear%s         - Clear the exception flags\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %shex%s           - Toggle hexadecimal display\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s        - Display current configuration\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s          - Display this help\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s   - Exit interactive mode\n", ColorYellow(), ColorReset(), ColorYellow(), ColorReset())
}

// processCommand parses and executes a user command.
// Returns false if the REPL should exit.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "prec", "p":
		r.cmdPrec(args)
	case "mode", "m":
		r.cmdMode(args)
	case "funcs", "fn", "ls":
		r.cmdFuncs()
	case "flags":
		r.cmdFlags()
	case "clear":
		bigfloat.ClearFlags()
		fmt.Fprintf(r.out, "Exception flags cleared.\n")
	case "hex":
		r.cmdHex()
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ColorGreen(), ColorReset())
		return false
	default:
		// Anything else is an expression
		r.evaluate(input)
	}

	return true
}

// evaluate runs one expression at the current precision and mode.
func (r *REPL) evaluate(expression string) {
	ev := eval.NewEvaluator(r.prec, r.mode, r.registry)

	start := time.Now()
	result, err := ev.Evaluate(expression)
	duration := time.Since(start)

	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ColorRed(), err, ColorReset())
		return
	}

	var resultStr string
	if r.config.HexOutput {
		resultStr = result.Text('p', 0)
	} else {
		resultStr = result.Text('g', -1)
	}
	numDigits := len(resultStr)
	if numDigits > TruncationLimit {
		fmt.Fprintf(r.out, "%s%s...%s%s (truncated)\n",
			ColorGreen(), resultStr[:DisplayEdges], resultStr[numDigits-DisplayEdges:], ColorReset())
	} else {
		fmt.Fprintf(r.out, "%s%s%s\n", ColorGreen(), resultStr, ColorReset())
	}
	fmt.Fprintf(r.out, "  %s(%s, %d bits, %s)%s\n",
		ColorCyan(), FormatExecutionDuration(duration), r.prec, r.modeName, ColorReset())
}

// cmdPrec handles the "prec" command.
func (r *REPL) cmdPrec(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "Current precision: %s%d%s bits\n", ColorCyan(), r.prec, ColorReset())
		return
	}

	bits, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil || bits < 2 || bits > bigfloat.MaxPrec {
		fmt.Fprintf(r.out, "%sInvalid precision: %s%s\n", ColorRed(), args[0], ColorReset())
		return
	}

	r.prec = uint(bits)
	fmt.Fprintf(r.out, "Precision changed to: %s%d%s bits\n", ColorGreen(), r.prec, ColorReset())
}

// cmdMode handles the "mode" command.
func (r *REPL) cmdMode(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "Current rounding mode: %s%s%s\n", ColorCyan(), r.modeName, ColorReset())
		return
	}

	name := strings.ToLower(args[0])
	mode, ok := bigfloat.ParseMode(name)
	if !ok {
		fmt.Fprintf(r.out, "%sUnknown rounding mode: %s%s\n", ColorRed(), name, ColorReset())
		fmt.Fprintf(r.out, "Valid modes: nearest, nearestaway, zero, away, down, up\n")
		return
	}

	r.mode, r.modeName = mode, name
	fmt.Fprintf(r.out, "Rounding mode changed to: %s%s%s\n", ColorGreen(), name, ColorReset())
}

// cmdFuncs handles the "funcs" command.
func (r *REPL) cmdFuncs() {
	fmt.Fprintf(r.out, "\n%sAvailable functions:%s\n", ColorBold(), ColorReset())
	for _, fn := range r.registry.All() {
		fmt.Fprintf(r.out, "  %s%-10s%s - %s\n", ColorYellow(), fn.Name, ColorReset(), fn.Doc)
	}
	fmt.Fprintln(r.out)
}

// cmdFlags displays the raised exception flags.
func (r *REPL) cmdFlags() {
	fmt.Fprintf(r.out, "Exception flags: %s%s%s\n", ColorCyan(), FormatFlags(bigfloat.GetFlags()), ColorReset())
}

// cmdHex toggles hexadecimal output mode.
func (r *REPL) cmdHex() {
	r.config.HexOutput = !r.config.HexOutput
	status := "disabled"
	if r.config.HexOutput {
		status = "enabled"
	}
	fmt.Fprintf(r.out, "Hexadecimal display: %s%s%s\n", ColorGreen(), status, ColorReset())
}

// cmdStatus displays current REPL configuration.
func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ColorBold(), ColorReset())
	fmt.Fprintf(r.out, "  Precision:      %s%d%s bits\n", ColorCyan(), r.prec, ColorReset())
	fmt.Fprintf(r.out, "  Rounding mode:  %s%s%s\n", ColorCyan(), r.modeName, ColorReset())
	fmt.Fprintf(r.out, "  Timeout:        %s%s%s\n", ColorCyan(), r.config.Timeout, ColorReset())
	hexStatus := "no"
	if r.config.HexOutput {
		hexStatus = "yes"
	}
	fmt.Fprintf(r.out, "  Hexadecimal:    %s%s%s\n", ColorCyan(), hexStatus, ColorReset())
	fmt.Fprintln(r.out)
}
