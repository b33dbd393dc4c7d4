// Package config provides the configuration management for the mpcalc
// application. It defines the data structure for the configuration, handles
// the parsing of command-line arguments, and performs validation on the
// configuration values.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/agbru/mpcalc/internal/bigfloat"
	apperrors "github.com/agbru/mpcalc/internal/errors"
)

const (
	// EnvPrefix is the prefix for all environment variables used by mpcalc.
	// Environment variables provide an alternative to CLI flags for configuration,
	// following the 12-Factor App methodology.
	EnvPrefix = "MPCALC_"
)

// Default configuration values.
// These can be overridden via command-line flags or environment variables.
const (
	// DefaultPrecision is the default working precision in bits.
	DefaultPrecision uint = 128
	// DefaultTimeout is the default evaluation timeout.
	DefaultTimeout = 1 * time.Minute
	// DefaultPort is the default server port.
	DefaultPort = "8080"
	// DefaultMode is the default rounding mode name.
	DefaultMode = "nearest"
	// MinPrecision is the smallest accepted working precision in bits.
	MinPrecision uint = 2
)

// AppConfig aggregates the application's configuration parameters, parsed
// from command-line flags. It encapsulates all settings that control the
// execution, from the expression to evaluate and the working precision to
// output and server options.
type AppConfig struct {
	// Expression is the expression to evaluate.
	Expression string
	// Precision is the working precision in bits.
	Precision uint
	// Digits, if nonzero, selects the precision as a decimal digit count
	// instead of bits; it takes priority over Precision.
	Digits int
	// Mode names the rounding mode ("nearest", "zero", "down", "up",
	// "away", "nearestaway" and the MPFR-style rndn/rndz/rndd/rndu/rnda).
	Mode string
	// Emin and Emax restrict the exponent range of results when nonzero:
	// results below Emin flush to zero, above Emax overflow to infinity.
	Emin int
	Emax int
	// Verbose, if true, instructs the application to display the full result
	// regardless of its length.
	Verbose bool
	// Details, if true, provides a detailed report including timing and the
	// raised exception flags.
	Details bool
	// Timeout sets the maximum duration for the evaluation.
	Timeout time.Duration
	// JSONOutput, if true, outputs the result in JSON format.
	JSONOutput bool
	// ServerMode, if true, starts the application as an HTTP server.
	ServerMode bool
	// Port specifies the port to listen on in server mode.
	Port string
	// NoColor, if true, disables all color output in the CLI.
	// Also respects the NO_COLOR environment variable.
	NoColor bool

	// OutputFile, if specified, saves the result to this file path.
	OutputFile string
	// Quiet mode - minimal output for scripting purposes.
	// Suppresses progress indicators, banners, and informational messages.
	Quiet bool
	// HexOutput, if true, displays the result in hexadecimal floating-point
	// format (exact, round-trippable).
	HexOutput bool
	// Interactive, if true, starts the application in REPL mode.
	Interactive bool
	// Completion, if set, generates shell completion script for the specified shell.
	// Valid values are: "bash", "zsh", "fish", "powershell".
	Completion string
	// Calibrate, if true, runs the application in calibration mode to find
	// the series/AGM logarithm crossover and the parallel cross-check
	// threshold for this machine.
	Calibrate bool
	// AutoCalibrate, if true, runs a short automatic calibration at startup.
	AutoCalibrate bool
	// CalibrationProfile is the path to a calibration profile file.
	// If set, the application will load/save calibration results from/to this file.
	// If empty, uses the default path (~/.mpcalc_calibration.json).
	CalibrationProfile string
}

// PrecisionBits resolves the effective working precision in bits, converting
// a decimal digit request with ceil(d·log2(10)) + 1.
func (c AppConfig) PrecisionBits() uint {
	if c.Digits > 0 {
		return uint(c.Digits)*100000/30103 + 1
	}
	return c.Precision
}

// RoundingMode resolves the configured rounding mode name.
func (c AppConfig) RoundingMode() (bigfloat.RoundingMode, bool) {
	return bigfloat.ParseMode(strings.ToLower(c.Mode))
}

// Validate checks the semantic consistency of the configuration parameters.
// It ensures that numerical values are within valid ranges and that the
// chosen rounding mode is supported.
//
// Returns:
//   - error: An error of type ConfigError if the configuration is invalid,
//     nil otherwise.
func (c AppConfig) Validate() error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.Digits < 0 {
		return apperrors.NewConfigError("digit count cannot be negative: %d", c.Digits)
	}
	if p := c.PrecisionBits(); p < MinPrecision || p > bigfloat.MaxPrec {
		return apperrors.NewConfigError("precision %d bits out of range [%d, %d]", p, MinPrecision, bigfloat.MaxPrec)
	}
	if _, ok := c.RoundingMode(); !ok {
		return apperrors.NewConfigError("unrecognized rounding mode: '%s'. Valid modes are: nearest, nearestaway, zero, away, down, up", c.Mode)
	}
	if c.Emin != 0 || c.Emax != 0 {
		if c.Emin > c.Emax {
			return apperrors.NewConfigError("emin (%d) cannot exceed emax (%d)", c.Emin, c.Emax)
		}
		if c.Emin < bigfloat.MinExp || c.Emax > bigfloat.MaxExp {
			return apperrors.NewConfigError("exponent range [%d, %d] outside supported [%d, %d]", c.Emin, c.Emax, bigfloat.MinExp, bigfloat.MaxExp)
		}
	}
	if c.Completion != "" {
		switch c.Completion {
		case "bash", "zsh", "fish", "powershell":
		default:
			return apperrors.NewConfigError("unsupported completion shell: '%s'. Valid shells are: bash, zsh, fish, powershell", c.Completion)
		}
	}
	return nil
}

// NeedsExpression reports whether the selected mode of operation requires an
// expression on the command line.
func (c AppConfig) NeedsExpression() bool {
	return !c.ServerMode && !c.Interactive && !c.Calibrate && c.Completion == ""
}

// ParseConfig parses the command-line arguments and populates an AppConfig
// struct. It defines all the command-line flags, sets their default values,
// and handles the parsing process. After parsing, it performs validation on
// the resulting configuration.
//
// The expression may be given with -e or as the remaining positional
// arguments ("mpcalc '2*asin(1)'").
//
// Parameters:
//   - programName: The name of the program, used in the usage message.
//   - args: A slice of strings representing the command-line arguments
//     (typically os.Args[1:]).
//   - errorWriter: An io.Writer where parsing errors and usage information
//     will be printed.
//
// Returns:
//   - AppConfig: The populated configuration struct.
//   - error: An error if flag parsing fails or validation fails.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := AppConfig{}
	fs.StringVar(&config.Expression, "e", "", "Expression to evaluate (alternative to positional arguments).")
	fs.UintVar(&config.Precision, "prec", DefaultPrecision, "Working precision in bits.")
	fs.IntVar(&config.Digits, "digits", 0, "Working precision as a decimal digit count (overrides -prec).")
	fs.StringVar(&config.Mode, "mode", DefaultMode, "Rounding mode: nearest, nearestaway, zero, away, down, up.")
	fs.IntVar(&config.Emin, "emin", 0, "Smallest allowed result exponent (0 with emax 0 keeps the full range).")
	fs.IntVar(&config.Emax, "emax", 0, "Largest allowed result exponent (0 with emin 0 keeps the full range).")
	fs.BoolVar(&config.Verbose, "v", false, "Display the full value of the result (can be very long).")
	fs.BoolVar(&config.Details, "d", false, "Display timing details and the raised exception flags.")
	fs.BoolVar(&config.Details, "details", false, "Alias for -d.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time for the evaluation.")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")

	fs.StringVar(&config.OutputFile, "output", "", "Output file path for the result.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file path (shorthand).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - minimal output for scripts.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.HexOutput, "hex", false, "Display result in hexadecimal floating-point format.")
	fs.BoolVar(&config.Interactive, "interactive", false, "Start in interactive REPL mode.")
	fs.StringVar(&config.Completion, "completion", "", "Generate shell completion script (bash, zsh, fish, powershell).")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Runs calibration mode to tune the engine for this machine.")
	fs.BoolVar(&config.AutoCalibrate, "auto-calibrate", false, "Enables quick automatic calibration at startup (may increase loading time).")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Path to calibration profile file (default: ~/.mpcalc_calibration.json).")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	// Apply environment variable overrides for flags not explicitly set
	applyEnvOverrides(&config, fs)

	// Positional arguments form the expression when -e was not given.
	if config.Expression == "" && fs.NArg() > 0 {
		config.Expression = strings.Join(fs.Args(), " ")
	}

	if err := config.Validate(); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.New("invalid configuration")
	}
	if config.NeedsExpression() && config.Expression == "" {
		fmt.Fprintln(errorWriter, "Configuration error: no expression to evaluate")
		fs.Usage()
		return AppConfig{}, errors.New("invalid configuration")
	}
	return config, nil
}
