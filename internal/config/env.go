// Environment variable overrides for configuration fields. The precedence
// is CLI flags, then MPCALC_* environment variables, then built-in defaults.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// All lookups go through EnvPrefix, so MPCALC_PREC reads the "PREC" key.
// A missing or unparsable value falls back to the supplied default.

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvUint(key string, defaultVal uint) uint {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseUint(val, 10, 64); err == nil {
			return uint(parsed)
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvBool treats "true"/"1"/"yes" as true and "false"/"0"/"no" as
// false, case-insensitively. Other values keep the default.
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

// getEnvDuration parses Go duration syntax such as "30s" or "1h30m".
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// isFlagSet reports whether the flag was given on the command line, as
// opposed to sitting at its default. Explicit flags beat the environment.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
//
// Supported environment variables:
//   - MPCALC_PREC: Working precision in bits (uint)
//   - MPCALC_DIGITS: Working precision as decimal digits (int)
//   - MPCALC_MODE: Rounding mode (string: nearest, zero, down, up, away, nearestaway)
//   - MPCALC_EMIN: Smallest allowed result exponent (int)
//   - MPCALC_EMAX: Largest allowed result exponent (int)
//   - MPCALC_PORT: Port for server mode (string)
//   - MPCALC_TIMEOUT: Evaluation timeout (duration: "5m", "30s")
//   - MPCALC_SERVER: Enable server mode (bool: true/false, 1/0, yes/no)
//   - MPCALC_JSON: Enable JSON output (bool)
//   - MPCALC_VERBOSE: Enable verbose output (bool)
//   - MPCALC_DETAILS: Enable detailed report (bool)
//   - MPCALC_QUIET: Enable quiet mode (bool)
//   - MPCALC_HEX: Enable hexadecimal output (bool)
//   - MPCALC_INTERACTIVE: Enable interactive REPL mode (bool)
//   - MPCALC_NO_COLOR: Disable colored output (bool)
//   - MPCALC_OUTPUT: Output file path (string)
//   - MPCALC_CALIBRATE: Enable calibration mode (bool)
//   - MPCALC_AUTO_CALIBRATE: Enable automatic startup calibration (bool)
//   - MPCALC_CALIBRATION_PROFILE: Path to calibration profile (string)
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	applyNumericOverrides(config, fs)
	applyDurationOverrides(config, fs)
	applyStringOverrides(config, fs)
	applyBooleanOverrides(config, fs)
}

func applyNumericOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "prec") {
		config.Precision = getEnvUint("PREC", config.Precision)
	}
	if !isFlagSet(fs, "digits") {
		config.Digits = getEnvInt("DIGITS", config.Digits)
	}
	if !isFlagSet(fs, "emin") {
		config.Emin = getEnvInt("EMIN", config.Emin)
	}
	if !isFlagSet(fs, "emax") {
		config.Emax = getEnvInt("EMAX", config.Emax)
	}
}

func applyDurationOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "timeout") {
		config.Timeout = getEnvDuration("TIMEOUT", config.Timeout)
	}
}

func applyStringOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "mode") {
		config.Mode = getEnvString("MODE", config.Mode)
	}
	if !isFlagSet(fs, "port") {
		config.Port = getEnvString("PORT", config.Port)
	}
	if !isFlagSet(fs, "output") && !isFlagSet(fs, "o") {
		config.OutputFile = getEnvString("OUTPUT", config.OutputFile)
	}
	if !isFlagSet(fs, "calibration-profile") {
		config.CalibrationProfile = getEnvString("CALIBRATION_PROFILE", config.CalibrationProfile)
	}
}

func applyBooleanOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "server") {
		config.ServerMode = getEnvBool("SERVER", config.ServerMode)
	}
	if !isFlagSet(fs, "json") {
		config.JSONOutput = getEnvBool("JSON", config.JSONOutput)
	}
	if !isFlagSet(fs, "v") {
		config.Verbose = getEnvBool("VERBOSE", config.Verbose)
	}
	if !isFlagSet(fs, "d") && !isFlagSet(fs, "details") {
		config.Details = getEnvBool("DETAILS", config.Details)
	}
	if !isFlagSet(fs, "quiet") && !isFlagSet(fs, "q") {
		config.Quiet = getEnvBool("QUIET", config.Quiet)
	}
	if !isFlagSet(fs, "hex") {
		config.HexOutput = getEnvBool("HEX", config.HexOutput)
	}
	if !isFlagSet(fs, "interactive") {
		config.Interactive = getEnvBool("INTERACTIVE", config.Interactive)
	}
	if !isFlagSet(fs, "no-color") {
		config.NoColor = getEnvBool("NO_COLOR", config.NoColor)
	}
	if !isFlagSet(fs, "calibrate") {
		config.Calibrate = getEnvBool("CALIBRATE", config.Calibrate)
	}
	if !isFlagSet(fs, "auto-calibrate") {
		config.AutoCalibrate = getEnvBool("AUTO_CALIBRATE", config.AutoCalibrate)
	}
}
