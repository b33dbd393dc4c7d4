// Package calibration tunes the evaluation engine for the host machine.
// This file implements calibration profile persistence.
package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// CalibrationProfile stores the results of a calibration run.
// It captures both the tuned engine parameters and the hardware context
// to allow validation of cached results.
type CalibrationProfile struct {
	// Hardware identification
	CPUModel  string `json:"cpu_model"`
	NumCPU    int    `json:"num_cpu"`
	GOARCH    string `json:"goarch"`
	GOOS      string `json:"goos"`
	GoVersion string `json:"go_version"`
	WordSize  int    `json:"word_size"` // 32 or 64

	// Tuned parameters (default/fallback values)
	LogCrossoverBits      int `json:"log_crossover_bits"`
	ParallelThresholdBits int `json:"parallel_threshold_bits"`

	// Tunings by precision range for more accurate selection
	TuningsByRange []RangeTunings `json:"tunings_by_range,omitempty"`

	// Calibration metadata
	CalibratedAt    time.Time `json:"calibrated_at"`
	CalibrationPrec uint      `json:"calibration_prec"`
	CalibrationTime string    `json:"calibration_time"`

	// Version for forward compatibility
	ProfileVersion int `json:"profile_version"`
}

// RangeTunings stores tuned parameters for a specific range of target
// precisions. This allows selection based on the size of the problem at hand.
type RangeTunings struct {
	// MinBits is the minimum target precision (inclusive) for this range
	MinBits uint `json:"min_bits"`
	// MaxBits is the maximum target precision (inclusive) for this range
	MaxBits uint `json:"max_bits"`
	// LogCrossoverBits is the tuned series/AGM crossover for this range
	LogCrossoverBits int `json:"log_crossover_bits"`
	// ParallelThresholdBits is the tuned parallel threshold for this range
	ParallelThresholdBits int `json:"parallel_threshold_bits"`
	// ConfidenceScore indicates the reliability of these tunings (0-1)
	ConfidenceScore float64 `json:"confidence_score"`
	// MeasurementCount is the number of measurements used to derive these tunings
	MeasurementCount int `json:"measurement_count"`
}

const (
	// CurrentProfileVersion is the current version of the profile format.
	// Increment this when making breaking changes to the profile structure.
	CurrentProfileVersion = 1

	// DefaultProfileFileName is the default name for the calibration profile file.
	DefaultProfileFileName = ".mpcalc_calibration.json"
)

// Predefined precision ranges for calibration
var DefaultPrecisionRanges = []struct {
	MinBits, MaxBits uint
	Label            string
}{
	{0, 256, "small"},             // up to quad precision
	{256, 4096, "medium"},         // typical interactive use
	{4096, 65536, "large"},        // serious constant hunting
	{65536, 1 << 24, "huge"},      // record territory
	{1 << 24, ^uint(0), "extreme"},
}

// GetDefaultProfilePath returns the default path for the calibration profile.
// It uses the user's home directory if available, otherwise the current directory.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

// NewProfile creates a new CalibrationProfile with current hardware info.
func NewProfile() *CalibrationProfile {
	return &CalibrationProfile{
		CPUModel:       getCPUModel(),
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       32 << (^uint(0) >> 63), // 32 or 64
		CalibratedAt:   time.Now(),
		ProfileVersion: CurrentProfileVersion,
	}
}

// getCPUModel attempts to get a CPU model identifier.
// This is platform-specific and may return a generic value.
func getCPUModel() string {
	// On most systems, GOARCH + NumCPU is a reasonable identifier.
	// A more sophisticated implementation could read /proc/cpuinfo on Linux
	// or use syscalls on other platforms.
	return fmt.Sprintf("%s-%d-cores", runtime.GOARCH, runtime.NumCPU())
}

// LoadProfile loads a calibration profile from the specified path.
// Returns nil and an error if the file doesn't exist or can't be parsed.
func LoadProfile(path string) (*CalibrationProfile, error) {
	if path == "" {
		path = GetDefaultProfilePath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile CalibrationProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	return &profile, nil
}

// SaveProfile saves the calibration profile to the specified path.
// If path is empty, uses the default profile path.
func (p *CalibrationProfile) SaveProfile(path string) error {
	if path == "" {
		path = GetDefaultProfilePath()
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}

	return nil
}

// IsValid checks if the profile is valid for the current hardware.
// A profile is considered valid if:
// - The profile version matches
// - The number of CPUs matches
// - The architecture matches
// - The word size matches
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}

	// Check version compatibility
	if p.ProfileVersion != CurrentProfileVersion {
		return false
	}

	// Check hardware compatibility
	if p.NumCPU != runtime.NumCPU() {
		return false
	}

	if p.GOARCH != runtime.GOARCH {
		return false
	}

	wordSize := 32 << (^uint(0) >> 63)
	if p.WordSize != wordSize {
		return false
	}

	return true
}

// IsStale checks if the profile is older than the given duration.
// This can be used to trigger re-calibration after a certain period.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

// String returns a human-readable summary of the profile.
func (p *CalibrationProfile) String() string {
	if p == nil {
		return "<nil profile>"
	}

	rangeInfo := ""
	if len(p.TuningsByRange) > 0 {
		rangeInfo = fmt.Sprintf(", Ranges: %d", len(p.TuningsByRange))
	}

	return fmt.Sprintf(
		"CalibrationProfile{CPU: %s, LogCrossover: %d bits, Parallel: %d bits%s, Calibrated: %s}",
		p.CPUModel,
		p.LogCrossoverBits,
		p.ParallelThresholdBits,
		rangeInfo,
		p.CalibratedAt.Format(time.RFC3339),
	)
}

// GetTuningsForPrec returns the tuned parameters for a given target precision.
// If a matching range is found with sufficient confidence, those tunings are
// returned. Otherwise, the default tunings are returned.
func (p *CalibrationProfile) GetTuningsForPrec(prec uint) (logCrossover, parallelThreshold int) {
	if p == nil {
		return 0, 0
	}

	// Search for a matching range with good confidence
	for _, r := range p.TuningsByRange {
		if prec >= r.MinBits && prec <= r.MaxBits && r.ConfidenceScore >= 0.5 {
			return r.LogCrossoverBits, r.ParallelThresholdBits
		}
	}

	// Fall back to default tunings
	return p.LogCrossoverBits, p.ParallelThresholdBits
}

// AddRangeTunings adds or updates tunings for a specific precision range.
// If a range with the same bounds exists, it is updated with the new values
// using a weighted average based on measurement counts.
func (p *CalibrationProfile) AddRangeTunings(r RangeTunings) {
	// Look for existing range with same bounds
	for i, existing := range p.TuningsByRange {
		if existing.MinBits == r.MinBits && existing.MaxBits == r.MaxBits {
			// Update existing range with weighted average
			totalCount := existing.MeasurementCount + r.MeasurementCount
			if totalCount > 0 {
				existingWeight := float64(existing.MeasurementCount) / float64(totalCount)
				newWeight := float64(r.MeasurementCount) / float64(totalCount)

				p.TuningsByRange[i].LogCrossoverBits = int(float64(existing.LogCrossoverBits)*existingWeight + float64(r.LogCrossoverBits)*newWeight)
				p.TuningsByRange[i].ParallelThresholdBits = int(float64(existing.ParallelThresholdBits)*existingWeight + float64(r.ParallelThresholdBits)*newWeight)
				p.TuningsByRange[i].ConfidenceScore = existing.ConfidenceScore*existingWeight + r.ConfidenceScore*newWeight
				p.TuningsByRange[i].MeasurementCount = totalCount
			}
			return
		}
	}

	// Add new range
	p.TuningsByRange = append(p.TuningsByRange, r)
}

// InitializeDefaultRanges initializes the profile with default range entries.
// This is useful when creating a new profile to ensure all ranges have some values.
func (p *CalibrationProfile) InitializeDefaultRanges() {
	if len(p.TuningsByRange) > 0 {
		return // Already has ranges
	}

	for _, r := range DefaultPrecisionRanges {
		p.TuningsByRange = append(p.TuningsByRange, RangeTunings{
			MinBits:               r.MinBits,
			MaxBits:               r.MaxBits,
			LogCrossoverBits:      p.LogCrossoverBits,
			ParallelThresholdBits: p.ParallelThresholdBits,
			ConfidenceScore:       0.3, // Low confidence for defaults
			MeasurementCount:      0,
		})
	}
}

// LoadOrCreateProfile loads an existing profile or creates a new one if not found.
// If the existing profile is invalid for the current hardware, returns a new profile.
func LoadOrCreateProfile(path string) (*CalibrationProfile, bool) {
	profile, err := LoadProfile(path)
	if err != nil {
		// File doesn't exist or can't be read - create new
		return NewProfile(), false
	}

	if !profile.IsValid() {
		// Profile is incompatible with current hardware - create new
		return NewProfile(), false
	}

	return profile, true
}

// ProfileExists checks if a calibration profile exists at the given path.
func ProfileExists(path string) bool {
	if path == "" {
		path = GetDefaultProfilePath()
	}
	_, err := os.Stat(path)
	return err == nil
}
