// Package cli provides progress tracking with ETA estimation.
package cli

import (
	"fmt"
	"time"
)

// Smoothing and gating constants for the ETA estimator. Rates are sampled at
// most every rateSampleGap and blended with exponential smoothing so a noisy
// worker does not make the estimate jump around.
const (
	etaWarmupTime    = 100 * time.Millisecond
	etaWarmupFloor   = 0.001
	rateSampleGap    = 0.05 // seconds between rate samples
	rateSmoothingOld = 0.7
	rateSmoothingNew = 0.3
	maxETA           = 24 * time.Hour
)

// ProgressWithETA layers a time-remaining estimate on top of ProgressState.
// The estimate comes from a smoothed progress rate in units of fraction
// completed per second.
type ProgressWithETA struct {
	*ProgressState
	startTime    time.Time
	lastUpdate   time.Time
	lastProgress float64
	progressRate float64
}

// NewProgressWithETA builds a tracker for numAttempts concurrent attempts,
// stamped with the current time.
func NewProgressWithETA(numAttempts int) *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{
		ProgressState: NewProgressState(numAttempts),
		startTime:     now,
		lastUpdate:    now,
	}
}

// UpdateWithETA records a progress value for one attempt and returns the new
// overall progress together with the estimated time remaining. The estimate
// is zero during the warmup window, before any rate can be trusted.
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (progress float64, eta time.Duration) {
	p.Update(index, value)
	progress = p.CalculateAverage()

	now := time.Now()
	if now.Sub(p.startTime) < etaWarmupTime || progress <= etaWarmupFloor {
		p.lastUpdate = now
		p.lastProgress = progress
		return progress, 0
	}

	if gap := now.Sub(p.lastUpdate).Seconds(); gap > rateSampleGap {
		p.observeRate(progress, gap, now)
	}
	return progress, p.etaAt(progress)
}

// observeRate folds one rate sample into the smoothed estimate. The very
// first sample falls back to the overall average rate since start.
func (p *ProgressWithETA) observeRate(progress, gap float64, now time.Time) {
	if delta := progress - p.lastProgress; delta > 0 {
		switch {
		case p.progressRate > 0:
			p.progressRate = rateSmoothingOld*p.progressRate + rateSmoothingNew*delta/gap
		default:
			p.progressRate = progress / now.Sub(p.startTime).Seconds()
		}
	}
	p.lastUpdate = now
	p.lastProgress = progress
}

// etaAt converts the smoothed rate into a remaining duration, capped at
// maxETA. Returns 0 when no rate is known yet or the work is done.
func (p *ProgressWithETA) etaAt(progress float64) time.Duration {
	if p.progressRate <= 0 || progress >= 1.0 {
		return 0
	}
	eta := time.Duration((1.0 - progress) / p.progressRate * float64(time.Second))
	if eta > maxETA {
		eta = maxETA
	}
	return eta
}

// GetETA reports the current estimate without recording new progress.
func (p *ProgressWithETA) GetETA() time.Duration {
	return p.etaAt(p.CalculateAverage())
}

// FormatETA renders a duration as a compact human-readable estimate such as
// "< 1s", "45s", "2m30s" or "1h15m". Nonpositive durations read as
// "calculating..." since no rate has been established.
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		m, s := int(eta.Minutes()), int(eta.Seconds())%60
		if s > 0 {
			return fmt.Sprintf("%dm%ds", m, s)
		}
		return fmt.Sprintf("%dm", m)
	default:
		h, m := int(eta.Hours()), int(eta.Minutes())%60
		if m > 0 {
			return fmt.Sprintf("%dh%dm", h, m)
		}
		return fmt.Sprintf("%dh", h)
	}
}

// FormatProgressBarWithETA renders the percentage, a bar of the given width,
// and the formatted ETA on one line.
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("%6.2f%% [%s] ETA: %s", progress*100, progressBar(progress, width), FormatETA(eta))
}
