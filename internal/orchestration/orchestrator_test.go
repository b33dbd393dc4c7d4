package orchestration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agbru/mpcalc/internal/bigfloat"
	"github.com/agbru/mpcalc/internal/config"
	apperrors "github.com/agbru/mpcalc/internal/errors"
)

func newFloat(prec uint, v float64) *bigfloat.Float {
	return bigfloat.New(prec).SetFloat64(v)
}

// TestExecuteEvaluations verifies that the orchestrator runs every guard
// attempt and aggregates their results.
func TestExecuteEvaluations(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		expression  string
		guards      []uint
		expectError bool
	}{
		{
			name:        "Single attempt",
			expression:  "1+2",
			guards:      []uint{0},
			expectError: false,
		},
		{
			name:        "Three guard precisions",
			expression:  "sin(1)^2 + cos(1)^2",
			guards:      []uint{0, 32, 64},
			expectError: false,
		},
		{
			name:        "Evaluation error",
			expression:  "frobnicate(1)",
			guards:      []uint{0, 32},
			expectError: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.AppConfig{Expression: tt.expression, Precision: 128, Mode: "nearest"}
			results := ExecuteEvaluations(context.Background(), tt.guards, cfg, &DiscardWriter{})
			if len(results) != len(tt.guards) {
				t.Fatalf("expected %d results, got %d", len(tt.guards), len(results))
			}
			for i, res := range results {
				if tt.expectError {
					if res.Err == nil {
						t.Errorf("attempt %d: expected error, got nil", i)
					}
					continue
				}
				if res.Err != nil {
					t.Errorf("attempt %d: unexpected error: %v", i, res.Err)
					continue
				}
				if res.Result.Prec() != 128 {
					t.Errorf("attempt %d: result precision %d, want 128", i, res.Result.Prec())
				}
				if res.WorkPrec != 128+tt.guards[i] {
					t.Errorf("attempt %d: work precision %d, want %d", i, res.WorkPrec, 128+tt.guards[i])
				}
			}
		})
	}
}

// TestExecuteEvaluationsConsistency verifies that all guard precisions round
// to the identical target value for a correctly rounded evaluation.
func TestExecuteEvaluationsConsistency(t *testing.T) {
	t.Parallel()
	cfg := config.AppConfig{Expression: "exp(log(7)) + zeta(2)", Precision: 200, Mode: "nearest"}
	results := ExecuteEvaluations(context.Background(), []uint{0, 32, 64}, cfg, &DiscardWriter{})

	for i := 1; i < len(results); i++ {
		if results[i].Err != nil {
			t.Fatalf("attempt %d failed: %v", i, results[i].Err)
		}
		if !sameValue(results[0].Result, results[i].Result) {
			t.Errorf("attempt %d rounded to %v, attempt 0 to %v", i, results[i].Result, results[0].Result)
		}
	}
}

// TestAnalyzeVerificationResults verifies the logic for cross-checking results
// from the guard attempts. It checks for consistent results, handling of
// failures, and detection of mismatches.
func TestAnalyzeVerificationResults(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name           string
		results        []EvaluationResult
		expectedStatus int
	}{
		{
			name: "All success",
			results: []EvaluationResult{
				{Name: "prec+0", Result: newFloat(64, 5), Duration: time.Millisecond, Err: nil},
				{Name: "prec+64", Result: newFloat(64, 5), Duration: time.Millisecond, Err: nil},
			},
			expectedStatus: apperrors.ExitSuccess,
		},
		{
			name: "Mismatch",
			results: []EvaluationResult{
				{Name: "prec+0", Result: newFloat(64, 5), Duration: time.Millisecond, Err: nil},
				{Name: "prec+64", Result: newFloat(64, 6), Duration: time.Millisecond, Err: nil},
			},
			expectedStatus: apperrors.ExitErrorMismatch,
		},
		{
			name: "All failure",
			results: []EvaluationResult{
				{Name: "prec+0", Result: nil, Duration: time.Millisecond, Err: errors.New("fail")},
				{Name: "prec+64", Result: nil, Duration: time.Millisecond, Err: errors.New("fail")},
			},
			expectedStatus: apperrors.ExitErrorGeneric,
		},
		{
			name: "Mixed success/failure",
			results: []EvaluationResult{
				{Name: "prec+0", Result: newFloat(64, 5), Duration: time.Millisecond, Err: nil},
				{Name: "prec+64", Result: nil, Duration: time.Millisecond, Err: errors.New("fail")},
			},
			expectedStatus: apperrors.ExitSuccess,
		},
		{
			name: "NaN results agree",
			results: []EvaluationResult{
				{Name: "prec+0", Result: bigfloat.New(64).SetNaN(), Duration: time.Millisecond, Err: nil},
				{Name: "prec+64", Result: bigfloat.New(64).SetNaN(), Duration: time.Millisecond, Err: nil},
			},
			expectedStatus: apperrors.ExitSuccess,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			status := AnalyzeVerificationResults(tt.results, config.AppConfig{Expression: "x"}, &DiscardWriter{})
			if status != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, status)
			}
		})
	}
}

// TestSameValue exercises the result comparison rules directly.
func TestSameValue(t *testing.T) {
	t.Parallel()
	posZero := bigfloat.New(64)
	negZero := bigfloat.New(64).Neg(bigfloat.New(64))
	if sameValue(posZero, negZero) {
		t.Error("zeros of opposite sign should not agree")
	}
	if !sameValue(posZero, bigfloat.New(64)) {
		t.Error("equal zeros should agree")
	}
	if sameValue(bigfloat.New(64).SetNaN(), newFloat(64, 1)) {
		t.Error("NaN should not agree with a finite value")
	}
}

// DiscardWriter is a helper that implements io.Writer and discards all data.
type DiscardWriter struct{}

func (d *DiscardWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}
