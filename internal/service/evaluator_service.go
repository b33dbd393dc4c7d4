package service

//go:generate mockgen -source=evaluator_service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"

	"github.com/agbru/mpcalc/internal/bigfloat"
	"github.com/agbru/mpcalc/internal/config"
	"github.com/agbru/mpcalc/internal/eval"
	"github.com/agbru/mpcalc/internal/mpmath"
)

var (
	// ErrExpressionTooLong is returned when the expression exceeds the
	// configured maximum length.
	ErrExpressionTooLong = errors.New("maximum expression length exceeded")
	// ErrPrecisionTooHigh is returned when the requested precision exceeds
	// the configured maximum.
	ErrPrecisionTooHigh = errors.New("maximum precision exceeded")
)

// Service defines the interface for expression evaluation services.
// This abstraction enables dependency injection and easier testing/mocking.
type Service interface {
	// Evaluate parses and evaluates the expression at the given precision
	// and rounding mode.
	//
	// Parameters:
	//   - ctx: The context for cancellation.
	//   - expression: The expression text to evaluate.
	//   - prec: The working precision in bits (0 uses the configured default).
	//   - mode: The rounding mode for the result.
	//
	// Returns:
	//   - *bigfloat.Float: The result.
	//   - error: An error if validation or evaluation fails.
	Evaluate(ctx context.Context, expression string, prec uint, mode bigfloat.RoundingMode) (*bigfloat.Float, error)
}

// EvaluatorService handles the core logic for evaluating expressions.
// It centralizes validation, registry lookup, and resource limits.
// Implements the Service interface.
type EvaluatorService struct {
	registry   *mpmath.Registry
	config     config.AppConfig
	maxExprLen int
	maxPrec    uint
}

// Ensure EvaluatorService implements Service interface.
var _ Service = (*EvaluatorService)(nil)

// NewEvaluatorService creates a new instance of EvaluatorService.
//
// Parameters:
//   - registry: The function registry evaluations resolve names against.
//   - cfg: The application configuration.
//   - maxExprLen: The maximum accepted expression length in bytes (0 for no limit).
//   - maxPrec: The maximum accepted precision in bits (0 for no limit).
func NewEvaluatorService(registry *mpmath.Registry, cfg config.AppConfig, maxExprLen int, maxPrec uint) *EvaluatorService {
	if registry == nil {
		registry = mpmath.DefaultRegistry()
	}
	return &EvaluatorService{
		registry:   registry,
		config:     cfg,
		maxExprLen: maxExprLen,
		maxPrec:    maxPrec,
	}
}

// Evaluate validates the request, then parses and evaluates the expression.
//
// The evaluation itself runs in a separate goroutine so that the caller's
// context deadline is honored. A computation that outlives the context keeps
// running until its current operation completes; its result is discarded.
func (s *EvaluatorService) Evaluate(ctx context.Context, expression string, prec uint, mode bigfloat.RoundingMode) (*bigfloat.Float, error) {
	tracer := otel.Tracer("mpcalc")
	ctx, span := tracer.Start(ctx, "Evaluate")
	defer span.End()

	// Validation
	if s.maxExprLen > 0 && len(expression) > s.maxExprLen {
		return nil, ErrExpressionTooLong
	}
	if prec == 0 {
		prec = s.config.PrecisionBits()
	}
	if s.maxPrec > 0 && prec > s.maxPrec {
		return nil, ErrPrecisionTooHigh
	}

	// Parse eagerly so syntax errors surface before any work is scheduled.
	expr, err := eval.Parse(expression)
	if err != nil {
		return nil, err
	}

	type outcome struct {
		z   *bigfloat.Float
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		ev := eval.NewEvaluator(prec, mode, s.registry)
		z, err := ev.Eval(expr)
		done <- outcome{z, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-done:
		return out.z, out.err
	}
}
