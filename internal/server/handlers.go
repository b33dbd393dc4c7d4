package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/mpcalc/internal/bigfloat"
	"github.com/agbru/mpcalc/internal/service"
)

// handleHealth responds to health check requests.
// It returns a 200 OK status with a JSON payload indicating the service is healthy.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	response := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	}

	s.writeJSONResponse(w, http.StatusOK, response)
}

// handleFunctions returns the list of available mathematical functions.
// It queries the internal registry and returns name/doc pairs as a JSON array.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleFunctions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	type functionInfo struct {
		Name  string `json:"name"`
		Arity int    `json:"arity"`
		Doc   string `json:"doc"`
	}

	all := s.registry.All()
	functions := make([]functionInfo, 0, len(all))
	for _, fn := range all {
		functions = append(functions, functionInfo{Name: fn.Name, Arity: fn.Arity, Doc: fn.Doc})
	}

	response := map[string]any{
		"functions": functions,
	}

	s.writeJSONResponse(w, http.StatusOK, response)
}

// evaluateParams holds the parsed parameters of an /evaluate request.
type evaluateParams struct {
	expression string
	prec       uint
	mode       bigfloat.RoundingMode
	modeName   string
}

// handleEvaluate processes requests to evaluate expressions.
// It parses the query parameters 'expr' (the expression), 'prec' (the working
// precision in bits) and 'mode' (the rounding mode), executes the evaluation,
// and returns the result in JSON format.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// Parse and validate parameters using helper
	params, err := parseEvaluateParams(r)
	if err != nil {
		if parseErr, ok := err.(EvaluateParseError); ok {
			s.writeErrorResponse(w, parseErr.StatusCode, parseErr.Message)
		} else {
			s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	// Create a context with timeout for the evaluation
	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	// Perform the evaluation
	start := time.Now()
	result, err := s.service.Evaluate(ctx, params.expression, params.prec, params.mode)
	duration := time.Since(start)
	s.metrics.ObserveEvaluation(duration.Seconds(), err == nil)

	// Handle resource limit errors
	if errors.Is(err, service.ErrExpressionTooLong) {
		s.writeErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("Expression exceeds maximum length (%d bytes). This limit prevents resource exhaustion.", s.securityConfig.MaxExpressionLength))
		return
	}
	if errors.Is(err, service.ErrPrecisionTooHigh) {
		s.writeErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("Precision exceeds maximum allowed (%d bits). This limit prevents resource exhaustion.", s.securityConfig.MaxPrecisionBits))
		return
	}

	// Build and send response using helper
	resp := buildEvaluateResponse(params, result, duration, err)
	s.writeJSONResponse(w, http.StatusOK, resp)
}

// parseEvaluateParams extracts and validates the evaluation parameters from the request.
//
// Parameters:
//   - r: The HTTP request containing query parameters.
//
// Returns:
//   - evaluateParams: The parsed parameters. A zero prec defers to the
//     server's configured default.
//   - error: An EvaluateParseError if validation fails, nil otherwise.
func parseEvaluateParams(r *http.Request) (evaluateParams, error) {
	expression := r.URL.Query().Get("expr")
	if expression == "" {
		return evaluateParams{}, EvaluateParseError{
			Message:    "Missing 'expr' parameter",
			StatusCode: http.StatusBadRequest,
		}
	}

	var prec uint
	if precStr := r.URL.Query().Get("prec"); precStr != "" {
		p, parseErr := strconv.ParseUint(precStr, 10, 32)
		if parseErr != nil || p < 2 || p > bigfloat.MaxPrec {
			return evaluateParams{}, EvaluateParseError{
				Message:    fmt.Sprintf("Invalid 'prec' parameter: must be an integer between 2 and %d", bigfloat.MaxPrec),
				StatusCode: http.StatusBadRequest,
			}
		}
		prec = uint(p)
	}

	modeName := r.URL.Query().Get("mode")
	if modeName == "" {
		modeName = "nearest" // Default rounding mode
	}
	mode, ok := bigfloat.ParseMode(strings.ToLower(modeName))
	if !ok {
		return evaluateParams{}, EvaluateParseError{
			Message:    fmt.Sprintf("Invalid 'mode' parameter: %q is not a rounding mode", modeName),
			StatusCode: http.StatusBadRequest,
		}
	}

	return evaluateParams{
		expression: expression,
		prec:       prec,
		mode:       mode,
		modeName:   strings.ToLower(modeName),
	}, nil
}

// buildEvaluateResponse constructs the response struct for an evaluation.
//
// Parameters:
//   - params: The parsed request parameters.
//   - result: The evaluation result (may be nil if an error occurred).
//   - duration: The time taken for the evaluation.
//   - err: Any error that occurred during evaluation.
//
// Returns:
//   - Response: The constructed response struct.
func buildEvaluateResponse(params evaluateParams, result *bigfloat.Float, duration time.Duration, err error) Response {
	resp := Response{
		Expression: params.expression,
		Precision:  params.prec,
		Mode:       params.modeName,
		Duration:   duration.String(),
	}

	if err != nil {
		resp.Error = err.Error()
	} else {
		resp.Result = result.Text('g', -1)
		resp.Hex = result.Text('p', 0)
		resp.Precision = result.Prec()
	}

	return resp
}

// writeJSONResponse helper function to write a JSON response with the correct content type.
//
// Parameters:
//   - w: The HTTP response writer.
//   - statusCode: The HTTP status code to write.
//   - data: The data to be encoded as JSON.
func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("Error encoding JSON response: %v", err)
	}
}

// writeErrorResponse helper function to write a standardized error response.
//
// Parameters:
//   - w: The HTTP response writer.
//   - statusCode: The HTTP status code to write.
//   - message: The error message to be included in the response body.
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	errResp := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	s.writeJSONResponse(w, statusCode, errResp)
}
