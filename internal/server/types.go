package server

// Response represents the standardized JSON response for an evaluation request.
type Response struct {
	// Expression is the expression that was evaluated.
	Expression string `json:"expression"`
	// Result is the decimal form of the evaluated value, with enough digits
	// to round-trip at the working precision. It is omitted if an error
	// occurred.
	Result string `json:"result,omitempty"`
	// Hex is the exact hexadecimal floating-point form of the result.
	Hex string `json:"hex,omitempty"`
	// Precision is the working precision in bits.
	Precision uint `json:"precision"`
	// Mode is the rounding mode used for the evaluation.
	Mode string `json:"mode"`
	// Duration is the formatted execution time string.
	Duration string `json:"duration"`
	// Error contains the error message if the evaluation failed.
	Error string `json:"error,omitempty"`
}

// ErrorResponse represents the standardized JSON response for an API error.
type ErrorResponse struct {
	// Error is the short error code or status text.
	Error string `json:"error"`
	// Message is a descriptive error message.
	Message string `json:"message,omitempty"`
}

// EvaluateParseError represents a parameter parsing error with HTTP status.
type EvaluateParseError struct {
	Message    string
	StatusCode int
}

// Error implements the error interface.
func (e EvaluateParseError) Error() string {
	return e.Message
}
