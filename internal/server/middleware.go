// Package server provides the HTTP server implementation for the calculator API.
package server

import (
	"net/http"
	"time"
)

// WithRateLimiter sets a custom rate limiter for the server.
//
// Parameters:
//   - rl: The rate limiter to use.
//
// Returns:
//   - Option: A functional option that configures the server's rate limiter.
func WithRateLimiter(rl *RateLimiter) Option {
	return func(s *Server) {
		s.rateLimiter = rl
	}
}

// WithSecurityConfig sets a custom security configuration for the server.
//
// Parameters:
//   - config: The security configuration.
//
// Returns:
//   - Option: A functional option that configures the server's security settings.
func WithSecurityConfig(config SecurityConfig) Option {
	return func(s *Server) {
		s.securityConfig = config
	}
}

// WithMaxPrecision sets the maximum accepted working precision in bits.
// This helps prevent resource exhaustion via extremely precise evaluations.
//
// Parameters:
//   - maxPrec: The maximum allowed precision.
//
// Returns:
//   - Option: A functional option that configures the precision limit.
func WithMaxPrecision(maxPrec uint) Option {
	return func(s *Server) {
		s.securityConfig.MaxPrecisionBits = maxPrec
	}
}

// WithMaxExpressionLength sets the maximum accepted expression length.
//
// Parameters:
//   - maxLen: The maximum allowed length in bytes.
//
// Returns:
//   - Option: A functional option that configures the expression length limit.
func WithMaxExpressionLength(maxLen int) Option {
	return func(s *Server) {
		s.securityConfig.MaxExpressionLength = maxLen
	}
}

// loggingMiddleware wraps an http.HandlerFunc to log the details of each request.
// It records the HTTP method, URL path, remote address, and the duration required
// to process the request.
//
// Parameters:
//   - next: The next handler in the chain.
//
// Returns:
//   - http.HandlerFunc: A new handler with logging capability.
func (s *Server) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.logger.Printf("%s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

		next(w, r)

		duration := time.Since(start)
		s.logger.Printf("%s %s completed in %v", r.Method, r.URL.Path, duration)
	}
}
