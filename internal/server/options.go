package server

import (
	"log"

	"time"

	"github.com/agbru/mpcalc/internal/logging"
	"github.com/agbru/mpcalc/internal/service"
)

// Option configures a Server during construction.
type Option func(*Server)

// WithLogger replaces the server's logger. A nil logger keeps the default.
// Tests use this to capture server output.
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStdLogger accepts a standard library log.Logger, adapting it to the
// unified logging interface. A nil logger keeps the default.
func WithStdLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logging.NewStdLoggerAdapter(logger)
		}
	}
}

// WithService injects a service implementation, letting tests substitute a
// mock for the real evaluator.
func WithService(svc service.Service) Option {
	return func(s *Server) {
		if svc != nil {
			s.service = svc
		}
	}
}

// WithTimeouts overrides the server's timeout set.
func WithTimeouts(timeouts Timeouts) Option {
	return func(s *Server) {
		s.timeouts = timeouts
	}
}

// Timeouts groups the server's timing knobs. WriteTimeout is generous
// because a high-precision evaluation can legitimately run for minutes.
type Timeouts struct {
	// RequestTimeout bounds a single evaluation request.
	RequestTimeout time.Duration
	// ShutdownTimeout bounds the graceful-shutdown drain.
	ShutdownTimeout time.Duration
	// ReadTimeout bounds reading a full request, body included.
	ReadTimeout time.Duration
	// WriteTimeout bounds writing the response.
	WriteTimeout time.Duration
	// IdleTimeout bounds keep-alive waits between requests.
	IdleTimeout time.Duration
}

func DefaultServerTimeouts() Timeouts {
	return Timeouts{
		RequestTimeout:  5 * time.Minute,
		ShutdownTimeout: 30 * time.Second,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Minute,
		IdleTimeout:     2 * time.Minute,
	}
}
