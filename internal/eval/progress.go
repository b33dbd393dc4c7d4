package eval

// ProgressUpdate reports the completion state of one evaluation attempt.
// Attempts are identified by index so that a consumer can aggregate the
// progress of several concurrent evaluations.
type ProgressUpdate struct {
	// AttemptIndex identifies the evaluation attempt (0-based).
	AttemptIndex int
	// Value is the progress of the attempt, from 0.0 to 1.0.
	Value float64
}
