package chainsign

import "time"

// Config holds tunables shared by the engine and its hosting surfaces.
type Config struct {
	// OperationTimeout bounds a single engine operation end to end,
	// including store round-trips and event emission. Zero disables
	// the bound.
	OperationTimeout time.Duration

	// MaxApprovers caps the length of the approver list accepted at
	// submission. Zero means no cap.
	MaxApprovers int

	// StreamBuffer is the per-subscriber event buffer used by the
	// stream broker for live watchers.
	StreamBuffer int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		OperationTimeout: 10 * time.Second,
		MaxApprovers:     0,
		StreamBuffer:     256,
	}
}
