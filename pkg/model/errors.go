package model

import "fmt"

// ConfigError reports an out-of-range threshold. It is raised once when the
// configuration is validated, before any video is processed.
type ConfigError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s=%v: %s", e.Field, e.Value, e.Reason)
}

// InputError reports a malformed raw frame sequence (non-monotonic or gapped
// indexes, or verdicts that do not line up with their frames).
type InputError struct {
	Index  int
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("malformed input at frame %d: %s", e.Index, e.Reason)
}
