package psyche

import "fmt"

// MarshalError wraps a failure to encode or decode a Psyche record.
type MarshalError struct {
	Err error
}

func (e *MarshalError) Error() string { return fmt.Sprintf("psyche: marshal failed: %v", e.Err) }

func (e *MarshalError) Unwrap() error { return e.Err }

func (e *MarshalError) Code() string { return "psyche::marshal" }

func (e *MarshalError) Help() string { return "the stored psyche record is likely corrupt or from an incompatible version" }
