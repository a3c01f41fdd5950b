package schema

import "fmt"

// InsufficientDataError reports that the graph doesn't have enough triples
// to discover any schema from.
type InsufficientDataError struct {
	Min    int
	Actual int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("schema: need at least %d triples, have %d", e.Min, e.Actual)
}

func (e *InsufficientDataError) Code() string { return "schema::insufficient_data" }

func (e *InsufficientDataError) Help() string {
	return "ingest more triples before running schema discovery"
}
