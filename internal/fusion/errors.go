package fusion

import "fmt"

// InvalidSymbolError reports a zero symbol id surfacing inside a fusion
// group key, which should never happen since symbol ids are non-zero by
// construction.
type InvalidSymbolError struct {
	Role string // "subject", "predicate", or "object"
}

func (e *InvalidSymbolError) Error() string {
	return fmt.Sprintf("fusion: invalid %s symbol id", e.Role)
}

func (e *InvalidSymbolError) Code() string { return "fusion::invalid_symbol" }

func (e *InvalidSymbolError) Help() string {
	return "check the InferencePath was built from resolved symbol ids, not zero values"
}
