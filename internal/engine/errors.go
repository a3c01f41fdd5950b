package engine

import "fmt"

// SymbolNotFoundError reports a lookup against a label with no bound symbol.
type SymbolNotFoundError struct {
	Label string
}

func (e *SymbolNotFoundError) Error() string {
	return fmt.Sprintf("engine: no symbol for label %q", e.Label)
}

func (e *SymbolNotFoundError) Code() string { return "engine::symbol_not_found" }

func (e *SymbolNotFoundError) Help() string {
	return "create the symbol first, or use a resolve_or_create accessor"
}

// DuplicateLabelError reports that a label is already bound to a different
// symbol than the caller expected.
type DuplicateLabelError struct {
	Label      string
	ExistingID uint64
}

func (e *DuplicateLabelError) Error() string {
	return fmt.Sprintf("engine: label %q already bound to symbol %d", e.Label, e.ExistingID)
}

func (e *DuplicateLabelError) Code() string { return "engine::duplicate_label" }

func (e *DuplicateLabelError) Help() string {
	return "use resolve_or_create_entity/relation to reuse an existing label"
}
