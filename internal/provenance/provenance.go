// Package provenance records derivation evidence: which derived symbol came
// from which sources, by what kind of derivation, at what confidence and
// depth. Records are append-only and are evidence, never state — the core
// never recomputes a derivation from its provenance trail.
package provenance

import (
	"strconv"
	"sync"
	"time"

	"cortexd/internal/logging"
	"cortexd/internal/symbol"
)

var log = logging.Get(logging.CategoryProvenance)

// KindTag names the closed set of derivation kinds a record can carry.
type KindTag string

const (
	KindRuleInference     KindTag = "rule_inference"
	KindExtracted         KindTag = "extracted"
	KindSchemaDiscovered  KindTag = "schema_discovered"
	KindCodeGenerated     KindTag = "code_generated"
	KindSpamClassification KindTag = "spam_classification"
	KindEmailTriaged      KindTag = "email_triaged"
	KindPimTaskManaged    KindTag = "pim_task_managed"
)

// DerivationKind tags a record with a kind and an implementation-defined
// payload, so the core doesn't need to know the schema of domain-specific
// kinds like EmailTriaged or PimTaskManaged — those stay in the payload map
// owned by the (out-of-scope) collaborator that produced the record.
type DerivationKind struct {
	Tag     KindTag
	Payload map[string]string
}

// RuleInference builds a DerivationKind naming the rule and its antecedents.
func RuleInference(rule string, antecedents []symbol.ID) DerivationKind {
	payload := map[string]string{"rule": rule}
	for i, a := range antecedents {
		payload[antecedentKey(i)] = a.String()
	}
	return DerivationKind{Tag: KindRuleInference, Payload: payload}
}

func antecedentKey(i int) string {
	return "antecedent_" + strconv.Itoa(i)
}

// SchemaDiscovered builds a DerivationKind naming the discovered pattern type.
func SchemaDiscovered(patternType string) DerivationKind {
	return DerivationKind{Tag: KindSchemaDiscovered, Payload: map[string]string{"pattern_type": patternType}}
}

// Extracted builds a DerivationKind for facts imported from an external
// source with no rule involved.
func Extracted() DerivationKind {
	return DerivationKind{Tag: KindExtracted}
}

// Record is one derivation-evidence entry.
type Record struct {
	ID            uint64
	DerivedSymbol symbol.ID
	Sources       []symbol.ID
	Kind          DerivationKind
	Confidence    float64
	Depth         int
	Timestamp     time.Time
}

// Store holds provenance records in memory, keyed by derived symbol, with a
// monotonic record-id counter. Individual write failures (when backed by a
// durable store elsewhere) are the caller's concern to log and swallow —
// this in-memory index itself cannot fail.
type Store struct {
	mu      sync.Mutex
	nextID  uint64
	records map[symbol.ID][]Record
}

// NewStore returns an empty provenance Store.
func NewStore() *Store {
	return &Store{nextID: 1, records: make(map[symbol.ID][]Record)}
}

// StoreProvenance allocates a record id (if unset), fills the timestamp (if
// zero), appends the record under its derived symbol, and returns the
// record as stored.
func (s *Store) StoreProvenance(rec Record) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == 0 {
		rec.ID = s.nextID
		s.nextID++
	} else if rec.ID >= s.nextID {
		s.nextID = rec.ID + 1
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	s.records[rec.DerivedSymbol] = append(s.records[rec.DerivedSymbol], rec)
	log.Debug("stored provenance record %d for %s kind=%s", rec.ID, rec.DerivedSymbol, rec.Kind.Tag)
	return rec
}

// ProvenanceOf returns every record whose DerivedSymbol matches sym, ordered
// by record id (total order within one derived symbol).
func (s *Store) ProvenanceOf(sym symbol.ID) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.records[sym]...)
}
