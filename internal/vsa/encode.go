package vsa

import (
	"hash/maphash"
	"math/rand"
	"strings"
)

// SymbolIder is the minimal contract encode.go needs from a symbol
// identifier: its raw uint64 value, used to seed deterministic generation.
// internal/symbol.ID satisfies this.
type SymbolIder interface {
	Raw() uint64
}

// EncodeSymbol deterministically maps a symbol id to a hypervector: the raw
// id seeds a PRNG, which fills the vector exactly as Random would. The same
// id always produces the same vector.
func EncodeSymbol(ops *Ops, id SymbolIder) HyperVec {
	rng := rand.New(rand.NewSource(int64(id.Raw())))
	return ops.Random(rng)
}

// tokenHashSeed is a process-wide seed for the token hasher. It must stay
// fixed for the lifetime of the process (and ideally across restarts) so
// that synthetic ids — and therefore encoded vectors — are reproducible.
var tokenHashSeed = maphash.MakeSeed()

// syntheticID hashes text into a deterministic 64-bit id with the high bit
// set, distinguishing token-derived ids from allocator-issued ones.
func syntheticID(text string) uint64 {
	var h maphash.Hash
	h.SetSeed(tokenHashSeed)
	h.WriteString(text)
	return h.Sum64() | (1 << 63)
}

type syntheticSymbolID uint64

func (s syntheticSymbolID) Raw() uint64 { return uint64(s) }

// EncodeToken hashes a word into a synthetic symbol id and encodes that
// deterministically. The same token always produces the same vector.
func EncodeToken(ops *Ops, token string) HyperVec {
	return EncodeSymbol(ops, syntheticSymbolID(syntheticID(token)))
}

// EncodeLabel splits a label on whitespace and bundles the per-word token
// vectors. A single-word label falls through to EncodeToken directly so
// that encode_label("dog") == encode_token("dog").
func EncodeLabel(ops *Ops, label string) (HyperVec, error) {
	words := strings.Fields(label)
	if len(words) == 0 {
		return HyperVec{}, &EmptyBundleError{}
	}
	if len(words) == 1 {
		return EncodeToken(ops, words[0]), nil
	}
	vecs := make([]HyperVec, len(words))
	for i, w := range words {
		vecs[i] = EncodeToken(ops, w)
	}
	return ops.Bundle(vecs)
}

// EncodeSequence bundles permute(encode_symbol(s_i), n-1-i) across the
// sequence, so each position gets a distinct permutation and order affects
// the result. Returns false for an empty sequence.
func EncodeSequence(ops *Ops, symbols []SymbolIder) (HyperVec, bool) {
	if len(symbols) == 0 {
		return HyperVec{}, false
	}
	n := len(symbols)
	vecs := make([]HyperVec, n)
	for i, sym := range symbols {
		base := EncodeSymbol(ops, sym)
		shift := n - 1 - i
		if shift > 0 {
			base = ops.Permute(base, shift)
		}
		vecs[i] = base
	}
	result, err := ops.Bundle(vecs)
	if err != nil {
		return HyperVec{}, false
	}
	return result, true
}

// EncodeRoleFiller binds the encoded role and filler symbols, representing
// a structured "the <role> is <filler>" fact.
func EncodeRoleFiller(ops *Ops, role, filler SymbolIder) (HyperVec, error) {
	roleVec := EncodeSymbol(ops, role)
	fillerVec := EncodeSymbol(ops, filler)
	return ops.Bind(roleVec, fillerVec)
}
