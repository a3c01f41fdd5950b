package vsa

import (
	"math/rand"

	"cortexd/internal/logging"
	"cortexd/internal/simd"
)

// Ops owns a kernel, a dimension, and an encoding, and exposes the VSA
// algebra over hypervectors of that shape. All binary operations require
// matching dimension and encoding.
type Ops struct {
	kernel   simd.Kernel
	dim      Dimension
	encoding Encoding
}

// New constructs Ops bound to the given kernel, dimension and encoding.
func New(kernel simd.Kernel, dim Dimension, encoding Encoding) *Ops {
	return &Ops{kernel: kernel, dim: dim, encoding: encoding}
}

// NewDefault constructs Ops using the best available kernel for this CPU.
func NewDefault(dim Dimension, encoding Encoding) *Ops {
	return New(simd.BestKernel(), dim, encoding)
}

func (o *Ops) Dim() Dimension     { return o.dim }
func (o *Ops) Encoding() Encoding { return o.encoding }
func (o *Ops) KernelName() string { return o.kernel.Name() }

func (o *Ops) checkCompatible(a, b HyperVec) error {
	if a.Dim() != b.Dim() {
		return &DimensionMismatchError{Expected: int(a.Dim()), Actual: int(b.Dim())}
	}
	if a.Encoding() != b.Encoding() {
		return &EncodingMismatchError{Encoding: "mixed encodings"}
	}
	return nil
}

// Random fills a new hypervector with uniform random bits from rng, masking
// unused trailing bits of the final byte.
func (o *Ops) Random(rng *rand.Rand) HyperVec {
	byteLen := o.dim.ByteLen()
	data := make([]byte, byteLen)
	rng.Read(data)
	usedBits := int(o.dim) % 8
	if usedBits != 0 && byteLen > 0 {
		data[byteLen-1] &= byte(0xFF << uint(8-usedBits))
	}
	return FromRaw(data, o.dim, o.encoding)
}

// Bind XORs two hypervectors. XOR is self-inverse, so Unbind is Bind.
func (o *Ops) Bind(a, b HyperVec) (HyperVec, error) {
	if err := o.checkCompatible(a, b); err != nil {
		return HyperVec{}, err
	}
	out := make([]byte, a.ByteLen())
	o.kernel.XORBind(out, a.Data(), b.Data())
	return FromRaw(out, a.Dim(), a.Encoding()), nil
}

// Unbind recovers the other operand of a Bind given the bound vector and one
// of the two original operands.
func (o *Ops) Unbind(bound, key HyperVec) (HyperVec, error) {
	return o.Bind(bound, key)
}

// Bundle combines multiple hypervectors by per-bit majority vote, accumulated
// in i16 counters to avoid i8 saturation on large bundles. Ties (accumulator
// exactly zero) are broken by bit-position parity: even positions set, odd
// positions clear.
func (o *Ops) Bundle(vectors []HyperVec) (HyperVec, error) {
	if len(vectors) == 0 {
		log.Debug("bundle called with zero vectors")
		return HyperVec{}, &EmptyBundleError{}
	}
	dim := vectors[0].Dim()
	encoding := vectors[0].Encoding()
	for _, v := range vectors[1:] {
		if v.Dim() != dim {
			return HyperVec{}, &DimensionMismatchError{Expected: int(dim), Actual: int(v.Dim())}
		}
	}

	nBits := int(dim)
	acc := make([]int16, nBits)
	for _, v := range vectors {
		for i := 0; i < nBits; i++ {
			if v.GetBit(i) {
				acc[i]++
			} else {
				acc[i]--
			}
		}
	}

	result := Zero(dim, encoding)
	for i := 0; i < nBits; i++ {
		val := acc[i] > 0 || (acc[i] == 0 && i%2 == 0)
		result.SetBit(i, val)
	}
	return result, nil
}

// Permute performs a circular bit-shift of v by shift positions.
func (o *Ops) Permute(v HyperVec, shift int) HyperVec {
	out := make([]byte, v.ByteLen())
	o.kernel.Permute(out, v.Data(), shift)
	return FromRaw(out, v.Dim(), v.Encoding())
}

// Similarity returns normalized Hamming similarity in [0,1]; 1.0 is
// identical, 0.5 is independent.
func (o *Ops) Similarity(a, b HyperVec) (float32, error) {
	if err := o.checkCompatible(a, b); err != nil {
		return 0, err
	}
	hamming := o.kernel.HammingDistance(a.Data(), b.Data())
	return 1.0 - float32(hamming)/float32(a.Dim()), nil
}

// CosineSimilarity expands each bit to +1/-1 and delegates to the kernel.
func (o *Ops) CosineSimilarity(a, b HyperVec) (float32, error) {
	if err := o.checkCompatible(a, b); err != nil {
		return 0, err
	}
	n := int(a.Dim())
	ai := make([]int8, n)
	bi := make([]int8, n)
	for i := 0; i < n; i++ {
		ai[i] = bitToI8(a.GetBit(i))
		bi[i] = bitToI8(b.GetBit(i))
	}
	return o.kernel.CosineSimilarityI8(ai, bi), nil
}

func bitToI8(b bool) int8 {
	if b {
		return 1
	}
	return -1
}

var log = logging.Get(logging.CategoryVSA)
