package simd

import "golang.org/x/sys/cpu"

// DetectISA reports the best instruction-set tier available on this CPU.
// On x86_64 with AVX2 support it reports IsaWide (see WideKernel doc for why
// this is a wide-word kernel rather than hand-written AVX2 assembly); every
// other platform reports IsaGeneric.
func DetectISA() IsaLevel {
	if cpu.X86.HasAVX2 {
		return IsaWide
	}
	return IsaGeneric
}

// BestKernel returns the fastest Kernel available for the current CPU.
func BestKernel() Kernel {
	switch DetectISA() {
	case IsaWide:
		return WideKernel{}
	default:
		return ScalarKernel{}
	}
}
