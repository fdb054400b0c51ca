// Package spectral implements the discrete Fourier transform core used by the
// frequency-domain forensic metrics.
//
// The transform is an iterative radix-2 Cooley-Tukey FFT operating in place:
// a bit-reversal permutation followed by log2(N) butterfly passes with twiddle
// factors recomputed per pass length. Inputs must be a power of two in length;
// callers pad or crop before transforming.
package spectral

import (
	"math"
	"math/cmplx"
)

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NextPowerOfTwo returns the smallest power of two >= n. n must be positive.
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// FFT computes the forward DFT of buf in place. len(buf) must be a power of
// two; behavior is undefined otherwise.
func FFT(buf []complex128) {
	transform(buf, false)
}

// IFFT computes the inverse DFT of buf in place, including the 1/N scaling.
// len(buf) must be a power of two.
func IFFT(buf []complex128) {
	transform(buf, true)
	scale := complex(1/float64(len(buf)), 0)
	for i := range buf {
		buf[i] *= scale
	}
}

func transform(buf []complex128, inverse bool) {
	n := len(buf)
	if n < 2 {
		return
	}

	// Bit-reversal permutation.
	j := 0
	for i := 1; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j |= bit
		if i < j {
			buf[i], buf[j] = buf[j], buf[i]
		}
	}

	sign := -1.0
	if inverse {
		sign = 1.0
	}

	// Butterfly passes, doubling the span each time.
	for length := 2; length <= n; length <<= 1 {
		ang := sign * 2 * math.Pi / float64(length)
		wl := cmplx.Rect(1, ang)
		half := length >> 1
		for start := 0; start < n; start += length {
			w := complex(1, 0)
			for k := 0; k < half; k++ {
				u := buf[start+k]
				v := buf[start+k+half] * w
				buf[start+k] = u + v
				buf[start+k+half] = u - v
				w *= wl
			}
		}
	}
}

// FFTReal transforms a real-valued sequence, returning freshly allocated
// complex coefficients. len(x) must be a power of two.
func FFTReal(x []float64) []complex128 {
	buf := make([]complex128, len(x))
	for i, v := range x {
		buf[i] = complex(v, 0)
	}
	FFT(buf)
	return buf
}
