package spectral

import "math"

// Spectrum computes the centered log-magnitude spectrum of a luminance grid.
//
// The grid is cropped to maxSize on each side, zero-padded to a square whose
// side is the next power of two, transformed row-wise then column-wise, and
// shifted so the DC term sits at the center. Each output cell is
// log(1 + |F(u,v)|). The result is a pure function of the input.
func Spectrum(gray [][]float64, maxSize int) [][]float64 {
	h := len(gray)
	if h == 0 {
		return nil
	}
	w := len(gray[0])
	if w == 0 {
		return nil
	}
	if maxSize > 0 {
		if h > maxSize {
			h = maxSize
		}
		if w > maxSize {
			w = maxSize
		}
	}

	side := h
	if w > side {
		side = w
	}
	n := NextPowerOfTwo(side)

	// Zero-padded square working grid.
	grid := make([][]complex128, n)
	for y := 0; y < n; y++ {
		grid[y] = make([]complex128, n)
		if y < h {
			row := gray[y]
			for x := 0; x < w; x++ {
				grid[y][x] = complex(row[x], 0)
			}
		}
	}

	// Row transforms.
	for y := 0; y < n; y++ {
		FFT(grid[y])
	}

	// Column transforms through a scratch buffer.
	col := make([]complex128, n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			col[y] = grid[y][x]
		}
		FFT(col)
		for y := 0; y < n; y++ {
			grid[y][x] = col[y]
		}
	}

	// Center-shifted log magnitude.
	half := n / 2
	mag := make([][]float64, n)
	for y := 0; y < n; y++ {
		mag[y] = make([]float64, n)
		for x := 0; x < n; x++ {
			src := grid[(y+half)%n][(x+half)%n]
			re := real(src)
			im := imag(src)
			mag[y][x] = math.Log1p(math.Sqrt(re*re + im*im))
		}
	}
	return mag
}
