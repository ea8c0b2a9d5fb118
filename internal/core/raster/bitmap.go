package raster

import "strings"

// Size is the side length of a Bitmap in pixels.
const Size = 28

// Bitmap is a grayscale image with values in [0, 1], indexed [row][col].
// Row 0 is the top of the canonical drawing square.
type Bitmap [Size][Size]float32

// At returns the value in row y, column x.
func (b *Bitmap) At(x, y int) float32 { return b[y][x] }

// Transposed swaps rows and columns.
func (b *Bitmap) Transposed() *Bitmap {
	var out Bitmap
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			out[c][r] = b[r][c]
		}
	}
	return &out
}

// Flatten returns the values in row-major order, the layout a (1, 28, 28, 1)
// classifier input tensor expects.
func (b *Bitmap) Flatten() []float32 {
	out := make([]float32, 0, Size*Size)
	for r := 0; r < Size; r++ {
		out = append(out, b[r][:]...)
	}
	return out
}

// IsZero reports whether every pixel is zero.
func (b *Bitmap) IsZero() bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c] != 0 {
				return false
			}
		}
	}
	return true
}

// NonZero counts pixels above zero.
func (b *Bitmap) NonZero() int {
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c] > 0 {
				n++
			}
		}
	}
	return n
}

// String renders the bitmap as rows of '.' (below 0.1) and '*'.
func (b *Bitmap) String() string {
	var sb strings.Builder
	sb.Grow(Size * (Size + 1))
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c] < 0.1 {
				sb.WriteByte('.')
			} else {
				sb.WriteByte('*')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
