package vecmath

// Mat3 is a row-major 3x3 matrix.
type Mat3 [3][3]float64

func Identity3() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

func (m Mat3) Mul(n Mat3) Mat3 {
	var out Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r][c] = m[r][0]*n[0][c] + m[r][1]*n[1][c] + m[r][2]*n[2][c]
		}
	}
	return out
}

func (m Mat3) Transpose() Mat3 {
	var out Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[c][r] = m[r][c]
		}
	}
	return out
}

func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

func (m Mat3) Column(c int) Vec3 {
	return Vec3{m[0][c], m[1][c], m[2][c]}
}

// offDiagonalSq is the sum of squares of all six off-diagonal entries.
func (m Mat3) offDiagonalSq() float64 {
	var sum float64
	for i := range 3 {
		for j := range 3 {
			if i != j {
				sum += m[i][j] * m[i][j]
			}
		}
	}
	return sum
}

// Transpose returns the transpose of a rectangular matrix. Rows of unequal
// length are a caller bug and panic with an index error.
func Transpose[T any](m [][]T) [][]T {
	if len(m) == 0 {
		return nil
	}
	rows, cols := len(m), len(m[0])
	out := make([][]T, cols)
	for c := range out {
		out[c] = make([]T, rows)
		for r := 0; r < rows; r++ {
			out[c][r] = m[r][c]
		}
	}
	return out
}
