package vecmath

import (
	"math"
	"sort"
)

const (
	// jacobiTolerance stops the rotation sweep once the off-diagonal energy of
	// the covariance matrix is negligible.
	jacobiTolerance = 1e-15
	// MaxJacobiIterations caps the sweep on stagnating input. A symmetric 3x3
	// matrix normally converges in well under a dozen rotations.
	MaxJacobiIterations = 64
)

// PrincipalAxes describes a point cloud by its centroid and its covariance
// eigenvectors, sorted by descending variance. Tertiary is the least-squares
// plane normal.
type PrincipalAxes struct {
	Centroid  Vec3
	Primary   Vec3
	Secondary Vec3
	Tertiary  Vec3
	// Values are the eigenvalues matching Primary, Secondary, Tertiary.
	Values [3]float64
	// Iterations is the number of Jacobi rotations applied.
	Iterations int
}

// Normal is the minimum-variance direction.
func (p PrincipalAxes) Normal() Vec3 { return p.Tertiary }

// FitPlane computes the principal axes of points. An empty slice yields the
// origin and the world axes.
func FitPlane(points []Vec3) PrincipalAxes {
	if len(points) == 0 {
		return PrincipalAxes{Primary: Right, Secondary: Up, Tertiary: Forward}
	}

	centroid := Centroid(points)
	values, vectors, iterations := EigenSymmetric(Covariance(points, centroid))

	return PrincipalAxes{
		Centroid:   centroid,
		Primary:    vectors[0],
		Secondary:  vectors[1],
		Tertiary:   vectors[2],
		Values:     values,
		Iterations: iterations,
	}
}

// Covariance builds the population covariance of points about centroid.
func Covariance(points []Vec3, centroid Vec3) Mat3 {
	var cov Mat3
	if len(points) == 0 {
		return cov
	}
	for _, p := range points {
		d := p.Sub(centroid)
		dv := [3]float64{d.X, d.Y, d.Z}
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				cov[r][c] += dv[r] * dv[c]
			}
		}
	}
	n := float64(len(points))
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			cov[r][c] /= n
		}
	}
	return cov
}

// EigenSymmetric diagonalizes a symmetric matrix with cyclic Jacobi rotations,
// each one zeroing the largest off-diagonal element. Eigenvalues come back in
// descending order with their unit eigenvectors. If the iteration cap is hit
// the current best estimate is returned.
func EigenSymmetric(m Mat3) (values [3]float64, vectors [3]Vec3, iterations int) {
	v := Identity3()

	for m.offDiagonalSq() > jacobiTolerance && iterations < MaxJacobiIterations {
		p, q := largestOffDiagonal(m)

		theta := 0.5 * math.Atan2(2*m[p][q], m[p][p]-m[q][q])
		sin, cos := math.Sincos(theta)

		rot := Identity3()
		rot[p][p] = cos
		rot[p][q] = -sin
		rot[q][p] = sin
		rot[q][q] = cos

		m = rot.Transpose().Mul(m).Mul(rot)
		v = v.Mul(rot)
		iterations++
	}

	order := []int{0, 1, 2}
	sort.SliceStable(order, func(i, j int) bool {
		return m[order[i]][order[i]] > m[order[j]][order[j]]
	})
	for i, k := range order {
		values[i] = m[k][k]
		vectors[i] = v.Column(k).Normalize()
	}
	return values, vectors, iterations
}

func largestOffDiagonal(m Mat3) (p, q int) {
	a, b, c := math.Abs(m[0][1]), math.Abs(m[0][2]), math.Abs(m[1][2])
	switch {
	case a > b && a > c:
		return 0, 1
	case b > c:
		return 0, 2
	default:
		return 1, 2
	}
}
