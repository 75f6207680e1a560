package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// RotationCount is the number of proper rotations of a cube.
const RotationCount = 24

// Rotation is a proper rotation of the integer lattice about the origin.
// M is a row-major 3x3 signed permutation matrix (m00, m01, m02, m10, ...)
// with determinant +1.
type Rotation struct {
	M [9]int
}

// Identity leaves every point unchanged.
var Identity = Rotation{M: [9]int{
	1, 0, 0,
	0, 1, 0,
	0, 0, 1,
}}

// QuarterTurnY turns a point a quarter turn clockwise about the Y axis:
// (x, y, z) -> (z, y, -x).
var QuarterTurnY = Rotation{M: [9]int{
	0, 0, 1,
	0, 1, 0,
	-1, 0, 0,
}}

// QuarterTurnZ turns a point a quarter turn clockwise about the Z axis:
// (x, y, z) -> (y, -x, z).
var QuarterTurnZ = Rotation{M: [9]int{
	0, 1, 0,
	-1, 0, 0,
	0, 0, 1,
}}

// determinantTolerance absorbs float error from mat.Det on small integer matrices.
const determinantTolerance = 1e-9

var (
	rotations     = deriveRotations()
	rotationIndex = indexRotations(rotations)
)

// Rotations returns the 24 proper rotations, identity first. The order is
// stable across calls.
func Rotations() []Rotation {
	out := make([]Rotation, len(rotations))
	copy(out, rotations)
	return out
}

// deriveRotations enumerates every signed permutation matrix and keeps the
// ones with determinant +1. Half of the 48 signed permutations are
// reflections; the remaining 24 are the rotation group of the cube.
func deriveRotations() []Rotation {
	perms := [][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	signs := []int{1, -1}

	out := make([]Rotation, 0, RotationCount)
	for _, perm := range perms {
		for _, sx := range signs {
			for _, sy := range signs {
				for _, sz := range signs {
					var r Rotation
					rowSigns := [3]int{sx, sy, sz}
					for row := 0; row < 3; row++ {
						r.M[row*3+perm[row]] = rowSigns[row]
					}
					if r.IsProper() {
						out = append(out, r)
					}
				}
			}
		}
	}
	if len(out) != RotationCount {
		panic(fmt.Sprintf("geom: derived %d rotations, want %d", len(out), RotationCount))
	}
	return out
}

func indexRotations(rs []Rotation) map[Rotation]int {
	idx := make(map[Rotation]int, len(rs))
	for i, r := range rs {
		idx[r] = i
	}
	return idx
}

// Dense returns the rotation as a gonum matrix.
func (r Rotation) Dense() *mat.Dense {
	data := make([]float64, 9)
	for i, v := range r.M {
		data[i] = float64(v)
	}
	return mat.NewDense(3, 3, data)
}

// Det returns the determinant of the rotation matrix.
func (r Rotation) Det() float64 {
	return mat.Det(r.Dense())
}

// IsProper reports whether r is orthogonal with determinant +1, i.e. a
// rotation rather than a reflection.
func (r Rotation) IsProper() bool {
	if math.Abs(r.Det()-1) > determinantTolerance {
		return false
	}
	var product mat.Dense
	product.Mul(r.Dense(), r.Dense().T())
	return mat.EqualApprox(&product, Identity.Dense(), determinantTolerance)
}

// Index returns the position of r within Rotations, or -1 if r is not one
// of the 24 proper rotations.
func (r Rotation) Index() int {
	if i, ok := rotationIndex[r]; ok {
		return i
	}
	return -1
}

// Apply rotates p about the origin.
func (r Rotation) Apply(p Point) Point {
	m := &r.M
	return Point{
		X: m[0]*p.X + m[1]*p.Y + m[2]*p.Z,
		Y: m[3]*p.X + m[4]*p.Y + m[5]*p.Z,
		Z: m[6]*p.X + m[7]*p.Y + m[8]*p.Z,
	}
}

// ApplyAll returns a rotated copy of points in the same order.
func (r Rotation) ApplyAll(points []Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = r.Apply(p)
	}
	return out
}

// ApplyOffset rotates a translation vector.
func (r Rotation) ApplyOffset(o Offset) Offset {
	p := r.Apply(Point{X: o.DX, Y: o.DY, Z: o.DZ})
	return Offset{DX: p.X, DY: p.Y, DZ: p.Z}
}

// Compose returns the rotation that applies other first and then r.
func (r Rotation) Compose(other Rotation) Rotation {
	var out Rotation
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			sum := 0
			for k := 0; k < 3; k++ {
				sum += r.M[row*3+k] * other.M[k*3+col]
			}
			out.M[row*3+col] = sum
		}
	}
	return out
}

// Inverse returns the rotation that undoes r. For an orthogonal matrix this
// is the transpose.
func (r Rotation) Inverse() Rotation {
	var out Rotation
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			out.M[col*3+row] = r.M[row*3+col]
		}
	}
	return out
}

func (r Rotation) String() string {
	m := r.M
	return fmt.Sprintf("[%2d %2d %2d; %2d %2d %2d; %2d %2d %2d]",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8])
}

// Closure returns every rotation reachable by composing the generators,
// starting from the identity, in breadth-first order.
func Closure(generators ...Rotation) []Rotation {
	seen := map[Rotation]bool{Identity: true}
	out := []Rotation{Identity}
	for i := 0; i < len(out); i++ {
		for _, g := range generators {
			next := g.Compose(out[i])
			if !seen[next] {
				seen[next] = true
				out = append(out, next)
			}
		}
	}
	return out
}
