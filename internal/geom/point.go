package geom

import (
	"fmt"
	"sort"
)

// Point is a beacon position. Two points with the same coordinates are the
// same beacon regardless of which scan reported them.
type Point struct {
	X, Y, Z int
}

// Offset is a translation between two points.
type Offset struct {
	DX, DY, DZ int
}

// Origin is the zero point.
var Origin = Point{}

// Add translates p by o.
func (p Point) Add(o Offset) Point {
	return Point{X: p.X + o.DX, Y: p.Y + o.DY, Z: p.Z + o.DZ}
}

// Sub returns the offset that carries q onto p.
func (p Point) Sub(q Point) Offset {
	return Offset{DX: p.X - q.X, DY: p.Y - q.Y, DZ: p.Z - q.Z}
}

func (p Point) String() string {
	return fmt.Sprintf("%d,%d,%d", p.X, p.Y, p.Z)
}

// Add composes two translations.
func (o Offset) Add(other Offset) Offset {
	return Offset{DX: o.DX + other.DX, DY: o.DY + other.DY, DZ: o.DZ + other.DZ}
}

// Sub returns the translation from other to o.
func (o Offset) Sub(other Offset) Offset {
	return Offset{DX: o.DX - other.DX, DY: o.DY - other.DY, DZ: o.DZ - other.DZ}
}

// Neg returns the inverse translation.
func (o Offset) Neg() Offset {
	return Offset{DX: -o.DX, DY: -o.DY, DZ: -o.DZ}
}

// Manhattan returns |dx| + |dy| + |dz|.
func (o Offset) Manhattan() int {
	return abs(o.DX) + abs(o.DY) + abs(o.DZ)
}

// Point returns the position reached by translating the origin by o.
func (o Offset) Point() Point {
	return Origin.Add(o)
}

func (o Offset) String() string {
	return fmt.Sprintf("(%d,%d,%d)", o.DX, o.DY, o.DZ)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Translate returns a copy of points with every point moved by o.
func Translate(points []Point, o Offset) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = p.Add(o)
	}
	return out
}

// PointSet is a value-keyed set of points.
type PointSet map[Point]struct{}

// NewPointSet builds a set from one or more point lists.
func NewPointSet(lists ...[]Point) PointSet {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	s := make(PointSet, n)
	for _, l := range lists {
		s.AddAll(l)
	}
	return s
}

// AddAll inserts every point in points.
func (s PointSet) AddAll(points []Point) {
	for _, p := range points {
		s[p] = struct{}{}
	}
}

// Contains reports whether p is in the set.
func (s PointSet) Contains(p Point) bool {
	_, ok := s[p]
	return ok
}

// Len returns the number of distinct points.
func (s PointSet) Len() int { return len(s) }

// Sorted returns the points ordered by X, then Y, then Z.
func (s PointSet) Sorted() []Point {
	out := make([]Point, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	SortPoints(out)
	return out
}

// SortPoints orders points by X, then Y, then Z in place.
func SortPoints(points []Point) {
	sort.Slice(points, func(i, j int) bool {
		a, b := points[i], points[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
}
