// Package geom holds the integer geometry shared by scan registration.
//
// Key types: Point (a beacon position), Offset (a translation between two
// positions), PointSet (value-keyed membership), and Rotation (one of the
// 24 proper rotations of a cube).
//
// Everything here is a value type. Transforms never modify their input;
// ApplyAll and Translate return new slices.
package geom
