// Package testutil provides shared test utilities and fixtures.
//
// This package centralises the scan fixtures used across registration,
// parsing and CLI tests, plus generators for synthetic scanner layouts.
package testutil

import (
	"bytes"
	_ "embed"
	"math/rand/v2"
	"testing"

	"github.com/banshee-data/scanalign/internal/geom"
	"github.com/banshee-data/scanalign/internal/registration"
	"github.com/banshee-data/scanalign/internal/scanfile"
)

// SampleReport is the canonical five-scanner report. Assembled from
// scanner 0 it holds 79 distinct beacons, and scanners 2 and 3 are 3621
// apart.
//
//go:embed testdata/sample.txt
var SampleReport []byte

// Known results for SampleReport.
const (
	SampleBeaconCount = 79
	SampleMaxDistance = 3621
)

// SampleOrigins are the scanner positions of SampleReport in scanner 0's frame.
var SampleOrigins = map[int]geom.Offset{
	0: {DX: 0, DY: 0, DZ: 0},
	1: {DX: 68, DY: -1246, DZ: -43},
	2: {DX: 1105, DY: -1205, DZ: 1229},
	3: {DX: -92, DY: -2380, DZ: -20},
	4: {DX: -20, DY: -1133, DZ: 1061},
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// SampleScans parses SampleReport.
func SampleScans(t testing.TB) []registration.Scan {
	t.Helper()
	scans, err := scanfile.Parse(bytes.NewReader(SampleReport))
	AssertNoError(t, err)
	return scans
}

// RandomCloud returns n distinct points with coordinates in [-span, span].
// The same seed always yields the same cloud.
func RandomCloud(seed uint64, n, span int) []geom.Point {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	seen := make(geom.PointSet, n)
	out := make([]geom.Point, 0, n)
	for len(out) < n {
		p := geom.Point{
			X: rng.IntN(2*span+1) - span,
			Y: rng.IntN(2*span+1) - span,
			Z: rng.IntN(2*span+1) - span,
		}
		if seen.Contains(p) {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Observe converts global-frame points into the local frame of a scanner
// at origin whose axes are rotated by rot, so that
// rot.Apply(local) + origin == global.
func Observe(global []geom.Point, rot geom.Rotation, origin geom.Offset) []geom.Point {
	inv := rot.Inverse()
	out := make([]geom.Point, len(global))
	for i, g := range global {
		out[i] = inv.ApplyOffset(g.Sub(origin.Point())).Point()
	}
	return out
}

// Shuffle returns a copy of points in a seed-determined order.
func Shuffle(seed uint64, points []geom.Point) []geom.Point {
	out := make([]geom.Point, len(points))
	copy(out, points)
	rng := rand.New(rand.NewPCG(seed, seed+1))
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
