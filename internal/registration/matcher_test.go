package registration_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/banshee-data/scanalign/internal/geom"
	"github.com/banshee-data/scanalign/internal/registration"
	"github.com/banshee-data/scanalign/internal/testutil"
)

// Beacons shared by scanners 0 and 1 of the sample, in scanner 0's frame.
var sharedBeacons01 = []geom.Point{
	{-618, -824, -621},
	{-537, -823, -458},
	{-447, -329, 318},
	{404, -588, -901},
	{544, -627, -890},
	{528, -643, 409},
	{-661, -816, -575},
	{390, -675, -793},
	{423, -701, 434},
	{-345, -311, 381},
	{459, -707, 401},
	{-485, -357, 347},
}

// Beacons shared by scanners 1 and 4 of the sample, in scanner 0's frame.
var sharedBeacons14 = []geom.Point{
	{459, -707, 401},
	{-739, -1745, 668},
	{-485, -357, 347},
	{432, -2009, 850},
	{528, -643, 409},
	{423, -701, 434},
	{-345, -311, 381},
	{408, -1815, 803},
	{534, -1912, 768},
	{-687, -1600, 576},
	{-447, -329, 318},
	{-635, -1737, 486},
}

func intersection(a, b []geom.Point) []geom.Point {
	bs := geom.NewPointSet(b)
	out := make(geom.PointSet)
	for _, p := range a {
		if bs.Contains(p) {
			out[p] = struct{}{}
		}
	}
	return out.Sorted()
}

func sorted(points []geom.Point) []geom.Point {
	out := append([]geom.Point(nil), points...)
	geom.SortPoints(out)
	return out
}

func TestMatcher_SelfMatchIsIdentity(t *testing.T) {
	scans := testutil.SampleScans(t)
	m := registration.NewMatcher(registration.MinOverlap, 0)

	al, ok := m.Match(registration.NewReference(scans[0].Points), scans[0].Points)
	require.True(t, ok)
	assert.Equal(t, geom.Identity, al.Rotation)
	assert.Equal(t, geom.Offset{}, al.Offset)
	assert.Equal(t, len(scans[0].Points), al.Overlap)
}

func TestMatcher_SampleScanner1(t *testing.T) {
	scans := testutil.SampleScans(t)
	m := registration.NewMatcher(registration.MinOverlap, 0)

	al, ok := m.Match(registration.NewReference(scans[0].Points), scans[1].Points)
	require.True(t, ok, "scanner 1 should align with scanner 0")
	assert.Equal(t, testutil.SampleOrigins[1], al.Offset)
	assert.Equal(t, 12, al.Overlap)

	got := intersection(scans[0].Points, al.Points)
	if diff := cmp.Diff(sorted(sharedBeacons01), got); diff != "" {
		t.Errorf("shared beacons mismatch (-want +got):\n%s", diff)
	}
}

func TestMatcher_SampleChain14(t *testing.T) {
	scans := testutil.SampleScans(t)
	m := registration.NewMatcher(registration.MinOverlap, 0)

	al1, ok := m.Match(registration.NewReference(scans[0].Points), scans[1].Points)
	require.True(t, ok)
	al4, ok := m.Match(registration.NewReference(al1.Points), scans[4].Points)
	require.True(t, ok, "scanner 4 should align with registered scanner 1")
	assert.Equal(t, testutil.SampleOrigins[4], al4.Offset)

	got := intersection(al1.Points, al4.Points)
	if diff := cmp.Diff(sorted(sharedBeacons14), got); diff != "" {
		t.Errorf("shared beacons mismatch (-want +got):\n%s", diff)
	}
}

func TestMatcher_SampleNoDirectOverlap(t *testing.T) {
	scans := testutil.SampleScans(t)
	m := registration.NewMatcher(registration.MinOverlap, 0)

	// Scanner 4 only overlaps scanner 0 through scanner 1.
	_, ok := m.Match(registration.NewReference(scans[0].Points), scans[4].Points)
	assert.False(t, ok)
}

func TestMatcher_DoesNotMutateInput(t *testing.T) {
	scans := testutil.SampleScans(t)
	before := append([]geom.Point(nil), scans[1].Points...)

	m := registration.NewMatcher(registration.MinOverlap, 0)
	_, ok := m.Match(registration.NewReference(scans[0].Points), scans[1].Points)
	require.True(t, ok)
	assert.Equal(t, before, scans[1].Points)
}

// overlapFixture builds a reference of 30 beacons and a candidate that
// shares exactly shared of them, plus 20 beacons the reference lacks,
// observed by a rotated, displaced scanner.
func overlapFixture(seed uint64, shared int, rot geom.Rotation, origin geom.Offset) (ref, candidate []geom.Point) {
	cloud := testutil.RandomCloud(seed, 50, 1000)
	ref = cloud[:30]
	global := append(append([]geom.Point(nil), cloud[:shared]...), cloud[30:]...)
	return ref, testutil.Observe(testutil.Shuffle(seed, global), rot, origin)
}

func TestMatcher_Threshold(t *testing.T) {
	rot := geom.Rotations()[17]
	origin := geom.Offset{DX: 1200, DY: -40, DZ: 333}

	tests := []struct {
		name       string
		shared     int
		minOverlap int
		wantMatch  bool
	}{
		{"eleven shared is rejected", 11, registration.MinOverlap, false},
		{"twelve shared is accepted", 12, registration.MinOverlap, true},
		{"thirty shared is accepted", 30, registration.MinOverlap, true},
		{"custom threshold accepts eleven", 11, 11, true},
		{"custom threshold rejects five", 5, 6, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, cand := overlapFixture(42, tt.shared, rot, origin)
			m := registration.NewMatcher(tt.minOverlap, 0)

			al, ok := m.Match(registration.NewReference(ref), cand)
			require.Equal(t, tt.wantMatch, ok)
			if !ok {
				return
			}
			assert.Equal(t, rot, al.Rotation)
			assert.Equal(t, origin, al.Offset)
			assert.Equal(t, tt.shared, al.Overlap)
		})
	}
}

func TestMatcher_TooFewPoints(t *testing.T) {
	m := registration.NewMatcher(registration.MinOverlap, 0)
	cloud := testutil.RandomCloud(5, 20, 100)

	_, ok := m.Match(registration.NewReference(cloud), cloud[:11])
	assert.False(t, ok, "candidate smaller than threshold")

	_, ok = m.Match(registration.NewReference(cloud[:11]), cloud)
	assert.False(t, ok, "reference smaller than threshold")

	_, ok = m.Match(nil, cloud)
	assert.False(t, ok, "nil reference")
}

func TestMatcher_ZeroThresholdUsesDefault(t *testing.T) {
	rot := geom.Rotations()[3]
	ref, cand := overlapFixture(8, 11, rot, geom.Offset{DX: 9})

	_, ok := registration.NewMatcher(0, 0).Match(registration.NewReference(ref), cand)
	assert.False(t, ok)

	var m *registration.Matcher
	_, ok = m.Match(registration.NewReference(ref), cand)
	assert.False(t, ok, "nil matcher uses defaults")
}

func TestMatcher_DeterministicAcrossWorkers(t *testing.T) {
	scans := testutil.SampleScans(t)
	ref := registration.NewReference(scans[0].Points)

	want, ok := registration.NewMatcher(registration.MinOverlap, 1).Match(ref, scans[1].Points)
	require.True(t, ok)
	for _, workers := range []int{2, 4, 24, 64} {
		got, ok := registration.NewMatcher(registration.MinOverlap, workers).Match(ref, scans[1].Points)
		require.True(t, ok, "workers=%d", workers)
		assert.Equal(t, want.Rotation, got.Rotation, "workers=%d", workers)
		assert.Equal(t, want.Offset, got.Offset, "workers=%d", workers)
		assert.Equal(t, want.Points, got.Points, "workers=%d", workers)
	}
}

// TestProperty_MatcherFindsPlantedOverlap verifies that any rigid placement
// sharing at least MinOverlap beacons with the reference is found, and
// that the alignment it reports really shares that many.
func TestProperty_MatcherFindsPlantedOverlap(t *testing.T) {
	rs := geom.Rotations()
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Uint64().Draw(t, "seed")
		shared := rapid.IntRange(registration.MinOverlap, 30).Draw(t, "shared")
		rot := rs[rapid.IntRange(0, len(rs)-1).Draw(t, "rotation")]
		origin := geom.Offset{
			DX: rapid.IntRange(-3000, 3000).Draw(t, "dx"),
			DY: rapid.IntRange(-3000, 3000).Draw(t, "dy"),
			DZ: rapid.IntRange(-3000, 3000).Draw(t, "dz"),
		}

		ref, cand := overlapFixture(seed, shared, rot, origin)
		al, ok := registration.NewMatcher(registration.MinOverlap, 0).Match(registration.NewReference(ref), cand)
		if !ok {
			t.Fatalf("no alignment found for %d shared beacons", shared)
		}
		if al.Overlap < registration.MinOverlap {
			t.Fatalf("alignment overlap %d below threshold", al.Overlap)
		}
		if got := len(intersection(ref, al.Points)); got != al.Overlap {
			t.Fatalf("reported overlap %d, actual %d", al.Overlap, got)
		}
		if len(al.Points) != len(cand) {
			t.Fatalf("aligned %d points, want %d", len(al.Points), len(cand))
		}
	})
}
