package registration

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/scanalign/internal/geom"
)

// MinOverlap is the default number of shared beacons needed to accept an
// alignment. Twelve coincident beacons make a chance alignment implausible.
const MinOverlap = 12

// Reference is a set of global-frame beacons to align against. Points keeps
// the input order so that searches are deterministic; Set answers
// membership.
type Reference struct {
	Points []geom.Point
	Set    geom.PointSet
}

// NewReference indexes points for matching.
func NewReference(points []geom.Point) *Reference {
	return &Reference{Points: points, Set: geom.NewPointSet(points)}
}

// Alignment places a candidate cloud relative to a reference.
type Alignment struct {
	Rotation geom.Rotation
	// Offset is the candidate origin expressed in the reference frame.
	Offset geom.Offset
	// Points is the candidate cloud rotated then translated by Offset.
	Points []geom.Point
	// Overlap counts Points present in the reference.
	Overlap int
}

// Matcher searches the 24 rotations and all pairwise translations for an
// alignment sharing at least MinOverlap beacons with a reference.
type Matcher struct {
	MinOverlap int
	// Workers bounds the rotations searched concurrently. Zero or less
	// means runtime.GOMAXPROCS(0).
	Workers int
}

// NewMatcher returns a Matcher with the given threshold and concurrency.
// A threshold of zero or less selects MinOverlap.
func NewMatcher(minOverlap, workers int) *Matcher {
	return &Matcher{MinOverlap: minOverlap, Workers: workers}
}

func (m *Matcher) threshold() int {
	if m == nil || m.MinOverlap <= 0 {
		return MinOverlap
	}
	return m.MinOverlap
}

func (m *Matcher) workers() int {
	if m == nil || m.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return m.Workers
}

// Match looks for a rotation and translation of candidate that puts at
// least MinOverlap of its points on reference points. When several
// rotations qualify, the one earliest in geom.Rotations wins, so results do
// not depend on scheduling. Match returns false when no alignment reaches
// the threshold.
func (m *Matcher) Match(ref *Reference, candidate []geom.Point) (Alignment, bool) {
	need := m.threshold()
	if ref == nil || len(candidate) < need || len(ref.Set) < need {
		return Alignment{}, false
	}

	rotations := geom.Rotations()
	found := make([]*Alignment, len(rotations))
	var best atomic.Int64
	best.Store(int64(len(rotations)))

	var g errgroup.Group
	g.SetLimit(m.workers())
	for i, rot := range rotations {
		g.Go(func() error {
			stop := func() bool { return best.Load() < int64(i) }
			if stop() {
				return nil
			}
			rotated := rot.ApplyAll(candidate)
			offset, ok := searchTranslation(ref, rotated, need, stop)
			if !ok {
				return nil
			}
			pts := geom.Translate(rotated, offset)
			found[i] = &Alignment{
				Rotation: rot,
				Offset:   offset,
				Points:   pts,
				Overlap:  countOverlap(ref.Set, pts),
			}
			for {
				cur := best.Load()
				if cur <= int64(i) || best.CompareAndSwap(cur, int64(i)) {
					break
				}
			}
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	if idx := best.Load(); idx < int64(len(rotations)) {
		return *found[idx], true
	}
	return Alignment{}, false
}

// searchTranslation tries every offset implied by pairing a rotated
// candidate point with a reference point. If a qualifying alignment exists,
// at least need candidate points land on the reference, and one of them is
// among the first len(rotated)-need+1 points, so later candidate points
// need not be paired. stop is polled between candidate points.
func searchTranslation(ref *Reference, rotated []geom.Point, need int, stop func() bool) (geom.Offset, bool) {
	tried := make(map[geom.Offset]struct{}, len(ref.Points))
	last := len(rotated) - need
	for ci := 0; ci <= last; ci++ {
		if stop() {
			return geom.Offset{}, false
		}
		c := rotated[ci]
		for _, r := range ref.Points {
			t := r.Sub(c)
			if _, dup := tried[t]; dup {
				continue
			}
			tried[t] = struct{}{}
			if reaches(ref.Set, rotated, t, need) {
				return t, true
			}
		}
	}
	return geom.Offset{}, false
}

// reaches reports whether at least need points of pts land in set after
// translating by t. It stops as soon as the answer is known.
func reaches(set geom.PointSet, pts []geom.Point, t geom.Offset, need int) bool {
	hits := 0
	for i, p := range pts {
		if set.Contains(p.Add(t)) {
			hits++
			if hits >= need {
				return true
			}
		} else if hits+len(pts)-i-1 < need {
			return false
		}
	}
	return false
}

func countOverlap(set geom.PointSet, pts []geom.Point) int {
	n := 0
	for _, p := range pts {
		if set.Contains(p) {
			n++
		}
	}
	return n
}
